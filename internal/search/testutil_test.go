// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.

package search

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/cagehunt/cage/internal/oracle"
	"github.com/cagehunt/cage/internal/template"
	"github.com/cagehunt/cage/internal/wire"
)

// fakeCorpus is a minimal CorpusProvider backed by in-memory maps, so phase
// logic can be driven without a live scanner or forked chain.
type fakeCorpus struct {
	base, bridge template.RawTestCase
	ingredients  map[string]wire.EVMCall
	basics       []template.ExploitTemplate
}

func newFakeCorpus() *fakeCorpus {
	return &fakeCorpus{ingredients: make(map[string]wire.EVMCall)}
}

func (c *fakeCorpus) BaseTestCase() template.RawTestCase       { return c.base }
func (c *fakeCorpus) BridgeSwapTestCase() template.RawTestCase { return c.bridge }
func (c *fakeCorpus) Ingredient(key string) (wire.EVMCall, bool) {
	call, ok := c.ingredients[key]
	return call, ok
}
func (c *fakeCorpus) GetBasicExploitTemplates() []template.ExploitTemplate { return c.basics }

// scriptedRunner resets CageEnv's per-test-case state exactly like the real
// Runner, then applies the step function scheduled for the call index it's
// currently on (if any) to simulate whatever Oracle verdict the test wants
// for that run.
type scriptedRunner struct {
	env   *oracle.CageEnv
	steps []func(*oracle.CageEnv)
	calls []wire.TestCase
}

func newScriptedRunner(env *oracle.CageEnv, steps ...func(*oracle.CageEnv)) *scriptedRunner {
	return &scriptedRunner{env: env, steps: steps}
}

func (r *scriptedRunner) Run(_ context.Context, tc wire.TestCase) {
	idx := len(r.calls)
	r.calls = append(r.calls, tc)
	r.env.ResetRun()
	if idx < len(r.steps) && r.steps[idx] != nil {
		r.steps[idx](r.env)
	}
}

// fakeFeeProbe records whether it ran and optionally registers a fee or
// returns an error.
type fakeFeeProbe struct {
	env     *oracle.CageEnv
	fee     uint64
	setFee  bool
	err     error
	ranOnce bool
}

func (f *fakeFeeProbe) Run(context.Context) error {
	f.ranOnce = true
	if f.err != nil {
		return f.err
	}
	if f.setFee {
		f.env.RegisterFee(f.fee)
	}
	return nil
}

func call(n byte) wire.EVMCall {
	return wire.EVMCall{To: common.BytesToAddress([]byte{n}), Calldata: []byte{n}, Value: new(uint256.Int)}
}

func newTestEnv() *oracle.CageEnv {
	env := oracle.NewCageEnv()
	target := common.HexToAddress("0x1000000000000000000000000000000000000001")
	base := common.HexToAddress("0x2000000000000000000000000000000000000002")
	pair := common.HexToAddress("0x3000000000000000000000000000000000000003")
	router := common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	env.SetTargets(nil, target, base, pair, router)
	env.Initialize(common.HexToAddress("0x4000000000000000000000000000000000000004"), common.HexToAddress("0x5000000000000000000000000000000000000005"))
	return env
}

func simulatePairTokenLoss(env *oracle.CageEnv) {
	target := env.TargetTokenAddr()
	pair := env.PairAddr()
	env.UpdateTokenBalance(pair, target, uint256.NewInt(100))
	env.SaveBalanceSnapshot()
	env.UpdateTokenBalance(pair, target, uint256.NewInt(50))
	env.CheckInvariantBroken()
}

func simulateAttackerTokenGain(env *oracle.CageEnv) {
	target := env.TargetTokenAddr()
	mainPier := env.MainPier()
	env.UpdateTokenBalance(mainPier, target, uint256.NewInt(10))
	env.SaveBalanceSnapshot()
	env.UpdateTokenBalance(mainPier, target, uint256.NewInt(20))
	env.CheckInvariantBroken()
}
