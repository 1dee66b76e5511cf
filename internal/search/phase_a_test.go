// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.

package search

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/cagehunt/cage/internal/oracle"
	"github.com/cagehunt/cage/internal/template"
	"github.com/cagehunt/cage/internal/wire"
)

func TestTryBreakInvariantCollectsAttackerTokenGain(t *testing.T) {
	env := newTestEnv()
	corpus := newFakeCorpus()
	corpus.basics = []template.ExploitTemplate{{Name: "a"}}

	runner := newScriptedRunner(env, simulateAttackerTokenGain)
	c := NewCage(env, corpus, runner, nil, 0)

	findings := c.tryBreakInvariant(context.Background(), corpus.basics)
	require.Len(t, findings, 1)
	require.Equal(t, oracle.BugAttackerTokenGain, findings[0].Bug)
	require.Equal(t, "a", findings[0].Template.Name)
}

func TestTryBreakInvariantStopsOnProfitGenerated(t *testing.T) {
	env := newTestEnv()
	corpus := newFakeCorpus()
	templates := []template.ExploitTemplate{{Name: "a"}, {Name: "b"}}

	runner := newScriptedRunner(env, func(e *oracle.CageEnv) {
		e.NotifyExploitSuccess(uint256.NewInt(7))
	})
	c := NewCage(env, corpus, runner, nil, 0)

	findings := c.tryBreakInvariant(context.Background(), templates)
	require.Len(t, findings, 1)
	require.Equal(t, oracle.BugProfitGenerated, findings[0].Bug)
	require.Equal(t, "b", findings[0].Template.Name, "LIFO queue pops the last template first")
	require.Len(t, runner.calls, 1, "ProfitGenerated must abandon everything still queued")
}

func TestTryBreakInvariantRequeuesSyncVariantsOnPairTokenLoss(t *testing.T) {
	env := newTestEnv()
	corpus := newFakeCorpus()
	syncCall := call(99)
	corpus.ingredients["sync"] = syncCall
	templates := []template.ExploitTemplate{{Name: "x"}}

	runner := newScriptedRunner(env,
		simulatePairTokenLoss,
		nil,
		nil,
	)
	c := NewCage(env, corpus, runner, nil, 0)

	findings := c.tryBreakInvariant(context.Background(), templates)
	require.Len(t, findings, 1)
	require.Equal(t, oracle.BugPairTokenLoss, findings[0].Bug)
	require.Len(t, runner.calls, 3, "the original plus two sync-augmented variants must all run")

	foundSync := 0
	for _, tc := range runner.calls[1:] {
		for _, call := range tc.Calls {
			if call.To == syncCall.To {
				foundSync++
			}
		}
	}
	require.Equal(t, 2, foundSync, "both requeued variants must carry the sync call")
}

func TestTryBreakInvariantSwitchesBaseTestCaseOnDetectedFee(t *testing.T) {
	env := newTestEnv()
	corpus := newFakeCorpus()
	corpus.base = template.RawTestCase{PrefixSwaps: []wire.EVMCall{call(9)}}
	corpus.bridge = template.RawTestCase{PrefixSwaps: []wire.EVMCall{call(8)}}
	templates := []template.ExploitTemplate{{Name: "y"}}

	runner := newScriptedRunner(env,
		func(e *oracle.CageEnv) { e.NotifyInitialSwapFailed() },
		nil,
	)
	feeProbe := &fakeFeeProbe{env: env, fee: 5, setFee: true}
	c := NewCage(env, corpus, runner, feeProbe, 0)

	findings := c.tryBreakInvariant(context.Background(), templates)
	require.Empty(t, findings)
	require.True(t, feeProbe.ranOnce)
	require.Len(t, runner.calls, 2)
	require.Equal(t, call(9), runner.calls[0].Calls[0])
	require.Equal(t, call(8), runner.calls[1].Calls[0])
}

func TestTryBreakInvariantOnlyProbesFeeOnce(t *testing.T) {
	env := newTestEnv()
	corpus := newFakeCorpus()
	templates := []template.ExploitTemplate{{Name: "p"}, {Name: "q"}}

	runner := newScriptedRunner(env,
		func(e *oracle.CageEnv) { e.NotifyInitialSwapFailed() },
		func(e *oracle.CageEnv) { e.NotifyInitialSwapFailed() },
	)
	feeProbe := &fakeFeeProbe{env: env, setFee: false}
	c := NewCage(env, corpus, runner, feeProbe, 0)

	findings := c.tryBreakInvariant(context.Background(), templates)
	require.Empty(t, findings)
	require.Len(t, runner.calls, 2, "both templates run once, neither requeued since no fee was found")
}
