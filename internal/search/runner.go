// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.
//
// The cage library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The cage library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the cage library. If not, see <http://www.gnu.org/licenses/>.

package search

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/cagehunt/cage/internal/evmhook"
	"github.com/cagehunt/cage/internal/oracle"
	"github.com/cagehunt/cage/internal/wire"
	"github.com/cagehunt/cage/log"
)

// CaseRunner dispatches one resolved TestCase and lets the Oracle/Profiler
// inspectors, already wired into the executor by the caller, record the
// outcome into CageEnv. *Runner implements this against a live
// evmhook.Executor; tests substitute a fake that manipulates CageEnv
// directly to simulate a specific oracle verdict without a real
// interpreter.
type CaseRunner interface {
	Run(ctx context.Context, tc wire.TestCase)
}

// Runner is the search driver's only point of contact with the EVM: it
// resets per-test-case oracle state, ABI-encodes TestCase into the
// Bridge harness's run(TestCase) entry point, and dispatches it.
type Runner struct {
	executor   evmhook.Executor
	env        *oracle.CageEnv
	bridgeAddr common.Address
	gasLimit   uint64
}

// NewRunner returns a Runner dispatching against bridgeAddr.
func NewRunner(executor evmhook.Executor, env *oracle.CageEnv, bridgeAddr common.Address, gasLimit uint64) *Runner {
	return &Runner{executor: executor, env: env, bridgeAddr: bridgeAddr, gasLimit: gasLimit}
}

// SetBridgeAddr repoints the runner at a different deployed bridge
// harness.
func (r *Runner) SetBridgeAddr(addr common.Address) {
	r.bridgeAddr = addr
}

// Run resets CageEnv's per-test-case state, encodes tc, and dispatches it
// to the bridge. The bridge's own deliberate revert (notifyInitialSwapFailed
// bubbling up to abort the frame) is expected and already reflected in
// env.Bug() by the time Call returns, so the call's own error is only
// logged, never propagated -- callers always read the verdict back from
// CageEnv.
func (r *Runner) Run(ctx context.Context, tc wire.TestCase) {
	r.env.ResetRun()

	calldata, err := wire.EncodeRunCall(tc)
	if err != nil {
		log.Error("search: encode run(TestCase)", "err", err)
		return
	}

	if _, _, err := r.executor.Call(oracle.InitialCallerAddress, r.bridgeAddr, calldata, new(uint256.Int), r.gasLimit); err != nil {
		log.Trace("search: bridge run() returned", "err", err, "bug", r.env.Bug())
	}
}
