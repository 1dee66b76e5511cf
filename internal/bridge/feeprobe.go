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

package bridge

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/cagehunt/cage/internal/evmhook"
	"github.com/cagehunt/cage/internal/oracle"
	cageerrors "github.com/cagehunt/cage/pkg/errors"
)

// FeeProbe deploys the BridgeCalculateFee harness once and re-runs it on
// every Run call. The harness itself is responsible for moving the target
// token and reporting the measured loss through the oracle's registerFee
// RPC; the Inspector stack the caller already wired into executor is what
// turns that call into env.RegisterFee, so Run only has to dispatch the
// call and let CageEnv's state speak for itself afterward.
type FeeProbe struct {
	executor evmhook.Executor
	env      *oracle.CageEnv
	caller   common.Address
	addr     common.Address
	gasLimit uint64
}

// NewFeeProbe deploys art as the BridgeCalculateFee harness and returns a
// FeeProbe ready to run it.
func NewFeeProbe(ctx context.Context, executor evmhook.Executor, env *oracle.CageEnv, caller common.Address, art Artifact, constructorArgs []byte, gasLimit uint64) (*FeeProbe, error) {
	addr, err := Deploy(ctx, executor, caller, art, constructorArgs, gasLimit)
	if err != nil {
		return nil, cageerrors.Wrap(err, "bridge: deploy calculate_fee harness")
	}
	return &FeeProbe{executor: executor, env: env, caller: caller, addr: addr, gasLimit: gasLimit}, nil
}

// runSelector is the 4-byte selector of the harness's no-argument run()
// entry point -- the only function BridgeCalculateFee.sol exposes.
var runSelector = []byte{0xc0, 0x40, 0x62, 0x26} // keccak256("run()")[:4]

// Run dispatches the harness. A revert here means the fee measurement
// itself broke (not that no fee exists) and is therefore fatal -- callers
// mirror this upstream in search.Cage.tryBreakInvariant, which panics on a
// non-nil error instead of discarding the template under search.
func (p *FeeProbe) Run(ctx context.Context) error {
	_, _, err := p.executor.Call(p.caller, p.addr, runSelector, new(uint256.Int), p.gasLimit)
	if err != nil {
		return cageerrors.Wrap(err, "bridge: calculate_fee run")
	}
	return nil
}
