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

package oracle

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/cagehunt/cage/internal/evmhook"
	"github.com/cagehunt/cage/internal/wire"
	"github.com/cagehunt/cage/log"
	cageerrors "github.com/cagehunt/cage/pkg/errors"
)

// Oracle is the EVM inspector that answers the Bridge harness's sentinel
// RPC calls and feeds balance snapshots into CageEnv for invariant-break
// detection. It implements evmhook.Inspector the same way the teacher's
// InstrumentedVM wraps the interpreter to add cross-cutting behavior
// without touching interpreter internals.
type Oracle struct {
	env *CageEnv

	verbosity int
}

// New constructs an Oracle sharing env with the rest of the run (corpus
// validation, search driver).
func New(env *CageEnv, verbosity int) *Oracle {
	return &Oracle{env: env, verbosity: verbosity}
}

// Step implements evmhook.Inspector. REVERT classification is the only
// thing the Oracle needs from the per-opcode stream; everything else
// (balances, invariant checks) arrives through the Call hook's RPCs.
func (o *Oracle) Step(pc uint64, op evmhook.OpCode, contract common.Address, bytecode []byte) {
	if op != evmhook.OpRevert {
		return
	}
	o.env.HandleRevert()
	if o.verbosity >= 4 {
		log.Trace("oracle observed revert", "pc", pc, "contract", contract.Hex(), "bug", o.env.Bug())
	}
}

// Call implements evmhook.Inspector, intercepting calls to OracleAddress
// and dispatching them through the wire package's selector table instead
// of letting the interpreter execute them as a real contract call.
func (o *Oracle) Call(caller, callee common.Address, input []byte) (bool, []byte, error) {
	if callee != OracleAddress {
		return false, nil, nil
	}
	if len(input) < 4 {
		return true, nil, cageerrors.ErrMalformedCalldata
	}

	var selector wire.Selector
	copy(selector[:], input[:4])
	args := input[4:]

	switch selector {
	case wire.SelectorGetRelevantTokenAddrs:
		ret, err := wire.EncodeAddressesReturn(o.env.RelevantTokenAddrs())
		return true, ret, err

	case wire.SelectorGetTargetAddrs:
		ret, err := wire.EncodeAddressesReturn(o.env.TargetAddrs())
		return true, ret, err

	case wire.SelectorGetBaseTokenAddr:
		ret, err := wire.EncodeAddressReturn(o.env.BaseTokenAddr())
		return true, ret, err

	case wire.SelectorGetPairAddr:
		ret, err := wire.EncodeAddressReturn(o.env.PairAddr())
		return true, ret, err

	case wire.SelectorGetRouterAddr:
		ret, err := wire.EncodeAddressReturn(o.env.RouterAddr())
		return true, ret, err

	case wire.SelectorGetTargetTokenAddr:
		ret, err := wire.EncodeAddressReturn(o.env.TargetTokenAddr())
		return true, ret, err

	case wire.SelectorUpdateTokenBalance:
		holder, token, balance, err := wire.DecodeUpdateTokenBalance(args)
		if err != nil {
			return true, nil, cageerrors.Wrap(err, "oracle: decode updateTokenBalance")
		}
		if !o.env.UpdateTokenBalance(holder, token, balance) {
			panic(cageerrors.Wrapf(cageerrors.ErrUnknownBalanceHolder, "holder %s", holder.Hex()))
		}
		return true, nil, nil

	case wire.SelectorAddRelevantTokenAddr:
		token, err := wire.DecodeAddRelevantTokenAddr(args)
		if err != nil {
			return true, nil, cageerrors.Wrap(err, "oracle: decode addRelevantTokenAddr")
		}
		o.env.AddRelevantTokenAddr(token)
		return true, nil, nil

	case wire.SelectorInitialize:
		bridge, mainPier, err := wire.DecodeInitialize(args)
		if err != nil {
			return true, nil, cageerrors.Wrap(err, "oracle: decode initialize")
		}
		o.env.Initialize(bridge, mainPier)
		return true, nil, nil

	case wire.SelectorSaveBalanceSnapshot:
		o.env.SaveBalanceSnapshot()
		return true, nil, nil

	case wire.SelectorCheckInvariantBroken:
		o.env.CheckInvariantBroken()
		return true, nil, nil

	case wire.SelectorNotifyExploitSuccess:
		profit, err := wire.DecodeNotifyExploitSuccess(args)
		if err != nil {
			return true, nil, cageerrors.Wrap(err, "oracle: decode notifyExploitSuccess")
		}
		o.env.NotifyExploitSuccess(profit)
		return true, nil, nil

	case wire.SelectorNotifyInitialSwapFailed:
		o.env.NotifyInitialSwapFailed()
		// The bridge expects this call itself to revert the enclosing
		// frame, signalling upward that the test case cannot proceed.
		return true, nil, cageerrors.ErrInitialSwapFailed

	case wire.SelectorRegisterFee:
		pct, err := wire.DecodeRegisterFee(args)
		if err != nil {
			return true, nil, cageerrors.Wrap(err, "oracle: decode registerFee")
		}
		o.env.RegisterFee(pct.Uint64())
		return true, nil, nil

	case wire.SelectorGetFee:
		ret, err := wire.EncodeUint256Return(uint256.NewInt(o.env.Fee()))
		return true, ret, err

	case wire.SelectorGetInitialTokenPercent:
		ret, err := wire.EncodeUint256Return(uint256.NewInt(o.env.InitialTokenPercent()))
		return true, ret, err

	case wire.SelectorRegisterBurnAmount:
		amount, err := wire.DecodeRegisterBurnAmount(args)
		if err != nil {
			return true, nil, cageerrors.Wrap(err, "oracle: decode registerBurnAmount")
		}
		o.env.RegisterBurnAmount(o.env.PairAddr(), amount)
		return true, nil, nil

	case wire.SelectorReplacePlaceholderValue:
		calldata, err := wire.DecodeReplacePlaceholderValue(args)
		if err != nil {
			return true, nil, cageerrors.Wrap(err, "oracle: decode replacePlaceholderValue")
		}
		replaced, err := ReplacePlaceholderValue(calldata, o.env)
		if cageerrors.Is(err, cageerrors.ErrUnknownBurnPlaceholder) {
			panic(err)
		}
		if err != nil {
			return true, nil, err
		}
		ret, err := wire.EncodeBytesReturn(replaced)
		return true, ret, err

	default:
		return true, nil, cageerrors.Wrapf(cageerrors.ErrUnknownSelector, "%x", selector)
	}
}
