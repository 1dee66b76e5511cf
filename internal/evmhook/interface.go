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

// Package evmhook defines the boundary between the search engine and the
// in-process EVM interpreter the engine forks and drives. The interpreter
// itself is out of scope for this repository (provided by the forked-chain
// backend); this package only fixes the shape the Oracle and Profiler
// inspect it through, the same way the teacher's internal/vm package
// separates VMCaller (what the interpreter can do) from the instrumentation
// that wraps it.
package evmhook

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// OpCode mirrors the EVM's single-byte instruction opcode. The Oracle's
// step hook only acts on REVERT, but the type is the full byte so the
// interpreter doesn't need a translation layer.
type OpCode byte

const (
	OpCall         OpCode = 0xF1
	OpCallCode     OpCode = 0xF2
	OpDelegateCall OpCode = 0xF4
	OpStaticCall   OpCode = 0xFA
	OpReturn       OpCode = 0xF3
	OpRevert       OpCode = 0xFD
	OpSelfDestruct OpCode = 0xFF
)

// BlockContext carries the block-level values the corpus and oracle need
// when sizing sentinel placeholder substitutions and computing deadlines.
type BlockContext struct {
	Number    uint64
	Timestamp uint64
	Coinbase  common.Address
	GasLimit  uint64
}

// TxContext carries the transaction-level values bound for the call the
// executor is currently running.
type TxContext struct {
	Origin   common.Address
	GasPrice *big.Int
}

// StateReader exposes the read-only state accessors the Oracle needs to
// size THIS_BALANCE/PAIR_BALANCE placeholders before substituting them into
// calldata, without granting it write access to world state.
type StateReader interface {
	GetBalance(addr common.Address) *uint256.Int
	GetERC20Balance(token, holder common.Address) (*uint256.Int, error)
	GetCodeHash(addr common.Address) common.Hash
	GetCode(addr common.Address) []byte
}

// Executor is the subset of the interpreter the search driver calls
// directly to run a TestCase: deploy the Bridge harness and dispatch calls
// against it.
type Executor interface {
	StateReader

	Call(caller, target common.Address, input []byte, value *uint256.Int, gasLimit uint64) (ret []byte, gasUsed uint64, err error)
	StaticCall(caller, target common.Address, input []byte, gasLimit uint64) (ret []byte, err error)
	Create(caller common.Address, code []byte, value *uint256.Int, gasLimit uint64) (contract common.Address, ret []byte, err error)

	BlockContext() BlockContext
	TxContext() TxContext
}

// Inspector is the hook surface spec.md requires of the Oracle and the
// Profiler: a per-opcode step callback and a call-interception callback
// that may short-circuit the call entirely (used by the Oracle to answer
// sentinel RPCs without ever reaching the interpreter).
type Inspector interface {
	// Step is invoked before every opcode the interpreter executes in the
	// current frame. bytecode is the running contract's deployed code,
	// used by the Profiler to hash a per-contract coverage key. The Oracle
	// ignores bytecode and only records that a REVERT happened.
	Step(pc uint64, op OpCode, contract common.Address, bytecode []byte)

	// Call is invoked before the interpreter dispatches a CALL-family
	// opcode. If handled is true, the interpreter must use ret/err as the
	// call's outcome instead of actually executing it -- this is how the
	// Oracle intercepts calls to the sentinel oracle address.
	Call(caller, callee common.Address, input []byte) (handled bool, ret []byte, err error)
}

// Stack composes an ordered list of Inspectors into one, mirroring the
// teacher's InspectorStackConfig.stack() composition of its own inspector
// list. Every Inspector in the stack observes every step/call; the first
// one to report handled=true on Call wins.
type Stack struct {
	inspectors []Inspector
}

// NewStack builds an inspector stack from the given inspectors, in order.
func NewStack(inspectors ...Inspector) *Stack {
	return &Stack{inspectors: inspectors}
}

func (s *Stack) Step(pc uint64, op OpCode, contract common.Address, bytecode []byte) {
	for _, insp := range s.inspectors {
		insp.Step(pc, op, contract, bytecode)
	}
}

func (s *Stack) Call(caller, callee common.Address, input []byte) (bool, []byte, error) {
	for _, insp := range s.inspectors {
		if handled, ret, err := insp.Call(caller, callee, input); handled {
			return true, ret, err
		}
	}
	return false, nil, nil
}
