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
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/cagehunt/cage/internal/template"
	"github.com/cagehunt/cage/internal/wire"
)

func buildABICall(to common.Address, method abi.Method, args ...interface{}) (wire.EVMCall, error) {
	packed, err := method.Inputs.Pack(args...)
	if err != nil {
		return wire.EVMCall{}, err
	}
	calldata := make([]byte, 0, len(method.ID)+len(packed))
	calldata = append(calldata, method.ID...)
	calldata = append(calldata, packed...)
	return wire.EVMCall{To: to, Calldata: calldata, Value: new(uint256.Int)}, nil
}

// stateChangingCalls builds the call bank introduce_state_changing_functions
// diversifies every template with: the two zero-amount transfer ingredients
// already in the registry, two literal-amount-1 transfers if the target
// exposes "transfer", and one bare call per no-argument function the ABI
// exposes that isn't itself a view. Pure functions are deliberately not
// excluded here, even though they are mutation-free by definition --
// matching the original engine's behavior rather than the stricter filter
// registerBurnIngredients applies.
func (c *Cage) stateChangingCalls() ([]wire.EVMCall, error) {
	target := c.env.TargetTokenAddr()
	mainPier := c.env.MainPier()
	pair := c.env.PairAddr()

	targetABI, ok := c.env.TargetABI(target)
	if !ok {
		return nil, nil
	}

	var calls []wire.EVMCall

	if call, ok := c.corpus.Ingredient("this_transfer_this_zero"); ok {
		calls = append(calls, call)
	}
	if call, ok := c.corpus.Ingredient("this_transfer_pair_zero"); ok {
		calls = append(calls, call)
	}

	for _, method := range targetABI.Methods {
		if method.Name == "transfer" {
			toThis, err := buildABICall(target, method, mainPier, big.NewInt(1))
			if err != nil {
				return nil, err
			}
			toPair, err := buildABICall(target, method, pair, big.NewInt(1))
			if err != nil {
				return nil, err
			}
			calls = append(calls, toThis, toPair)
		}

		if len(method.Inputs) != 0 || method.StateMutability == "view" {
			continue
		}
		bare, err := buildABICall(target, method)
		if err != nil {
			return nil, err
		}
		calls = append(calls, bare)
	}

	return calls, nil
}

// introduceStateChangingFunctions returns, for every (original template,
// state-changing call) pair, two variants: one with the call appended to
// the repeated segment and one with it appended to the suffix. Templates
// that break the invariant via accounting side effects rather than direct
// swap manipulation show up only after this widening.
func (c *Cage) introduceStateChangingFunctions(templates []template.ExploitTemplate) ([]template.ExploitTemplate, error) {
	calls, err := c.stateChangingCalls()
	if err != nil {
		return nil, err
	}

	out := make([]template.ExploitTemplate, 0, len(templates)*len(calls)*2)
	for _, et := range templates {
		for _, call := range calls {
			withRepeated := et
			withRepeated.RepeatedCalls = appendCall(et.RepeatedCalls, call)
			out = append(out, withRepeated)

			withSuffix := et
			withSuffix.SuffixCalls = appendCall(et.SuffixCalls, call)
			out = append(out, withSuffix)
		}
	}

	return out, nil
}
