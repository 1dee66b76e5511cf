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

// Package template holds the data types the corpus composes candidate
// exploits out of: swap-call generators, the mutable exploit payload, and
// the fixed-framing raw test case they get merged into.
package template

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/cagehunt/cage/internal/wire"
)

func mustType(sig string) abi.Type {
	t, err := abi.NewType(sig, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

var swapArgs = abi.Arguments{
	{Type: mustType("uint256")},
	{Type: mustType("uint256")},
	{Type: mustType("address[]")},
	{Type: mustType("address")},
	{Type: mustType("uint256")},
}

const swapSupportingFeeSignature = "swapExactTokensForTokensSupportingFeeOnTransferTokens(uint256,uint256,address[],address,uint256)"

// maxDeadline is the router deadline the corpus always passes: max uint256,
// i.e. "never expires". The router never parses this against a real block
// timestamp in the forked run, so a fixed max value is simplest.
func maxDeadline() *big.Int {
	return new(uint256.Int).Not(new(uint256.Int)).ToBig()
}

// SwapTemplate generates the router calldata a RawTestCase's fixed swap-in
// / swap-out framing uses. Only the token/token direction is implemented:
// the spec's ETH-denominated swap variant is reachable in the original
// engine only through a constructor the live search driver never calls, so
// it is treated as intentionally unreachable here too.
type SwapTemplate struct {
	RouterAddr common.Address
	TokenA     common.Address
	TokenB     common.Address
}

// SwapAToB builds a swapExactTokensForTokensSupportingFeeOnTransferTokens
// call with path [TokenA, TokenB], amountIn left as the given sentinel or
// literal value, amountOutMin = 1, recipient = to.
func (s SwapTemplate) SwapAToB(amountIn *uint256.Int, to common.Address) (wire.EVMCall, error) {
	return s.buildSwap(amountIn, []common.Address{s.TokenA, s.TokenB}, to)
}

// SwapBToA is SwapAToB with the path reversed.
func (s SwapTemplate) SwapBToA(amountIn *uint256.Int, to common.Address) (wire.EVMCall, error) {
	return s.buildSwap(amountIn, []common.Address{s.TokenB, s.TokenA}, to)
}

func (s SwapTemplate) buildSwap(amountIn *uint256.Int, path []common.Address, to common.Address) (wire.EVMCall, error) {
	packed, err := swapArgs.Pack(amountIn.ToBig(), big.NewInt(1), path, to, maxDeadline())
	if err != nil {
		return wire.EVMCall{}, err
	}
	selector := wire.FunctionSelector(swapSupportingFeeSignature)
	calldata := make([]byte, 0, len(selector)+len(packed))
	calldata = append(calldata, selector[:]...)
	calldata = append(calldata, packed...)
	return wire.EVMCall{To: s.RouterAddr, Calldata: calldata, Value: new(uint256.Int)}, nil
}
