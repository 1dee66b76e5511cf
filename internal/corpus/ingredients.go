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

package corpus

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/cagehunt/cage/internal/oracle"
	"github.com/cagehunt/cage/internal/wire"
)

var (
	selTransfer = wire.FunctionSelector("transfer(address,uint256)")
	selSkim     = wire.FunctionSelector("skim(address)")
	selSync     = wire.FunctionSelector("sync()")
	selBurn1    = wire.FunctionSelector("burn(uint256)")
	selBurn2    = wire.FunctionSelector("burn(address,uint256)")
)

func transferCall(token, to common.Address, amount [32]byte) wire.EVMCall {
	calldata := make([]byte, 68)
	copy(calldata[:4], selTransfer[:])
	copy(calldata[4:36], common.LeftPadBytes(to.Bytes(), 32))
	copy(calldata[36:68], amount[:])
	return wire.EVMCall{To: token, Calldata: calldata, Value: new(uint256.Int)}
}

func skimCall(pair, to common.Address) wire.EVMCall {
	calldata := make([]byte, 36)
	copy(calldata[:4], selSkim[:])
	copy(calldata[4:36], common.LeftPadBytes(to.Bytes(), 32))
	return wire.EVMCall{To: pair, Calldata: calldata, Value: new(uint256.Int)}
}

func syncCall(pair common.Address) wire.EVMCall {
	calldata := make([]byte, 4)
	copy(calldata, selSync[:])
	return wire.EVMCall{To: pair, Calldata: calldata, Value: new(uint256.Int)}
}

func burnUint256Call(token common.Address, amount [32]byte) wire.EVMCall {
	calldata := make([]byte, 36)
	copy(calldata[:4], selBurn1[:])
	copy(calldata[4:36], amount[:])
	return wire.EVMCall{To: token, Calldata: calldata, Value: new(uint256.Int)}
}

func burnAddressUint256Call(token, holder common.Address, amount [32]byte) wire.EVMCall {
	calldata := make([]byte, 68)
	copy(calldata[:4], selBurn2[:])
	copy(calldata[4:36], common.LeftPadBytes(holder.Bytes(), 32))
	copy(calldata[36:68], amount[:])
	return wire.EVMCall{To: token, Calldata: calldata, Value: new(uint256.Int)}
}

// buildCoreIngredients populates the ingredients fixed regardless of what
// the target token's ABI looks like: transfers on target token, skims and
// sync on the pair.
func (c *Corpus) buildCoreIngredients() {
	target := c.env.TargetTokenAddr()
	pair := c.pairAddr
	mainPier := c.mainPier

	thisBalance := oracle.PlaceholderValue(oracle.PlaceholderThisBalance)
	pairBalance := oracle.PlaceholderValue(oracle.PlaceholderPairBalance)
	var zero [32]byte

	c.ingredients["this_transfer_pair_this_balance"] = transferCall(target, pair, thisBalance)
	c.ingredients["this_transfer_pair_pair_balance"] = transferCall(target, pair, pairBalance)
	c.ingredients["this_transfer_this_this_balance"] = transferCall(target, mainPier, thisBalance)
	c.ingredients["this_transfer_this_pair_balance"] = transferCall(target, mainPier, pairBalance)

	c.ingredients["this_transfer_this_zero"] = transferCall(target, mainPier, zero)
	c.ingredients["this_transfer_pair_zero"] = transferCall(target, pair, zero)

	c.ingredients["pair_skim_pair"] = skimCall(pair, pair)
	c.ingredients["pair_skim_this"] = skimCall(pair, mainPier)
	c.ingredients["sync"] = syncCall(pair)
}

// registerBurnIngredients scans the target token's ABI for burn-shaped
// functions (name containing "burn", not view/pure, inputs either a single
// unsigned integer or an address followed by an unsigned integer) and, if
// any exist, registers the two burn ingredients and
// records PublicBurnFunctionExists.
func (c *Corpus) registerBurnIngredients(targetABI abi.ABI, bridgeAddr common.Address) {
	target := c.env.TargetTokenAddr()
	pair := c.pairAddr

	for name, method := range targetABI.Methods {
		if !strings.Contains(strings.ToLower(name), "burn") {
			continue
		}
		if method.StateMutability == "view" || method.StateMutability == "pure" {
			continue
		}
		switch {
		case len(method.Inputs) == 1 && method.Inputs[0].Type.T == abi.UintTy:
			pairBalanceMinusOne := oracle.PlaceholderValue(oracle.PlaceholderPairBalanceMinusOne)
			burnAmount := oracle.PlaceholderValue(oracle.PlaceholderBurnAmount)
			c.ingredients["burn_pair_balance_minus_one"] = burnUint256Call(target, pairBalanceMinusOne)
			c.ingredients["burn_calculated_amount"] = burnUint256Call(target, burnAmount)
			c.publicBurnFunctionExists = true

		case len(method.Inputs) == 2 && method.Inputs[0].Type.T == abi.AddressTy && method.Inputs[1].Type.T == abi.UintTy:
			pairBalanceMinusOne := oracle.PlaceholderValue(oracle.PlaceholderPairBalanceMinusOne)
			burnAmount := oracle.PlaceholderValue(oracle.PlaceholderBurnAmount)
			c.ingredients["burn_pair_balance_minus_one"] = burnAddressUint256Call(target, pair, pairBalanceMinusOne)
			c.ingredients["burn_calculated_amount"] = burnAddressUint256Call(target, pair, burnAmount)
			c.publicBurnFunctionExists = true
		}
	}

	if c.publicBurnFunctionExists {
		c.ingredients["calculate_burn_amount"] = calculateBurnAmount(bridgeAddr)
	}
	c.env.SetPublicBurnFunctionExists(c.publicBurnFunctionExists)
}

// Ingredient returns the registered EVMCall for key, if any.
func (c *Corpus) Ingredient(key string) (wire.EVMCall, bool) {
	call, ok := c.ingredients[key]
	return call, ok
}
