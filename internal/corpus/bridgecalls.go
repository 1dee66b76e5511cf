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
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/cagehunt/cage/internal/wire"
)

// Bridge.sol's external entry points relevant to the corpus: the fallback
// swap hooks used by the bridge-swap base test case, and
// calculateBurnAmount, chained ahead of a burn(BURN_AMOUNT) ingredient.
// The Bridge contract itself is an external collaborator compiled and
// deployed outside this repository; the corpus only needs its selectors.
func noArgBridgeCall(bridgeAddr common.Address, signature string) wire.EVMCall {
	sel := wire.FunctionSelector(signature)
	return wire.EVMCall{To: bridgeAddr, Calldata: sel[:], Value: new(uint256.Int)}
}

func swapBaseTokenToTargetToken(bridgeAddr common.Address) wire.EVMCall {
	return noArgBridgeCall(bridgeAddr, "swapBaseTokenToTargetToken()")
}

func swapTargetTokenToBaseToken(bridgeAddr common.Address) wire.EVMCall {
	return noArgBridgeCall(bridgeAddr, "swapTargetTokenToBaseToken()")
}

func calculateBurnAmount(bridgeAddr common.Address) wire.EVMCall {
	return noArgBridgeCall(bridgeAddr, "calculateBurnAmount()")
}
