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

// Package corpus builds the registry of reusable exploit "ingredients" and
// composes them into the cross-product of basic exploit templates Phase A
// seeds its work queue with.
package corpus

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/cagehunt/cage/conf"
	cageerrors "github.com/cagehunt/cage/pkg/errors"
)

// Router and wrapped-native-token addresses are hard-coded per network,
// matching the live engine's fixed two-chain scope: there is no discovery
// mechanism, and adding a third chain means adding a third case here.
var (
	uniswapV2Router = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	wrappedEther    = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")

	pancakeV2Router = common.HexToAddress("0x10ED43C718714eb63d5aA57B78B54704E256024E")
	wrappedBNB      = common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c")
)

// routerAndWrappedNative returns the network's router address and its
// wrapped-native token address.
func routerAndWrappedNative(network conf.Network) (router, wrapped common.Address, err error) {
	switch network {
	case conf.NetworkEthereum:
		return uniswapV2Router, wrappedEther, nil
	case conf.NetworkBSC:
		return pancakeV2Router, wrappedBNB, nil
	default:
		return common.Address{}, common.Address{}, cageerrors.Wrapf(cageerrors.ErrUnknownNetwork, "corpus network %q", network)
	}
}
