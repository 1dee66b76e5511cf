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
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/cagehunt/cage/conf"
	"github.com/cagehunt/cage/internal/oracle"
	"github.com/cagehunt/cage/internal/scanner"
	"github.com/cagehunt/cage/internal/template"
	"github.com/cagehunt/cage/internal/wire"
	cageerrors "github.com/cagehunt/cage/pkg/errors"
)

// Corpus owns the reusable ingredient registry and the two base test cases
// get_basic_exploit_templates merges candidate exploit payloads into.
// Init must run after setup_target has populated CageEnv's target/base/pair
// addresses and after the bridge's initialize() RPC has recorded the
// main_pier address -- Corpus reads both through env at construction time.
type Corpus struct {
	env *oracle.CageEnv

	bridgeAddr        common.Address
	routerAddr        common.Address
	wrappedNativeAddr common.Address
	pairAddr          common.Address
	mainPier          common.Address

	basicTC  template.RawTestCase
	bridgeTC template.RawTestCase

	ingredients              map[string]wire.EVMCall
	publicBurnFunctionExists bool
}

// Init builds a Corpus for the given network: resolves the router and
// wrapped-native token, registers their ABIs, builds the two base test
// cases, and populates the ingredient registry.
func Init(ctx context.Context, sc *scanner.Scanner, env *oracle.CageEnv, network conf.Network, bridgeAddr common.Address) (*Corpus, error) {
	router, wrapped, err := routerAndWrappedNative(network)
	if err != nil {
		return nil, err
	}

	routerABI, err := sc.GetContractABI(ctx, router)
	if err != nil {
		return nil, cageerrors.Wrap(err, "corpus: fetch router abi")
	}
	env.AddTarget(router, routerABI)
	env.SetRouterAddr(router)

	wrappedABI, err := sc.GetContractABI(ctx, wrapped)
	if err != nil {
		return nil, cageerrors.Wrap(err, "corpus: fetch wrapped-native token abi")
	}
	env.AddTarget(wrapped, wrappedABI)
	if wrapped != env.BaseTokenAddr() {
		env.AddRelevantTokenAddr(wrapped)
	}

	c := &Corpus{
		env:               env,
		bridgeAddr:        bridgeAddr,
		routerAddr:        router,
		wrappedNativeAddr: wrapped,
		pairAddr:          env.PairAddr(),
		mainPier:          env.MainPier(),
		ingredients:       make(map[string]wire.EVMCall),
	}

	c.basicTC = c.buildBasicRawTestCase()
	c.bridgeTC = c.buildBridgeSwapRawTestCase()
	c.buildCoreIngredients()

	if targetABI, ok := env.TargetABI(env.TargetTokenAddr()); ok {
		c.registerBurnIngredients(targetABI, bridgeAddr)
	}

	return c, nil
}

// buildBasicRawTestCase frames the mutable payload with a direct router
// swap in each direction, base -> target for the prefix and target -> base
// for the suffix, using THIS_BALANCE as the swap-in amount so the oracle
// patches in the attacker's actual starting balance at run time.
func (c *Corpus) buildBasicRawTestCase() template.RawTestCase {
	swaps := template.SwapTemplate{RouterAddr: c.routerAddr, TokenA: c.env.BaseTokenAddr(), TokenB: c.env.TargetTokenAddr()}
	thisBalance := placeholderUint256(oracle.PlaceholderThisBalance)

	prefix, _ := swaps.SwapAToB(thisBalance, c.mainPier)
	suffix, _ := swaps.SwapBToA(thisBalance, c.mainPier)

	return template.RawTestCase{
		PrefixSwaps: []wire.EVMCall{prefix},
		SuffixSwaps: []wire.EVMCall{suffix},
	}
}

// buildBridgeSwapRawTestCase is the fallback base test case for
// fee-on-transfer tokens, where the standard router swap is unusable:
// the bridge's own swap hooks handle the fee internally.
func (c *Corpus) buildBridgeSwapRawTestCase() template.RawTestCase {
	return template.RawTestCase{
		PrefixSwaps: []wire.EVMCall{swapBaseTokenToTargetToken(c.bridgeAddr)},
		SuffixSwaps: []wire.EVMCall{swapTargetTokenToBaseToken(c.bridgeAddr)},
	}
}

// BaseTestCase returns the Basic base test case (direct router swaps).
func (c *Corpus) BaseTestCase() template.RawTestCase { return c.basicTC }

// BridgeSwapTestCase returns the bridge-swap base test case, used once
// calculate_fee has detected a nonzero transfer fee.
func (c *Corpus) BridgeSwapTestCase() template.RawTestCase { return c.bridgeTC }

// PublicBurnFunctionExists reports whether the target token's ABI exposed
// a burn-shaped function during Init.
func (c *Corpus) PublicBurnFunctionExists() bool { return c.publicBurnFunctionExists }

func placeholderUint256(p oracle.Placeholder) *uint256.Int {
	word := oracle.PlaceholderValue(p)
	return new(uint256.Int).SetBytes(word[:])
}
