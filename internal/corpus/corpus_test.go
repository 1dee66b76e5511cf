// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.

package corpus

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/cagehunt/cage/internal/oracle"
	"github.com/cagehunt/cage/internal/wire"
)

func newTestCorpus(t *testing.T) *Corpus {
	t.Helper()

	env := oracle.NewCageEnv()
	target := common.HexToAddress("0x1000000000000000000000000000000000000001")
	base := common.HexToAddress("0x2000000000000000000000000000000000000002")
	pair := common.HexToAddress("0x3000000000000000000000000000000000000003")
	router := common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")

	env.SetTargets(map[common.Address]abi.ABI{}, target, base, pair, router)
	env.Initialize(common.HexToAddress("0x4000000000000000000000000000000000000004"), common.HexToAddress("0x5000000000000000000000000000000000000005"))

	c := &Corpus{
		env:         env,
		bridgeAddr:  env.MainPier(),
		routerAddr:  router,
		pairAddr:    pair,
		mainPier:    env.MainPier(),
		ingredients: make(map[string]wire.EVMCall),
	}
	c.basicTC = c.buildBasicRawTestCase()
	c.buildCoreIngredients()
	return c
}

func TestInitialTokenPercentsHas28Values(t *testing.T) {
	require.Len(t, initialTokenPercents(), 28)
}

func TestGetBasicExploitTemplatesWithoutBurn(t *testing.T) {
	c := newTestCorpus(t)
	templates := c.GetBasicExploitTemplates()
	require.NotEmpty(t, templates)

	lowPercentHasPairShapes := false
	for _, et := range templates {
		if et.InitialTokenPercent < 50 && et.Name == "cycle_pair_pair" {
			lowPercentHasPairShapes = true
		}
	}
	require.False(t, lowPercentHasPairShapes, "pair-balance shapes must not appear below percent 50")
}

func TestGetBasicExploitTemplatesIncludesPairShapesAtOrAbove50(t *testing.T) {
	c := newTestCorpus(t)
	templates := c.GetBasicExploitTemplates()

	found := false
	for _, et := range templates {
		if et.InitialTokenPercent >= 50 && et.Name == "cycle_pair_pair" {
			found = true
		}
	}
	require.True(t, found)
}

func TestGetBasicExploitTemplatesExcludesBurnShapesWithoutBurnFunction(t *testing.T) {
	c := newTestCorpus(t)
	templates := c.GetBasicExploitTemplates()
	for _, et := range templates {
		require.NotEqual(t, "cycle_burn_pair_minus_one", et.Name)
		require.NotEqual(t, "cycle_burn_calculated", et.Name)
	}
}

func TestCyclePairThisOptPreservesDocumentedBug(t *testing.T) {
	c := newTestCorpus(t)
	templates := c.GetBasicExploitTemplates()

	for _, et := range templates {
		if et.Name != "cycle_pair_this_opt" {
			continue
		}
		pairBalanceIngredient, _ := c.Ingredient("this_transfer_pair_pair_balance")
		require.Equal(t, pairBalanceIngredient.Calldata, et.RepeatedCalls[0].Calldata)
		return
	}
	t.Fatal("cycle_pair_this_opt template not generated")
}
