// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.

package search

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/require"

	"github.com/cagehunt/cage/internal/template"
)

const testTokenABI = `[
  {"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"},
  {"type":"function","name":"decimals","inputs":[],"outputs":[{"name":"","type":"uint8"}],"stateMutability":"view"},
  {"type":"function","name":"rebase","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"magicConstant","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"pure"}
]`

func TestStateChangingCallsIncludesExpectedShapes(t *testing.T) {
	env := newTestEnv()
	parsed, err := abi.JSON(strings.NewReader(testTokenABI))
	require.NoError(t, err)
	env.AddTarget(env.TargetTokenAddr(), parsed)

	corpus := newFakeCorpus()
	corpus.ingredients["this_transfer_this_zero"] = call(1)
	corpus.ingredients["this_transfer_pair_zero"] = call(2)

	c := NewCage(env, corpus, nil, nil, 0)
	calls, err := c.stateChangingCalls()
	require.NoError(t, err)

	// 2 zero-amount ingredients + 2 literal transfer(...,1) + rebase + magicConstant
	require.Len(t, calls, 6)

	selDecimals := []byte{0x31, 0x3c, 0xe5, 0x67}
	for _, call := range calls {
		require.False(t, len(call.Calldata) >= 4 && string(call.Calldata[:4]) == string(selDecimals), "view function decimals must never appear")
	}
}

func TestIntroduceStateChangingFunctionsProducesTwoVariantsPerCall(t *testing.T) {
	env := newTestEnv()
	parsed, err := abi.JSON(strings.NewReader(testTokenABI))
	require.NoError(t, err)
	env.AddTarget(env.TargetTokenAddr(), parsed)

	corpus := newFakeCorpus()
	corpus.ingredients["this_transfer_this_zero"] = call(1)
	corpus.ingredients["this_transfer_pair_zero"] = call(2)

	c := NewCage(env, corpus, nil, nil, 0)
	templates := []template.ExploitTemplate{{Name: "base"}}

	widened, err := c.introduceStateChangingFunctions(templates)
	require.NoError(t, err)
	require.Len(t, widened, 12, "6 state-changing calls x 2 placements")

	for _, w := range widened {
		total := len(w.RepeatedCalls) + len(w.SuffixCalls)
		require.Equal(t, 1, total, "exactly one of repeated/suffix gains the new call")
	}
}
