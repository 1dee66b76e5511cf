// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.

package scanner

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/require"
)

func TestNetworkFromForkURL(t *testing.T) {
	cases := map[string]Network{
		"rpc.ankr.com/eth":     NetworkEthereum,
		"eth.public-rpc.com":   NetworkEthereum,
		"rpc.ankr.com/bsc":     NetworkBSC,
		"bscrpc.com":           NetworkBSC,
	}
	for url, want := range cases {
		got, err := NetworkFromForkURL(url)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestNetworkFromForkURLUnknown(t *testing.T) {
	_, err := NetworkFromForkURL("https://example.com/rpc")
	require.Error(t, err)
}

func TestIsERC20OrBEP20Conformant(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(embeddedERC20ABI))
	require.NoError(t, err)
	require.True(t, IsERC20OrBEP20(parsed))
}

func TestIsERC20OrBEP20MissingMethod(t *testing.T) {
	const partial = `[
	  {"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"type":"function"}
	]`
	parsed, err := abi.JSON(strings.NewReader(partial))
	require.NoError(t, err)
	require.False(t, IsERC20OrBEP20(parsed))
}

func TestIsERC20OrBEP20MismatchedSignature(t *testing.T) {
	const mismatched = `[
	  {"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	  {"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	  {"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint128"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"},
	  {"constant":false,"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transferFrom","outputs":[{"name":"","type":"bool"}],"type":"function"},
	  {"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"},
	  {"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	  {"anonymous":false,"inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":false,"name":"value","type":"uint256"}],"name":"Transfer","type":"event"},
	  {"anonymous":false,"inputs":[{"indexed":true,"name":"owner","type":"address"},{"indexed":true,"name":"spender","type":"address"},{"indexed":false,"name":"value","type":"uint256"}],"name":"Approval","type":"event"}
	]`
	parsed, err := abi.JSON(strings.NewReader(mismatched))
	require.NoError(t, err)
	require.False(t, IsERC20OrBEP20(parsed), "transfer's value arg type (uint128) differs from the standard (uint256)")
}
