// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.

package wire

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestUpdateTokenBalanceRoundTrip(t *testing.T) {
	holder := common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c")
	token := common.HexToAddress("0x10ED43C718714eb63d5aA57B78B54704E256024E")
	balance := uint256.NewInt(9001)

	args, err := updateTokenBalanceArgs.Pack(holder, token, balance.ToBig())
	require.NoError(t, err)

	decodedHolder, decodedToken, decodedBalance, err := DecodeUpdateTokenBalance(args)
	require.NoError(t, err)
	require.Equal(t, holder, decodedHolder)
	require.Equal(t, token, decodedToken)
	require.Equal(t, 0, balance.Cmp(decodedBalance))
}

func TestInitializeRoundTrip(t *testing.T) {
	bridge := common.HexToAddress("0x1111111111111111111111111111111111111111")
	mainPier := common.HexToAddress("0x2222222222222222222222222222222222222222")

	args, err := initializeArgs.Pack(bridge, mainPier)
	require.NoError(t, err)

	decodedBridge, decodedMainPier, err := DecodeInitialize(args)
	require.NoError(t, err)
	require.Equal(t, bridge, decodedBridge)
	require.Equal(t, mainPier, decodedMainPier)
}

func TestRegisterBurnAmountRoundTrip(t *testing.T) {
	amount := uint256.NewInt(9001)
	args, err := uint256Args.Pack(amount.ToBig())
	require.NoError(t, err)

	decoded, err := DecodeRegisterBurnAmount(args)
	require.NoError(t, err)
	require.Equal(t, 0, amount.Cmp(decoded))
}

func TestAddRelevantTokenAddrRoundTrip(t *testing.T) {
	token := common.HexToAddress("0x3333333333333333333333333333333333333333")
	args, err := addressArgs.Pack(token)
	require.NoError(t, err)

	decoded, err := DecodeAddRelevantTokenAddr(args)
	require.NoError(t, err)
	require.Equal(t, token, decoded)
}

func TestReplacePlaceholderValueArgsRoundTrip(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	args, err := bytesArgs.Pack(payload)
	require.NoError(t, err)

	decoded, err := DecodeReplacePlaceholderValue(args)
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestEncodeUint256Return(t *testing.T) {
	encoded, err := EncodeUint256Return(uint256.NewInt(42))
	require.NoError(t, err)

	vals, err := abi.Arguments{{Type: mustType("uint256")}}.Unpack(encoded)
	require.NoError(t, err)
	require.Equal(t, int64(42), vals[0].(*big.Int).Int64())
}

func TestEncodeAddressesReturn(t *testing.T) {
	addrs := []common.Address{
		common.HexToAddress("0x4444444444444444444444444444444444444444"),
		common.HexToAddress("0x5555555555555555555555555555555555555555"),
	}
	encoded, err := EncodeAddressesReturn(addrs)
	require.NoError(t, err)

	vals, err := addressArrayArgs.Unpack(encoded)
	require.NoError(t, err)
	require.Equal(t, addrs, vals[0].([]common.Address))
}
