// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.

package oracle

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestReplacePlaceholderValueTransferThisBalance(t *testing.T) {
	env := NewCageEnv()
	target := common.HexToAddress("0x1000000000000000000000000000000000000001")
	env.SetTargets(nil, target, common.Address{}, common.Address{}, common.Address{})
	env.UpdateTokenBalance(env.MainPier(), target, uint256.NewInt(777))

	transferCalldata := buildTransferCalldata(target, placeholderWord(PlaceholderThisBalance))

	out, err := ReplacePlaceholderValue(transferCalldata, env)
	require.NoError(t, err)

	resolved := new(uint256.Int).SetBytes(out[36:68])
	require.Equal(t, uint64(777), resolved.Uint64())
	// selector + address argument must be untouched
	require.Equal(t, transferCalldata[:36], out[:36])
}

func TestReplacePlaceholderValueTransferFeeOnTransfer(t *testing.T) {
	env := NewCageEnv()
	target := common.HexToAddress("0x1000000000000000000000000000000000000001")
	env.SetTargets(nil, target, common.Address{}, common.Address{}, common.Address{})
	env.UpdateTokenBalance(env.MainPier(), target, uint256.NewInt(1000))
	env.RegisterFee(10)

	transferCalldata := buildTransferCalldata(target, placeholderWord(PlaceholderThisBalance))
	out, err := ReplacePlaceholderValue(transferCalldata, env)
	require.NoError(t, err)

	resolved := new(uint256.Int).SetBytes(out[36:68])
	require.Equal(t, uint64(900), resolved.Uint64())
}

func TestReplacePlaceholderValueNonPlaceholderIsIdempotent(t *testing.T) {
	env := NewCageEnv()
	target := common.HexToAddress("0x1000000000000000000000000000000000000001")
	env.SetTargets(nil, target, common.Address{}, common.Address{}, common.Address{})

	var literal [32]byte
	literal[31] = 42
	transferCalldata := buildTransferCalldata(target, literal)

	out, err := ReplacePlaceholderValue(transferCalldata, env)
	require.NoError(t, err)
	require.Equal(t, transferCalldata, out)
}

func TestReplacePlaceholderValueBurnAmountUnregistered(t *testing.T) {
	env := NewCageEnv()
	calldata := buildBurnUint256Calldata(placeholderWord(PlaceholderBurnAmount))

	_, err := ReplacePlaceholderValue(calldata, env)
	require.Error(t, err)
}

func TestReplacePlaceholderValueBurnAmountRegistered(t *testing.T) {
	env := NewCageEnv()
	pair := common.HexToAddress("0x2000000000000000000000000000000000000002")
	env.SetTargets(nil, common.Address{}, common.Address{}, pair, common.Address{})
	env.RegisterBurnAmount(pair, uint256.NewInt(55))

	calldata := buildBurnUint256Calldata(placeholderWord(PlaceholderBurnAmount))
	out, err := ReplacePlaceholderValue(calldata, env)
	require.NoError(t, err)

	resolved := new(uint256.Int).SetBytes(out[4:36])
	require.Equal(t, uint64(55), resolved.Uint64())
}

func buildTransferCalldata(to common.Address, amount [32]byte) []byte {
	out := make([]byte, 68)
	copy(out[:4], selTransfer[:])
	copy(out[16:36], to.Bytes())
	copy(out[36:68], amount[:])
	return out
}

func buildBurnUint256Calldata(amount [32]byte) []byte {
	out := make([]byte, 36)
	copy(out[:4], selBurnUint256[:])
	copy(out[4:36], amount[:])
	return out
}

func TestInvariantBreakPairLossDominatesAttackerGain(t *testing.T) {
	env := NewCageEnv()
	target := common.HexToAddress("0x1000000000000000000000000000000000000001")
	pair := common.HexToAddress("0x2000000000000000000000000000000000000002")
	env.SetTargets(nil, target, common.Address{}, pair, common.Address{})

	env.UpdateTokenBalance(env.MainPier(), target, uint256.NewInt(10))
	env.UpdateTokenBalance(pair, target, uint256.NewInt(1000))
	env.UpdateTokenBalance(pair, TargetTokenReserveAddress, uint256.NewInt(1000))
	env.SaveBalanceSnapshot()

	env.UpdateTokenBalance(env.MainPier(), target, uint256.NewInt(50)) // attacker gained
	env.UpdateTokenBalance(pair, target, uint256.NewInt(900))          // pair also lost
	env.CheckInvariantBroken()

	require.Equal(t, BugPairTokenLoss, env.Bug())
}

func TestInvariantBreakAttackerGainOnly(t *testing.T) {
	env := NewCageEnv()
	target := common.HexToAddress("0x1000000000000000000000000000000000000001")
	pair := common.HexToAddress("0x2000000000000000000000000000000000000002")
	env.SetTargets(nil, target, common.Address{}, pair, common.Address{})

	env.UpdateTokenBalance(env.MainPier(), target, uint256.NewInt(10))
	env.UpdateTokenBalance(pair, target, uint256.NewInt(1000))
	env.UpdateTokenBalance(pair, TargetTokenReserveAddress, uint256.NewInt(1000))
	env.SaveBalanceSnapshot()

	env.UpdateTokenBalance(env.MainPier(), target, uint256.NewInt(50))
	env.CheckInvariantBroken()

	require.Equal(t, BugAttackerTokenGain, env.Bug())
}

func TestInvariantNotBroken(t *testing.T) {
	env := NewCageEnv()
	target := common.HexToAddress("0x1000000000000000000000000000000000000001")
	pair := common.HexToAddress("0x2000000000000000000000000000000000000002")
	env.SetTargets(nil, target, common.Address{}, pair, common.Address{})

	env.UpdateTokenBalance(env.MainPier(), target, uint256.NewInt(10))
	env.UpdateTokenBalance(pair, target, uint256.NewInt(1000))
	env.UpdateTokenBalance(pair, TargetTokenReserveAddress, uint256.NewInt(1000))
	env.SaveBalanceSnapshot()
	env.CheckInvariantBroken()

	require.Equal(t, BugNone, env.Bug())
}
