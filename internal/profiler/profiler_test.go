// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.

package profiler

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/cagehunt/cage/internal/evmhook"
)

func TestStepOnlyRecordsTargetToken(t *testing.T) {
	target := common.HexToAddress("0x1000000000000000000000000000000000000001")
	other := common.HexToAddress("0x2000000000000000000000000000000000000002")
	p := New(target)

	code := []byte{0x60, 0x00, 0x60, 0x01}
	p.Step(0, evmhook.OpCall, other, code)
	require.Zero(t, p.Coverage().Len())

	p.Step(0, evmhook.OpCall, target, code)
	require.EqualValues(t, 1, p.Coverage().Len())
}

func TestCallNeverIntercepts(t *testing.T) {
	p := New(common.HexToAddress("0x1000000000000000000000000000000000000001"))
	handled, ret, err := p.Call(common.Address{}, common.Address{}, nil)
	require.False(t, handled)
	require.Nil(t, ret)
	require.NoError(t, err)
}

func TestResetClearsCoverage(t *testing.T) {
	target := common.HexToAddress("0x1000000000000000000000000000000000000001")
	p := New(target)
	p.Step(5, evmhook.OpCall, target, []byte{0x01, 0x02})
	require.NotZero(t, p.Coverage().Len())

	p.Reset()
	require.Zero(t, p.Coverage().Len())
}

func TestProfilerComposesInEvmhookStack(t *testing.T) {
	target := common.HexToAddress("0x1000000000000000000000000000000000000001")
	p := New(target)
	stack := evmhook.NewStack(p)

	stack.Step(0, evmhook.OpCall, target, []byte{0x01})
	require.EqualValues(t, 1, p.Coverage().Len())

	handled, _, _ := stack.Call(common.Address{}, common.Address{}, nil)
	require.False(t, handled)
}
