// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.

package wire

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCallRoundTrip(t *testing.T) {
	call := EVMCall{
		To:       common.HexToAddress("0x502be16aa82BAD01FDc3fEB3c5F8C431F8eeB8AE"),
		Calldata: []byte{0xde, 0xad, 0xbe, 0xef},
		Value:    uint256.NewInt(12345),
	}

	encoded, err := EncodeCall(call)
	require.NoError(t, err)

	decoded, err := DecodeCall(encoded)
	require.NoError(t, err)

	require.Equal(t, call.To, decoded.To)
	require.Equal(t, call.Calldata, decoded.Calldata)
	require.Equal(t, 0, call.Value.Cmp(decoded.Value))
}

func TestEncodeCallsAndMatrix(t *testing.T) {
	calls := []EVMCall{
		{To: common.HexToAddress("0x1"), Calldata: []byte{1}, Value: uint256.NewInt(1)},
		{To: common.HexToAddress("0x2"), Calldata: []byte{2}, Value: uint256.NewInt(2)},
	}

	_, err := EncodeCalls(calls)
	require.NoError(t, err)

	_, err = EncodeCallMatrix([][]EVMCall{calls, {calls[0]}})
	require.NoError(t, err)
}

func TestEVMCallJSONRoundTrip(t *testing.T) {
	call := EVMCall{
		To:       common.HexToAddress("0x00a329c0648769a73afac7f9381e08fb43dbea72"),
		Calldata: []byte{0x01, 0x02},
		Value:    uint256.NewInt(0),
	}

	data, err := json.Marshal(call)
	require.NoError(t, err)

	var decoded EVMCall
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Equal(t, call.To, decoded.To)
	require.Equal(t, call.Calldata, decoded.Calldata)
	require.Equal(t, 0, call.Value.Cmp(decoded.Value))
}

func TestTestCaseJSONRoundTrip(t *testing.T) {
	tc := TestCase{
		Calls: []EVMCall{
			{To: common.HexToAddress("0x1"), Calldata: []byte{1}, Value: uint256.NewInt(1)},
		},
		Subcalls:  [][]EVMCall{{}},
		Callbacks: [][]EVMCall{{}},
	}

	data, err := json.Marshal(tc)
	require.NoError(t, err)

	var decoded TestCase
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Calls, 1)
}
