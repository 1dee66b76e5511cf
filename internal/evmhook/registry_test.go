// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.

package evmhook

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenReturnsErrNoExecutorWhenNothingRegistered(t *testing.T) {
	_, err := Open("nonexistent-backend-xyz", "https://rpc.ankr.com/eth", 0)
	require.ErrorIs(t, err, ErrNoExecutor)
}

func TestRegisterAndOpenRoundTrip(t *testing.T) {
	called := false
	Register("test-backend", func(forkURL string, forkBlock uint64) (Executor, error) {
		called = true
		require.Equal(t, "https://rpc.ankr.com/eth", forkURL)
		require.Equal(t, uint64(123), forkBlock)
		return nil, nil
	})

	_, err := Open("test-backend", "https://rpc.ankr.com/eth", 123)
	require.NoError(t, err)
	require.True(t, called)
}

func TestRegisterPanicsOnDuplicate(t *testing.T) {
	Register("dup-backend", func(string, uint64) (Executor, error) { return nil, nil })
	require.Panics(t, func() {
		Register("dup-backend", func(string, uint64) (Executor, error) { return nil, nil })
	})
}

func TestRegisterPanicsOnNilFactory(t *testing.T) {
	require.Panics(t, func() {
		Register("nil-factory-backend", nil)
	})
}
