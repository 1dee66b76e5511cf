// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.

package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenBucketAllowsBurst(t *testing.T) {
	b := newTokenBucket(1, 3)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	for i := 0; i < 3; i++ {
		require.NoError(t, b.wait(ctx))
	}
}

func TestTokenBucketBlocksPastBurst(t *testing.T) {
	b := newTokenBucket(100, 1)

	require.NoError(t, b.wait(context.Background()))

	start := time.Now()
	require.NoError(t, b.wait(context.Background()))
	require.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestTokenBucketRespectsContextCancellation(t *testing.T) {
	b := newTokenBucket(1, 1)
	require.NoError(t, b.wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.wait(ctx)
	require.Error(t, err)
}
