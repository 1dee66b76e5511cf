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

package scanner

import (
	"context"
	"sync"
	"time"
)

// explorerRateLimit is the free-tier Etherscan/BscScan request budget: five
// requests per second, with a small burst allowance for the handful of
// lookups corpus.Init fires back to back at startup.
const (
	explorerRequestsPerSecond = 5
	explorerBurstSize         = 5
)

// tokenBucket is a single-bucket token bucket rate limiter, guarding the
// scanner's own outbound calls to a block explorer. It is a one-bucket
// specialization of the per-client-IP limiter an inbound JSON-RPC server
// would run: there is exactly one caller here, the Scanner itself, so the
// per-IP map collapses to a single counter.
type tokenBucket struct {
	mu            sync.Mutex
	tokens        float64
	lastUpdate    time.Time
	ratePerSecond float64
	burstSize     float64
}

func newTokenBucket(ratePerSecond, burstSize int) *tokenBucket {
	return &tokenBucket{
		tokens:        float64(burstSize),
		lastUpdate:    time.Now(),
		ratePerSecond: float64(ratePerSecond),
		burstSize:     float64(burstSize),
	}
}

// wait blocks until a token is available or ctx is canceled.
func (b *tokenBucket) wait(ctx context.Context) error {
	for {
		d := b.reserve()
		if d <= 0 {
			return nil
		}
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// reserve refills the bucket for elapsed time and returns how long the
// caller must still wait for a token, or zero if one was taken immediately.
func (b *tokenBucket) reserve() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastUpdate).Seconds()
	b.tokens += elapsed * b.ratePerSecond
	if b.tokens > b.burstSize {
		b.tokens = b.burstSize
	}
	b.lastUpdate = now

	if b.tokens >= 1 {
		b.tokens--
		return 0
	}

	deficit := 1 - b.tokens
	return time.Duration(deficit/b.ratePerSecond*1000) * time.Millisecond
}
