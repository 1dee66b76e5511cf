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

package template

import "github.com/cagehunt/cage/internal/wire"

// ExploitTemplate is a candidate attack payload: the part of a test case
// the search driver mutates and amplifies. initial_token_percent is
// written into CageEnv ahead of the run so the bridge's own setup code
// knows what fraction of the attacker's starting balance to seed with.
type ExploitTemplate struct {
	Name                string
	InitialTokenPercent uint64
	PrefixCalls         []wire.EVMCall
	RepeatedCalls       []wire.EVMCall
	SuffixCalls         []wire.EVMCall
}

// RawTestCase is the search-side mutable form of a test case: fixed
// swap-in/swap-out framing around a mutable payload supplied by merging in
// an ExploitTemplate at a given repeat count.
//
// The spec's data model also carries an initial_eth_amount field, relevant
// only to the ETH-denominated swap variant; that variant is unreachable in
// the live engine (see SwapTemplate), so it has no field here.
type RawTestCase struct {
	PrefixSwaps  []wire.EVMCall
	SuffixSwaps  []wire.EVMCall
	MutableCalls []wire.EVMCall
}

// MergeWithExploitTemplate returns a copy of r whose MutableCalls is
// t.PrefixCalls ++ (t.RepeatedCalls repeated r times) ++ t.SuffixCalls.
func (r RawTestCase) MergeWithExploitTemplate(t ExploitTemplate, repeat int) RawTestCase {
	mutable := make([]wire.EVMCall, 0, len(t.PrefixCalls)+repeat*len(t.RepeatedCalls)+len(t.SuffixCalls))
	mutable = append(mutable, t.PrefixCalls...)
	for i := 0; i < repeat; i++ {
		mutable = append(mutable, t.RepeatedCalls...)
	}
	mutable = append(mutable, t.SuffixCalls...)

	out := r
	out.MutableCalls = mutable
	return out
}

// ToTestCase concatenates prefix ++ mutable ++ suffix into the wire-level
// TestCase the bridge's run(TestCase) entry point consumes. Subcalls and
// callbacks are always empty: the core search never drives the bridge's
// re-entrancy harness.
func (r RawTestCase) ToTestCase() wire.TestCase {
	calls := make([]wire.EVMCall, 0, len(r.PrefixSwaps)+len(r.MutableCalls)+len(r.SuffixSwaps))
	calls = append(calls, r.PrefixSwaps...)
	calls = append(calls, r.MutableCalls...)
	calls = append(calls, r.SuffixSwaps...)
	return wire.TestCase{Calls: calls, Subcalls: nil, Callbacks: nil}
}
