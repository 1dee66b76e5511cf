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

package corpus

import (
	"github.com/cagehunt/cage/internal/template"
	"github.com/cagehunt/cage/internal/wire"
)

// cycleShape names a bank entry as a sequence of ingredient-registry keys;
// GetBasicExploitTemplates resolves the keys against c.ingredients.
type cycleShape struct {
	name     string
	prefix   []string
	repeated []string
	suffix   []string
}

// zeroShapes fires unconditionally: zero-amount transfers plus skims,
// probing whether the token's accounting diverges even with no actual
// value moved.
var zeroShapes = []cycleShape{
	{name: "cycle_zero", prefix: []string{"this_transfer_pair_zero"}, repeated: []string{"pair_skim_pair"}, suffix: []string{"pair_skim_this"}},
	{name: "cycle_zero_opt", prefix: []string{"this_transfer_pair_zero"}, repeated: []string{"pair_skim_pair"}},
	{name: "cycle_zero_repeated", repeated: []string{"this_transfer_pair_zero", "pair_skim_this"}},
	{name: "cycle_zero_this", repeated: []string{"this_transfer_this_zero"}},
}

// pairBalanceShapes only fire once initial_token_percent >= 50 -- below
// that threshold the attacker doesn't hold enough of the pair's declared
// reserve for a pair-balance transfer to be worth exploring.
var pairBalanceShapes = []cycleShape{
	{name: "cycle_pair_pair", prefix: []string{"this_transfer_pair_pair_balance"}, repeated: []string{"pair_skim_pair"}, suffix: []string{"pair_skim_this"}},
	{name: "cycle_pair_pair_opt", prefix: []string{"this_transfer_pair_pair_balance"}, repeated: []string{"pair_skim_pair"}},
	// cycle_pair_this_opt: the name says "this", i.e. the prefix should be
	// this_transfer_pair_this_balance, but the repeated step below uses
	// this_transfer_pair_pair_balance instead. Preserved deliberately --
	// see the Open Question in DESIGN.md; correcting it changes which
	// templates Phase A explores.
	{name: "cycle_pair_this_opt", repeated: []string{"this_transfer_pair_pair_balance", "pair_skim_this"}},
	{name: "cycle_pair_this", repeated: []string{"this_transfer_this_pair_balance"}},
}

// attackerBalanceShapes fire unconditionally: transfers sized off the
// attacker's own balance rather than a literal or the pair's reserve.
var attackerBalanceShapes = []cycleShape{
	{name: "cycle_this_pair", prefix: []string{"this_transfer_pair_this_balance"}, repeated: []string{"pair_skim_pair"}, suffix: []string{"pair_skim_this"}},
	{name: "cycle_this_pair_opt", prefix: []string{"this_transfer_pair_this_balance"}, repeated: []string{"pair_skim_pair"}},
	{name: "cycle_this_repeated", repeated: []string{"this_transfer_pair_this_balance", "pair_skim_this"}},
	{name: "cycle_this_this", repeated: []string{"this_transfer_this_this_balance"}},
}

// burnShapes only fire when Init found a burn-shaped function on the
// target token's ABI.
var burnShapes = []cycleShape{
	{name: "cycle_burn_pair_minus_one", repeated: []string{"burn_pair_balance_minus_one"}},
	{name: "cycle_burn_calculated", repeated: []string{"calculate_burn_amount", "burn_calculated_amount"}},
}

// initialTokenPercents is the fixed 28-value percent bank: 1..10, then
// every 5th value from 15 to 95, then 99.
func initialTokenPercents() []uint64 {
	percents := make([]uint64, 0, 28)
	for p := uint64(1); p <= 10; p++ {
		percents = append(percents, p)
	}
	for p := uint64(15); p <= 95; p += 5 {
		percents = append(percents, p)
	}
	return append(percents, 99)
}

// GetBasicExploitTemplates returns the cross product of initial_token_percent
// values and cycle shapes: zero-amount shapes and attacker-balance shapes
// unconditionally, pair-balance shapes only at percent >= 50, burn shapes
// only if a burn function was registered during Init. A shape whose
// ingredient keys aren't all present in the registry is silently skipped --
// this only happens for the burn shapes when PublicBurnFunctionExists is
// false, in which case the caller never requested them.
func (c *Corpus) GetBasicExploitTemplates() []template.ExploitTemplate {
	var out []template.ExploitTemplate

	for _, percent := range initialTokenPercents() {
		shapes := append([]cycleShape{}, zeroShapes...)
		if percent >= 50 {
			shapes = append(shapes, pairBalanceShapes...)
		}
		shapes = append(shapes, attackerBalanceShapes...)
		if c.publicBurnFunctionExists {
			shapes = append(shapes, burnShapes...)
		}

		for _, shape := range shapes {
			et, ok := c.buildExploitTemplate(shape, percent)
			if !ok {
				continue
			}
			out = append(out, et)
		}
	}

	return out
}

func (c *Corpus) buildExploitTemplate(shape cycleShape, percent uint64) (template.ExploitTemplate, bool) {
	prefix, ok := c.resolveIngredients(shape.prefix)
	if !ok {
		return template.ExploitTemplate{}, false
	}
	repeated, ok := c.resolveIngredients(shape.repeated)
	if !ok {
		return template.ExploitTemplate{}, false
	}
	suffix, ok := c.resolveIngredients(shape.suffix)
	if !ok {
		return template.ExploitTemplate{}, false
	}

	return template.ExploitTemplate{
		Name:                shape.name,
		InitialTokenPercent: percent,
		PrefixCalls:         prefix,
		RepeatedCalls:       repeated,
		SuffixCalls:         suffix,
	}, true
}

func (c *Corpus) resolveIngredients(keys []string) ([]wire.EVMCall, bool) {
	if len(keys) == 0 {
		return nil, true
	}
	calls := make([]wire.EVMCall, 0, len(keys))
	for _, key := range keys {
		call, ok := c.Ingredient(key)
		if !ok {
			return nil, false
		}
		calls = append(calls, call)
	}
	return calls, true
}
