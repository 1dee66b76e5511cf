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

package search

import (
	"context"

	"github.com/cagehunt/cage/internal/oracle"
	"github.com/cagehunt/cage/internal/template"
	"github.com/cagehunt/cage/internal/wire"
	"github.com/cagehunt/cage/log"
)

func appendCall(calls []wire.EVMCall, call wire.EVMCall) []wire.EVMCall {
	out := make([]wire.EVMCall, len(calls)+1)
	copy(out, calls)
	out[len(calls)] = call
	return out
}

func dropLast(calls []wire.EVMCall) []wire.EVMCall {
	if len(calls) == 0 {
		return calls
	}
	return calls[:len(calls)-1]
}

// wrapForRun appends the save-balance-snapshot / check-invariant-broken
// bracket the Bridge harness needs around every candidate. unwrapAfterRun
// drops both again so the template can be requeued in its original form.
func wrapForRun(et template.ExploitTemplate) template.ExploitTemplate {
	et.PrefixCalls = appendCall(et.PrefixCalls, saveBalanceSnapshotCall())
	et.SuffixCalls = appendCall(et.SuffixCalls, checkInvariantBrokenCall())
	return et
}

func unwrapAfterRun(et template.ExploitTemplate) template.ExploitTemplate {
	et.PrefixCalls = dropLast(et.PrefixCalls)
	et.SuffixCalls = dropLast(et.SuffixCalls)
	return et
}

// tryBreakInvariant drains templates (LIFO) against the bridge, one run
// per template, and collects every one that left the Oracle holding a bug.
// A PairTokenLoss verdict spawns two sync-augmented variants that get
// pushed to the front of the queue, so they run after whatever was
// already queued rather than "next" -- the queue is a stack, and
// front-insertion puts them at its bottom, it doesn't jump the line. An InitialSwapFailed verdict triggers at most one fee probe per
// call to this method; if the probe finds a nonzero transfer fee, the
// template is requeued (unwrapped) to run again against the bridge-swap
// base test case instead of a direct router swap. A ProfitGenerated
// verdict ends the whole sweep immediately -- an early win makes every
// remaining candidate moot.
func (c *Cage) tryBreakInvariant(ctx context.Context, templates []template.ExploitTemplate) []Finding {
	baseTC := c.corpus.BaseTestCase()
	queue := newTemplateQueue(templates)

	var findings []Finding
	triedFee := false

	for {
		et, ok := queue.pop()
		if !ok {
			break
		}

		wrapped := wrapForRun(et)
		c.env.SetInitialTokenPercent(wrapped.InitialTokenPercent)

		tc := baseTC.MergeWithExploitTemplate(wrapped, 1).ToTestCase()
		c.runner.Run(ctx, tc)

		bug := c.env.Bug()
		if c.verbosity > 1 {
			log.Info("try_break_invariant run", "template", wrapped.Name, "percent", wrapped.InitialTokenPercent, "bug", bug)
		}

		switch bug {
		case oracle.BugInitialSwapFailed:
			if triedFee || c.feeProbe == nil {
				continue
			}
			triedFee = true
			if err := c.feeProbe.Run(ctx); err != nil {
				log.Error("try_break_invariant: calculate_fee failed", "err", err)
				panic(err)
			}
			if c.env.HasFee() {
				baseTC = c.corpus.BridgeSwapTestCase()
				queue.pushFront(unwrapAfterRun(wrapped))
			}

		case oracle.BugPairTokenLoss:
			findings = append(findings, Finding{Bug: bug, Template: wrapped})
			bare := unwrapAfterRun(wrapped)
			if syncCall, ok := c.corpus.Ingredient("sync"); ok {
				if !containsCall(bare.RepeatedCalls, syncCall) && !containsCall(bare.SuffixCalls, syncCall) {
					repeatedSync := bare
					repeatedSync.RepeatedCalls = appendCall(bare.RepeatedCalls, syncCall)
					singleSync := bare
					singleSync.SuffixCalls = appendCall(bare.SuffixCalls, syncCall)

					queue.pushFront(repeatedSync)
					queue.pushFront(singleSync)
				}
			}

		case oracle.BugAttackerTokenGain:
			findings = append(findings, Finding{Bug: bug, Template: wrapped})

		case oracle.BugProfitGenerated:
			findings = append(findings, Finding{Bug: bug, Template: wrapped})
			return findings

		case oracle.BugRequirementViolation, oracle.BugNone:
			// discard: neither is actionable on its own
		}
	}

	return findings
}
