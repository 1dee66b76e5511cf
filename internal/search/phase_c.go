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

	"github.com/holiman/uint256"

	"github.com/cagehunt/cage/internal/oracle"
	"github.com/cagehunt/cage/internal/template"
	"github.com/cagehunt/cage/log"
	cageerrors "github.com/cagehunt/cage/pkg/errors"
)

// workItem is a Phase A/B finding amplified through Phase C: loopNum is
// the repeat count it last ran at, so a template that survives one round
// without turning a profit resumes from where it left off instead of
// restarting at zero.
type workItem struct {
	bug      oracle.Bug
	template template.ExploitTemplate
	loopNum  int
}

// executeWithRepeat drains items (LIFO) one repetition search at a time.
// A candidate that times out without profit is carried into survivors for
// the next outer round at its new repeat count; one that errors out (a
// RequirementViolation appeared during repetition, the loop got stuck at a
// fixed balance, or no bug was recorded at all) is discarded outright. The
// moment any candidate returns a nonzero profit, the whole search stops
// and everything else still on the stack is abandoned.
func (c *Cage) executeWithRepeat(ctx context.Context, items []workItem) ([]workItem, Result, bool) {
	stack := append([]workItem{}, items...)
	var survivors []workItem

	for len(stack) > 0 {
		wi := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		softMax := wi.loopNum + repeatStep
		hardMax := wi.loopNum + repeatMaxStep

		rawTC, repeatNum, profit, err := c.executeWithRepetitionToFindExploit(ctx, wi.template, wi.loopNum, softMax, hardMax)
		if err != nil {
			log.Trace("execute_with_repeat: discarding template", "name", wi.template.Name, "err", err)
			continue
		}

		if profit == nil || profit.IsZero() {
			survivors = append(survivors, workItem{bug: wi.bug, template: wi.template, loopNum: repeatNum})
			continue
		}

		log.Info("exploit found", "profit", profit, "percent", wi.template.InitialTokenPercent)
		return survivors, Result{ExitCode: ExitSuccess, TestCase: rawTC, LoopNum: repeatNum, Profit: profit}, true
	}

	return survivors, Result{}, false
}

// executeWithRepetitionToFindExploit reruns et at increasing repeat counts
// (starting at startLoop) until either a profit appears, hardMax is
// reached, or loopNum has reached softMax while the attacker's final
// base-token balance is not climbing. A RequirementViolation or a run that
// records no bug at all both abort the search for this template
// immediately -- the repetition amplifies an existing finding, it doesn't
// go looking for a new one.
func (c *Cage) executeWithRepetitionToFindExploit(ctx context.Context, et template.ExploitTemplate, startLoop, softMax, hardMax int) (template.RawTestCase, int, *uint256.Int, error) {
	baseTC := c.corpus.BaseTestCase()
	if c.env.HasFee() {
		baseTC = c.corpus.BridgeSwapTestCase()
	}
	baseToken := c.env.BaseTokenAddr()

	loopNum := startLoop
	previousFinalBalance := new(uint256.Int)
	duplicateCount := 0
	increasing := false

	for {
		if loopNum >= hardMax {
			return baseTC, loopNum, new(uint256.Int), nil
		}
		if !increasing && loopNum >= softMax {
			return baseTC, loopNum, new(uint256.Int), nil
		}

		c.env.SetInitialTokenPercent(et.InitialTokenPercent)
		newTC := baseTC.MergeWithExploitTemplate(et, loopNum)
		c.runner.Run(ctx, newTC.ToTestCase())

		switch c.env.Bug() {
		case oracle.BugRequirementViolation:
			return template.RawTestCase{}, 0, nil, cageerrors.ErrRequirementViolation
		case oracle.BugProfitGenerated:
			return newTC, loopNum, c.env.Profit(), nil
		case oracle.BugInitialSwapFailed:
			panic("execute_with_repetition_to_find_exploit: InitialSwapFailed during an amplification run is unreachable")
		case oracle.BugNone:
			return template.RawTestCase{}, 0, nil, cageerrors.ErrInvariantNotBroken
		}
		// BugPairTokenLoss or BugAttackerTokenGain: keep going.

		finalBalance := c.env.AttackerBalance(baseToken)
		if finalBalance.Gt(previousFinalBalance) {
			increasing = true
			duplicateCount = 0
		} else {
			increasing = false
			if finalBalance.Cmp(previousFinalBalance) == 0 {
				duplicateCount++
				if duplicateCount > 3 {
					return template.RawTestCase{}, 0, nil, cageerrors.ErrLoopStuck
				}
			} else {
				duplicateCount = 0
			}
		}
		previousFinalBalance = finalBalance
		loopNum++
	}
}
