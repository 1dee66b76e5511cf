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
	"github.com/cagehunt/cage/internal/wire"
	"github.com/cagehunt/cage/log"
)

// Exit codes, matching the external interface exactly: success prints
// profit and exits 0; no invariant break survives Phase B, 135; Phase C
// exhausts every amplified candidate without profit, 136.
const (
	ExitSuccess          = 0
	ExitNoInvariantBreak = 135
	ExitNoProfitableCase = 136
)

// repeatStep/repeatMaxStep size Phase C's soft/hard repeat caps, counted
// from a template's starting repeat count: past start+repeatStep it keeps
// going only while its final balance is increasing, and it never goes
// past start+repeatMaxStep.
const (
	repeatStep    = 10
	repeatMaxStep = 100
)

// Finding pairs a recorded oracle bug with the exploit template that
// produced it. The template carries the saveBalanceSnapshot/
// checkInvariantBroken wrapper calls tryBreakInvariant added before
// running it, not the bare template Corpus originally generated.
type Finding struct {
	Bug      oracle.Bug
	Template template.ExploitTemplate
}

// Result is what Start returns once the search concludes, by whichever of
// the three exit paths it takes.
type Result struct {
	ExitCode    int
	TestCase    template.RawTestCase
	LoopNum     int
	Profit      *uint256.Int
	Invocations uint64
}

// CorpusProvider is the subset of *corpus.Corpus the search driver uses.
// Keeping it narrow lets phase logic be tested against a fake corpus with
// no live scanner or forked chain behind it.
type CorpusProvider interface {
	BaseTestCase() template.RawTestCase
	BridgeSwapTestCase() template.RawTestCase
	Ingredient(key string) (wire.EVMCall, bool)
	GetBasicExploitTemplates() []template.ExploitTemplate
}

// Cage is the three-phase search driver: try_break_invariant,
// introduce_state_changing_functions, execute_with_repeat.
type Cage struct {
	env       *oracle.CageEnv
	corpus    CorpusProvider
	runner    CaseRunner
	feeProbe  FeeProbe
	verbosity int
}

// NewCage builds a Cage ready to run Start. feeProbe may be nil if the
// caller never expects an InitialSwapFailed verdict (e.g. a known-vanilla
// ERC20 target); Phase A then simply discards such a template instead of
// retrying it against the bridge-swap base test case.
func NewCage(env *oracle.CageEnv, c CorpusProvider, runner CaseRunner, feeProbe FeeProbe, verbosity int) *Cage {
	return &Cage{env: env, corpus: c, runner: runner, feeProbe: feeProbe, verbosity: verbosity}
}

// Start seeds Phase A with the corpus's basic templates, widens every basic
// template through Phase B back into Phase A, and -- if anything broke the
// invariant -- amplifies every finding through Phase C until one turns a
// profit or the work queue empties out.
func (c *Cage) Start(ctx context.Context) Result {
	basic := c.corpus.GetBasicExploitTemplates()

	findings := c.tryBreakInvariant(ctx, basic)
	if r, ok := c.earlyProfit(findings); ok {
		return r
	}

	diversified, err := c.introduceStateChangingFunctions(basic)
	if err != nil {
		panic(err)
	}
	findings = append(findings, c.tryBreakInvariant(ctx, diversified)...)
	if r, ok := c.earlyProfit(findings); ok {
		return r
	}

	log.Info("phase a/b complete", "invariant_breaking_templates", len(findings))
	if len(findings) == 0 {
		log.Info("could not find invariant-breaking testcase")
		return Result{ExitCode: ExitNoInvariantBreak, Invocations: c.env.Invocations()}
	}

	c.env.SetDeepSearchPhase(true)

	work := make([]workItem, len(findings))
	for i, f := range findings {
		work[i] = workItem{bug: f.Bug, template: f.Template, loopNum: 2}
	}

	for len(work) > 0 {
		survivors, result, found := c.executeWithRepeat(ctx, work)
		if found {
			result.Invocations = c.env.Invocations()
			return result
		}
		work = survivors
	}

	log.Info("could not find profitable testcase")
	return Result{ExitCode: ExitNoProfitableCase, Invocations: c.env.Invocations()}
}

func (c *Cage) earlyProfit(findings []Finding) (Result, bool) {
	for _, f := range findings {
		if f.Bug == oracle.BugProfitGenerated {
			log.Info("exploit found early", "profit", c.env.Profit())
			return Result{ExitCode: ExitSuccess, Profit: c.env.Profit(), Invocations: c.env.Invocations()}, true
		}
	}
	return Result{}, false
}
