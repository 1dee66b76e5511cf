// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.

package search

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/cagehunt/cage/internal/oracle"
	"github.com/cagehunt/cage/internal/template"
	cageerrors "github.com/cagehunt/cage/pkg/errors"
)

func gainWithBalance(balance uint64) func(*oracle.CageEnv) {
	return func(e *oracle.CageEnv) {
		target := e.TargetTokenAddr()
		mainPier := e.MainPier()
		baseToken := e.BaseTokenAddr()
		e.UpdateTokenBalance(mainPier, target, uint256.NewInt(1))
		e.SaveBalanceSnapshot()
		e.UpdateTokenBalance(mainPier, target, uint256.NewInt(2))
		e.CheckInvariantBroken()
		e.UpdateTokenBalance(mainPier, baseToken, uint256.NewInt(balance))
	}
}

func profitStep(profit uint64) func(*oracle.CageEnv) {
	return func(e *oracle.CageEnv) { e.NotifyExploitSuccess(uint256.NewInt(profit)) }
}

func TestExecuteWithRepetitionFindsProfitImmediately(t *testing.T) {
	env := newTestEnv()
	corpus := newFakeCorpus()
	runner := newScriptedRunner(env, profitStep(42))
	c := NewCage(env, corpus, runner, nil, 0)

	tc, loopNum, profit, err := c.executeWithRepetitionToFindExploit(context.Background(), template.ExploitTemplate{InitialTokenPercent: 10}, 2, 12, 102)
	require.NoError(t, err)
	require.Equal(t, 2, loopNum)
	require.True(t, profit.Cmp(uint256.NewInt(42)) == 0)
	require.NotNil(t, tc)
}

func TestExecuteWithRepetitionStopsAtSoftMaxWithoutRunning(t *testing.T) {
	env := newTestEnv()
	corpus := newFakeCorpus()
	runner := newScriptedRunner(env)
	c := NewCage(env, corpus, runner, nil, 0)

	_, loopNum, profit, err := c.executeWithRepetitionToFindExploit(context.Background(), template.ExploitTemplate{}, 0, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 0, loopNum)
	require.True(t, profit.IsZero())
	require.Empty(t, runner.calls, "a start already at or past softMax with no increasing trend never runs")
}

func TestExecuteWithRepetitionReturnsRequirementViolation(t *testing.T) {
	env := newTestEnv()
	corpus := newFakeCorpus()
	runner := newScriptedRunner(env, func(e *oracle.CageEnv) { e.HandleRevert() })
	c := NewCage(env, corpus, runner, nil, 0)

	_, _, _, err := c.executeWithRepetitionToFindExploit(context.Background(), template.ExploitTemplate{}, 2, 12, 102)
	require.ErrorIs(t, err, cageerrors.ErrRequirementViolation)
}

func TestExecuteWithRepetitionReturnsInvariantNotBroken(t *testing.T) {
	env := newTestEnv()
	corpus := newFakeCorpus()
	runner := newScriptedRunner(env, func(*oracle.CageEnv) {})
	c := NewCage(env, corpus, runner, nil, 0)

	_, _, _, err := c.executeWithRepetitionToFindExploit(context.Background(), template.ExploitTemplate{}, 2, 12, 102)
	require.ErrorIs(t, err, cageerrors.ErrInvariantNotBroken)
}

func TestExecuteWithRepetitionReturnsLoopStuck(t *testing.T) {
	env := newTestEnv()
	corpus := newFakeCorpus()

	steps := make([]func(*oracle.CageEnv), 6)
	for i := range steps {
		steps[i] = gainWithBalance(5)
	}
	runner := newScriptedRunner(env, steps...)
	c := NewCage(env, corpus, runner, nil, 0)

	_, _, _, err := c.executeWithRepetitionToFindExploit(context.Background(), template.ExploitTemplate{}, 0, 100, 200)
	require.ErrorIs(t, err, cageerrors.ErrLoopStuck)
}

func TestExecuteWithRepeatReturnsSurvivorsWithoutProfit(t *testing.T) {
	env := newTestEnv()
	corpus := newFakeCorpus()

	balances := []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 9}
	steps := make([]func(*oracle.CageEnv), len(balances))
	for i, b := range balances {
		steps[i] = gainWithBalance(b)
	}
	runner := newScriptedRunner(env, steps...)
	c := NewCage(env, corpus, runner, nil, 0)

	items := []workItem{{bug: oracle.BugAttackerTokenGain, template: template.ExploitTemplate{Name: "a"}, loopNum: 0}}
	survivors, result, found := c.executeWithRepeat(context.Background(), items)
	require.False(t, found)
	require.Equal(t, Result{}, result)
	require.Len(t, survivors, 1)
	require.Equal(t, "a", survivors[0].template.Name)
	require.Equal(t, 10, survivors[0].loopNum, "the survivor resumes from where the soft-max cutoff left it")
	require.Len(t, runner.calls, len(balances), "the loop stops right at softMax instead of running an 11th time")
}

func TestExecuteWithRepeatStopsOnFirstProfitAndAbandonsRest(t *testing.T) {
	env := newTestEnv()
	corpus := newFakeCorpus()
	runner := newScriptedRunner(env, profitStep(99))
	c := NewCage(env, corpus, runner, nil, 0)

	items := []workItem{
		{bug: oracle.BugAttackerTokenGain, template: template.ExploitTemplate{Name: "survivor"}, loopNum: 2},
		{bug: oracle.BugAttackerTokenGain, template: template.ExploitTemplate{Name: "profitable"}, loopNum: 2},
	}
	survivors, result, found := c.executeWithRepeat(context.Background(), items)
	require.True(t, found)
	require.Empty(t, survivors)
	require.Equal(t, ExitSuccess, result.ExitCode)
	require.True(t, result.Profit.Cmp(uint256.NewInt(99)) == 0)
	require.Len(t, runner.calls, 1, "the second item on the stack is the one popped first and finds profit immediately")
}
