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

// Package oracle implements the EVM inspector that watches every call made
// during a test case, answers the Bridge harness's sentinel RPC calls, and
// decides whether a test case broke the pair's constant-product invariant.
package oracle

import (
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Sentinel addresses the Bridge harness and corpus agree on ahead of time.
var (
	// OracleAddress is the address the Bridge harness routes its sentinel
	// RPC calls to. The Oracle's Call hook intercepts every call to this
	// address instead of letting the interpreter dispatch it to real
	// contract code.
	OracleAddress = common.HexToAddress("0x502be16aa82BAD01FDc3fEB3c5F8C431F8eeB8AE")

	// InitialCallerAddress is the EOA every test case's calls are made
	// from, pre-funded by the Bridge harness's constructor.
	InitialCallerAddress = common.HexToAddress("0x00a329c0648769a73afac7f9381e08fb43dbea72")

	// TargetTokenReserveAddress (R) is a synthetic holder the bridge uses
	// to stash the pair's declared reserve of the target token, distinct
	// from the pair's raw on-chain balance of it.
	TargetTokenReserveAddress = common.HexToAddress("0x0000000000000000000000000000000000000001")
)

// Bug is the finding the Oracle has recorded for the current test case.
// Only one bug is live at a time; precedence rules in checkInvariantBroken
// and Step decide which one wins when more than one condition fires.
type Bug int

const (
	BugNone Bug = iota
	BugInitialSwapFailed
	BugRequirementViolation
	BugPairTokenLoss
	BugAttackerTokenGain
	BugProfitGenerated
)

// systemAddrs is populated once by the bridge's initialize() RPC.
type systemAddrs struct {
	oracle   common.Address
	init     common.Address
	bridge   common.Address
	mainPier common.Address
}

// CageEnv is the mutable state shared between the search driver and the
// Oracle/Profiler inspectors across the whole run. It is guarded by a
// single RWMutex: the EVM interpreter and the outer search loop never run
// concurrently, so the only real contention is between the Oracle's Call
// hook (writer, during EVM execution) and the search driver reading a
// snapshot back out once the call returns -- never both at once, but the
// lock still documents and enforces the invariant that nobody may hold a
// write guard across an EVM call.
type CageEnv struct {
	mu sync.RWMutex

	network string

	targets            map[common.Address]abi.ABI
	relevantTokenAddrs []common.Address

	baseToken   common.Address
	targetToken common.Address
	pairAddr    common.Address
	routerAddr  common.Address

	sys systemAddrs

	// attackerBalances and pairBalances are both keyed by token address;
	// pairBalances additionally uses TargetTokenReserveAddress as a
	// synthetic "token" key to hold the pair's declared reserve of the
	// target token, per updateTokenBalance's wire contract.
	attackerBalances map[common.Address]*uint256.Int
	pairBalances     map[common.Address]*uint256.Int

	prevAttackerBalances map[common.Address]*uint256.Int
	prevPairBalances     map[common.Address]*uint256.Int
	haveSnapshot         bool

	bug    Bug
	profit *uint256.Int

	deepSearchPhase     bool
	initialTokenPercent uint64
	feeOnTransfer       uint64
	feeOnTransferSet    bool

	// burnAmounts records, per pair, the amount calculateBurnAmount last
	// registered via registerBurnAmount. A subsequent burn(BURN_AMOUNT)
	// call's placeholder substitution reads this map; it must be written
	// before that substitution runs, or substitution has nothing to read.
	burnAmounts map[common.Address]*uint256.Int

	publicBurnFunctionExists bool

	// invocations counts every ResetRun call, i.e. every TestCase dispatched
	// through the bridge harness for the life of this CageEnv. The search
	// driver surfaces it in its final Result as a total-evm-invocations metric.
	invocations uint64
}

// NewCageEnv returns an empty CageEnv ready for setup_target to populate.
func NewCageEnv() *CageEnv {
	return &CageEnv{
		targets:              make(map[common.Address]abi.ABI),
		attackerBalances:     make(map[common.Address]*uint256.Int),
		pairBalances:         make(map[common.Address]*uint256.Int),
		prevAttackerBalances: make(map[common.Address]*uint256.Int),
		prevPairBalances:     make(map[common.Address]*uint256.Int),
		burnAmounts:          make(map[common.Address]*uint256.Int),
	}
}

// ResetRun clears per-test-case state (balances, bug, snapshot) but keeps
// the target/addrs setup that Corpus.init established once for the whole
// engine run.
func (e *CageEnv) ResetRun() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attackerBalances = make(map[common.Address]*uint256.Int)
	e.pairBalances = make(map[common.Address]*uint256.Int)
	e.prevAttackerBalances = make(map[common.Address]*uint256.Int)
	e.prevPairBalances = make(map[common.Address]*uint256.Int)
	e.haveSnapshot = false
	e.bug = BugNone
	e.profit = nil
	e.burnAmounts = make(map[common.Address]*uint256.Int)
	e.invocations++
}

// Invocations returns the number of TestCases dispatched through ResetRun
// since this CageEnv was created.
func (e *CageEnv) Invocations() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.invocations
}

func cloneBalances(m map[common.Address]*uint256.Int) map[common.Address]*uint256.Int {
	out := make(map[common.Address]*uint256.Int, len(m))
	for k, v := range m {
		out[k] = new(uint256.Int).Set(v)
	}
	return out
}

// SetTargets records the contracts (and their ABIs) this run cares about --
// the target token, base token, pair, and router -- keyed by address so
// getTargetAddrs() can return the key set directly.
func (e *CageEnv) SetTargets(targets map[common.Address]abi.ABI, targetToken, baseToken, pair, router common.Address) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.targets = targets
	e.targetToken = targetToken
	e.baseToken = baseToken
	e.pairAddr = pair
	e.routerAddr = router
}

// AddTarget registers a contract's ABI under targets without disturbing the
// token/pair/router addresses SetTargets already established. Corpus.Init
// uses this to add the router and wrapped-native token ABIs once
// setup_target has populated the core addresses.
func (e *CageEnv) AddTarget(addr common.Address, contractABI abi.ABI) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.targets == nil {
		e.targets = make(map[common.Address]abi.ABI)
	}
	e.targets[addr] = contractABI
}

// TargetABI returns the ABI registered for addr, if any.
func (e *CageEnv) TargetABI(addr common.Address) (abi.ABI, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.targets[addr]
	return a, ok
}

// AddRelevantTokenAddr idempotently appends token to the relevant-token
// list Corpus.init and the oracle's getRelevantTokenAddrs() RPC both read.
func (e *CageEnv) AddRelevantTokenAddr(token common.Address) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.relevantTokenAddrs {
		if t == token {
			return
		}
	}
	e.relevantTokenAddrs = append(e.relevantTokenAddrs, token)
}

// RelevantTokenAddrs returns the current relevant-token list.
func (e *CageEnv) RelevantTokenAddrs() []common.Address {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]common.Address, len(e.relevantTokenAddrs))
	copy(out, e.relevantTokenAddrs)
	return out
}

// TargetAddrs returns the keys of the targets map (getTargetAddrs RPC).
func (e *CageEnv) TargetAddrs() []common.Address {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]common.Address, 0, len(e.targets))
	for addr := range e.targets {
		out = append(out, addr)
	}
	return out
}

func (e *CageEnv) BaseTokenAddr() common.Address {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.baseToken
}

func (e *CageEnv) TargetTokenAddr() common.Address {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.targetToken
}

func (e *CageEnv) PairAddr() common.Address {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pairAddr
}

func (e *CageEnv) RouterAddr() common.Address {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.routerAddr
}

// SetRouterAddr records the network-derived router address. setup_target
// establishes target/base/pair before the network (and therefore the
// router) is known; Corpus.Init fills this in once it has resolved the
// network's hardcoded router address.
func (e *CageEnv) SetRouterAddr(router common.Address) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.routerAddr = router
}

// Initialize populates system_addrs from the bridge's initialize() RPC.
func (e *CageEnv) Initialize(bridge, mainPier common.Address) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sys = systemAddrs{oracle: OracleAddress, init: InitialCallerAddress, bridge: bridge, mainPier: mainPier}
}

func (e *CageEnv) MainPier() common.Address {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sys.mainPier
}

// UpdateTokenBalance implements the updateTokenBalance RPC: holder must be
// either the main_pier (attacker) or the pair, anything else is the
// "unrecognized holder" fatal condition spec.md §7 calls out.
func (e *CageEnv) UpdateTokenBalance(holder, token common.Address, balance *uint256.Int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch holder {
	case e.sys.mainPier:
		e.attackerBalances[token] = balance
	case e.pairAddr:
		e.pairBalances[token] = balance
	default:
		return false
	}
	return true
}

// SaveBalanceSnapshot deep-copies the current attacker/pair balance maps,
// per the saveBalanceSnapshot RPC.
func (e *CageEnv) SaveBalanceSnapshot() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prevAttackerBalances = cloneBalances(e.attackerBalances)
	e.prevPairBalances = cloneBalances(e.pairBalances)
	e.haveSnapshot = true
}

func balanceOf(m map[common.Address]*uint256.Int, token common.Address) *uint256.Int {
	if v, ok := m[token]; ok {
		return v
	}
	return new(uint256.Int)
}

// assetValue computes max(0, attacker[T] + pair[T] - pair[R]) using
// uint256 semantics: since the type cannot go negative, an underflow in
// the subtraction is clamped to zero, matching max(0, ...) in spec.md.
func assetValue(attacker, pair map[common.Address]*uint256.Int, target common.Address) *uint256.Int {
	a := balanceOf(attacker, target)
	pT := balanceOf(pair, target)
	pR := balanceOf(pair, TargetTokenReserveAddress)

	sum := new(uint256.Int).Add(a, pT)
	if sum.Lt(pR) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(sum, pR)
}

// CheckInvariantBroken implements the checkInvariantBroken RPC: pair
// token loss dominates attacker token gain when both fire at once, and
// neither overrides a bug already recorded by an earlier check in this
// same test case (e.g. a prior RequirementViolation from Step).
func (e *CageEnv) CheckInvariantBroken() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bug != BugNone {
		return
	}
	if !e.haveSnapshot {
		return
	}

	prevPairT := balanceOf(e.prevPairBalances, e.targetToken)
	curPairT := balanceOf(e.pairBalances, e.targetToken)

	if prevPairT.Gt(curPairT) {
		e.bug = BugPairTokenLoss
		return
	}

	prevAsset := assetValue(e.prevAttackerBalances, e.prevPairBalances, e.targetToken)
	curAsset := assetValue(e.attackerBalances, e.pairBalances, e.targetToken)
	if curAsset.Gt(prevAsset) {
		e.bug = BugAttackerTokenGain
	}
}

// NotifyExploitSuccess implements notifyExploitSuccess(profit).
func (e *CageEnv) NotifyExploitSuccess(profit *uint256.Int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bug = BugProfitGenerated
	e.profit = profit
}

// NotifyInitialSwapFailed implements notifyInitialSwapFailed().
func (e *CageEnv) NotifyInitialSwapFailed() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bug = BugInitialSwapFailed
}

// HandleRevert implements the Step hook's REVERT classification:
//   - if the current bug is already InitialSwapFailed, do nothing -- the
//     test case was already known unable to start;
//   - else if deep-search is active and a bug is already recorded, a later
//     check reverted, downgrading the finding to RequirementViolation
//     since it is no longer actionable;
//   - else if no bug is recorded yet, record RequirementViolation.
func (e *CageEnv) HandleRevert() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bug == BugInitialSwapFailed {
		return
	}
	if e.deepSearchPhase && e.bug != BugNone {
		e.bug = BugRequirementViolation
		return
	}
	if e.bug == BugNone {
		e.bug = BugRequirementViolation
	}
}

func (e *CageEnv) Bug() Bug {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bug
}

func (e *CageEnv) Profit() *uint256.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.profit
}

func (e *CageEnv) SetDeepSearchPhase(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deepSearchPhase = v
}

func (e *CageEnv) DeepSearchPhase() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.deepSearchPhase
}

func (e *CageEnv) SetInitialTokenPercent(p uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialTokenPercent = p
}

func (e *CageEnv) InitialTokenPercent() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialTokenPercent
}

func (e *CageEnv) RegisterFee(pct uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.feeOnTransfer = pct
	e.feeOnTransferSet = true
}

func (e *CageEnv) Fee() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.feeOnTransfer
}

// HasFee reports whether registerFee has ever been called -- the
// Option<u64>-shaped "do we know the transfer fee yet" question a bare
// zero-value Fee() can't answer, since 0% is itself a valid registered fee.
func (e *CageEnv) HasFee() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.feeOnTransferSet
}

// RegisterBurnAmount records the burn amount calculateBurnAmount computed
// for pair, for later BURN_AMOUNT placeholder substitution.
func (e *CageEnv) RegisterBurnAmount(pair common.Address, amount *uint256.Int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.burnAmounts[pair] = amount
}

// BurnAmount returns the previously registered burn amount for pair, if
// any. ok is false if calculateBurnAmount never registered one -- this is
// the ordering bug spec.md documents: a burn(BURN_AMOUNT) call that
// executes before the corresponding registerBurnAmount will see ok=false.
func (e *CageEnv) BurnAmount(pair common.Address) (*uint256.Int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.burnAmounts[pair]
	return v, ok
}

func (e *CageEnv) SetPublicBurnFunctionExists(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.publicBurnFunctionExists = v
}

func (e *CageEnv) PublicBurnFunctionExists() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.publicBurnFunctionExists
}

// AttackerBalance returns the attacker's recorded balance of token,
// defaulting to zero if updateTokenBalance never reported one.
func (e *CageEnv) AttackerBalance(token common.Address) *uint256.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return balanceOf(e.attackerBalances, token)
}

// PairBalance returns the pair's recorded balance of token (or, for
// TargetTokenReserveAddress, the declared reserve), defaulting to zero.
func (e *CageEnv) PairBalance(token common.Address) *uint256.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return balanceOf(e.pairBalances, token)
}
