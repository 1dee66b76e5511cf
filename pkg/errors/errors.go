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

// Package errors defines the sentinel error values shared across the cage
// engine so callers can use errors.Is/errors.As instead of string matching.
package errors

import (
	"errors"
	"fmt"
)

// =====================
// Scanner errors
// =====================

var (
	// ErrRateLimited is returned when the block explorer API responds with a
	// rate-limit status. Callers must not cache a negative result for this.
	ErrRateLimited = errors.New("scanner: rate limited by block explorer")

	// ErrContractNotVerified is returned when the block explorer has no
	// verified source/ABI on file for the requested address.
	ErrContractNotVerified = errors.New("scanner: contract source not verified")

	// ErrNoProxyImplementation is returned when an address looks like an
	// EIP-1967 proxy but the implementation slot is zero.
	ErrNoProxyImplementation = errors.New("scanner: proxy implementation slot is empty")

	// ErrUnknownNetwork is returned when the fork RPC URL does not match any
	// of the recognized Ethereum or BSC endpoints.
	ErrUnknownNetwork = errors.New("scanner: unrecognized fork RPC url")
)

// =====================
// Oracle errors
// =====================

var (
	// ErrUnknownBalanceHolder is returned when a sentinel placeholder value
	// names a holder address the oracle has no balance entry for.
	ErrUnknownBalanceHolder = errors.New("oracle: unknown balance holder for placeholder")

	// ErrUnknownBurnPlaceholder is returned when BURN_AMOUNT is substituted
	// before calculateBurnAmount has registered a value for the pair.
	ErrUnknownBurnPlaceholder = errors.New("oracle: burn amount requested before registration")

	// ErrRequirementViolation is returned when the bridge's REVERT reason
	// decodes as a Solidity require() failure (benign, not an engine bug).
	ErrRequirementViolation = errors.New("oracle: require() reverted")

	// ErrInitialSwapFailed is returned when the prefix swap that seeds a test
	// case reverts; this aborts the test case without diagnosing an exploit.
	ErrInitialSwapFailed = errors.New("oracle: initial swap reverted")
)

// =====================
// Search driver errors
// =====================

var (
	// ErrNoInvariantBreak is returned by the Phase A/B search when no call
	// in the corpus broke the constant-product invariant.
	ErrNoInvariantBreak = errors.New("search: no invariant break found")

	// ErrNoProfitableTestCase is returned when Phase C exhausted every
	// repetition-amplified candidate without finding attacker profit.
	ErrNoProfitableTestCase = errors.New("search: invariant broken but no profitable test case")

	// ErrInvariantNotBroken is returned by a Phase C repetition run that
	// recorded no Oracle bug at all, distinct from RequirementViolation.
	ErrInvariantNotBroken = errors.New("search: repetition run recorded no bug")

	// ErrLoopStuck is returned when a Phase C repetition run's attacker
	// balance stops moving for four consecutive iterations.
	ErrLoopStuck = errors.New("search: repetition loop stuck at a fixed balance")
)

// =====================
// Wire/ABI errors
// =====================

var (
	// ErrUnknownSelector is returned when the oracle's call hook receives a
	// call to the sentinel address with a 4-byte selector outside its
	// dispatch table.
	ErrUnknownSelector = errors.New("wire: unrecognized oracle rpc selector")

	// ErrMalformedCalldata is returned when ABI decoding of a dispatched
	// oracle RPC call fails.
	ErrMalformedCalldata = errors.New("wire: malformed calldata for selector")
)

// =====================
// Bridge deployment errors
// =====================

var (
	// ErrEmptyArtifact is returned when a compiled-contract artifact JSON
	// parses cleanly but carries no deployment bytecode.
	ErrEmptyArtifact = errors.New("bridge: artifact has no deployment bytecode")

	// ErrExecutorNotConfigured is returned by the CLI when no interpreter
	// backend has been registered with internal/evmhook.
	ErrExecutorNotConfigured = errors.New("cage: no evm executor backend linked into this build")
)

// =====================
// Helper functions
// =====================

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Errorf formats according to a format specifier and returns the string as a value that satisfies error.
func Errorf(format string, a ...interface{}) error {
	return fmt.Errorf(format, a...)
}
