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

import "context"

// FeeProbe runs the specialized fee-measurement bridge harness
// (calculate_fee): a separate deployment, funded to the maximum the
// backend allows, whose Solidity logic performs a transfer and reports
// the resulting percentage loss by calling the oracle's registerFee RPC.
// Compiling and deploying that harness is outside this package's scope --
// the same way evmhook.Executor leaves the interpreter itself to the
// caller -- so Phase A only depends on this narrow interface.
type FeeProbe interface {
	Run(ctx context.Context) error
}
