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
	"bytes"

	"github.com/holiman/uint256"

	"github.com/cagehunt/cage/internal/oracle"
	"github.com/cagehunt/cage/internal/wire"
)

func saveBalanceSnapshotCall() wire.EVMCall {
	sel := wire.SelectorSaveBalanceSnapshot
	return wire.EVMCall{To: oracle.OracleAddress, Calldata: append([]byte{}, sel[:]...), Value: new(uint256.Int)}
}

func checkInvariantBrokenCall() wire.EVMCall {
	sel := wire.SelectorCheckInvariantBroken
	return wire.EVMCall{To: oracle.OracleAddress, Calldata: append([]byte{}, sel[:]...), Value: new(uint256.Int)}
}

// containsCall reports whether any call in calls targets the same address
// with the same calldata as target. Used in place of the original's
// name-field comparison, since wire.EVMCall carries no debug name.
func containsCall(calls []wire.EVMCall, target wire.EVMCall) bool {
	for _, c := range calls {
		if c.To == target.To && bytes.Equal(c.Calldata, target.Calldata) {
			return true
		}
	}
	return false
}
