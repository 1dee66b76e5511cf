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

package profiler

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/cagehunt/cage/internal/evmhook"
)

// Profiler is an evmhook.Inspector that records which instructions of the
// target token's bytecode executed during a run. It never intercepts a
// call, so Call always reports unhandled.
type Profiler struct {
	targetToken common.Address
	coverage    *BitMap
}

// New returns a Profiler watching targetToken.
func New(targetToken common.Address) *Profiler {
	return &Profiler{targetToken: targetToken, coverage: NewBitMap()}
}

// Step records coverage only for steps executing inside the target token's
// own contract frame; calls into the pair, router, or bridge harness are
// not tracked.
func (p *Profiler) Step(pc uint64, op evmhook.OpCode, contract common.Address, bytecode []byte) {
	if contract != p.targetToken {
		return
	}
	p.coverage.Set(bytecode, pc)
}

// Call never intercepts; the Profiler is a passive observer.
func (p *Profiler) Call(caller, callee common.Address, input []byte) (bool, []byte, error) {
	return false, nil, nil
}

// Coverage returns the accumulated coverage map.
func (p *Profiler) Coverage() *BitMap {
	return p.coverage
}

// Reset clears accumulated coverage, for reuse across independent runs
// within the same search session.
func (p *Profiler) Reset() {
	p.coverage = NewBitMap()
}
