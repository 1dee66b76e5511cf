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

// Package search drives the three-phase exploit discovery loop: break the
// pair's invariant with a basic template, widen the attempt with extra
// target-token calls, then amplify a surviving template's repeat count
// until it turns a profit or exhausts its budget.
package search

import "github.com/cagehunt/cage/internal/template"

// templateQueue is the Phase A/B work queue: a plain LIFO stack, pop takes
// the last element. pushFront inserts a single item at index 0 -- used by
// the fee-retry and sync-derived refinements, which land behind whatever
// is already queued rather than jumping ahead of it.
type templateQueue []template.ExploitTemplate

func newTemplateQueue(items []template.ExploitTemplate) templateQueue {
	q := make(templateQueue, len(items))
	copy(q, items)
	return q
}

func (q *templateQueue) pop() (template.ExploitTemplate, bool) {
	n := len(*q)
	if n == 0 {
		return template.ExploitTemplate{}, false
	}
	et := (*q)[n-1]
	*q = (*q)[:n-1]
	return et, true
}

func (q *templateQueue) pushFront(et template.ExploitTemplate) {
	*q = append(templateQueue{et}, (*q)...)
}
