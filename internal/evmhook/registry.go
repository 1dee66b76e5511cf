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

package evmhook

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNoExecutor is returned by Open when no Factory has been registered
// under the requested name. This module never registers one itself: the
// interpreter is the one collaborator this package exists to keep at
// arm's length from the search driver.
var ErrNoExecutor = errors.New("evmhook: no executor backend registered")

// Factory constructs an Executor forking state from forkURL, pinned to
// forkBlock (zero meaning latest). A concrete interpreter package
// registers its Factory from an init() via side-effect import, the same
// way the teacher's main() force-loads internal/tracers/js and
// internal/tracers/native purely for their registration side effects.
type Factory func(forkURL string, forkBlock uint64) (Executor, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes an Executor factory available under name. It panics on a
// nil factory or a duplicate name, matching database/sql.Register's
// contract for driver registration.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		panic("evmhook: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("evmhook: Register called twice for factory " + name)
	}
	registry[name] = factory
}

// Open constructs the named Executor. This repository ships no interpreter
// backend, so Open returns ErrNoExecutor until some build links one in
// through Register.
func Open(name, forkURL string, forkBlock uint64) (Executor, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoExecutor, name)
	}
	return factory(forkURL, forkBlock)
}
