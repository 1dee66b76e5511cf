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

package main

import "github.com/cagehunt/cage/conf"

// DefaultConfig is the engine configuration every subcommand starts from.
// Flags in flags.go write directly into its fields through Destination,
// the same pattern the teacher's cmd/n42/config.go uses for DefaultConfig.
var DefaultConfig = conf.DefaultEngineConfig()

// targetOpts holds the CLI-only addressing and artifact inputs that don't
// belong on conf.EngineConfig: which three contracts this run cares about,
// which compiled harness to deploy, and (for run-tc) which serialized test
// case to replay.
var targetOpts = struct {
	TargetToken  string
	BaseToken    string
	Pair         string
	TestcaseFile string
	Executor     string
}{
	Executor: "default",
}
