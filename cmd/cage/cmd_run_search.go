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

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cagehunt/cage/internal/search"
	"github.com/cagehunt/cage/log"
)

var bridgeArtifactPath, feeArtifactPath string

var testCommand = &cli.Command{
	Name:  "test",
	Usage: "run the full three-phase search (phase a -> b -> c)",
	Flags: append(commonFlags(),
		&cli.StringFlag{
			Name:        "bridge-artifact",
			Usage:       "path to the compiled Bridge harness artifact json",
			Category:    "HARNESS",
			Value:       "./fuzz/Bridge.json",
			Destination: &bridgeArtifactPath,
		},
		&cli.StringFlag{
			Name:        "fee-artifact",
			Usage:       "path to the compiled BridgeCalculateFee harness artifact json (omit to skip fee-on-transfer probing)",
			Category:    "HARNESS",
			Destination: &feeArtifactPath,
		},
	),
	Action: func(cliCtx *cli.Context) error {
		eng, err := setupEngine(cliCtx.Context, bridgeArtifactPath, feeArtifactPath)
		if err != nil {
			return err
		}
		return runSearch(cliCtx, eng)
	},
}

// runSearch starts the Cage and turns its Result into the process's exit
// behavior: profit found prints the test case and exits 0; no invariant
// break exits 135; invariant broken with no profit exits 136.
func runSearch(cliCtx *cli.Context, eng *engine) error {
	result := eng.cage.Start(cliCtx.Context)

	switch result.ExitCode {
	case search.ExitSuccess:
		fmt.Printf("profit: %s\n", result.Profit.String())
		fmt.Printf("test case: %+v\n", result.TestCase)
		fmt.Printf("evm invocations: %d\n", result.Invocations)
		return nil
	case search.ExitNoInvariantBreak:
		log.Info("search finished: invariant never broken", "evm_invocations", result.Invocations)
		return exitCodeErr{code: result.ExitCode}
	default:
		log.Info("search finished: invariant broken but no profitable test case", "evm_invocations", result.Invocations)
		return exitCodeErr{code: result.ExitCode}
	}
}
