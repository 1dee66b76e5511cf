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

import "github.com/urfave/cli/v2"

// runSolCommand swaps the default Bridge harness for BridgeRunSol, a
// variant whose run() body is hand-written Solidity rather than a decoded
// TestCase -- useful for replaying a hand-authored proof of concept through
// the same oracle wiring the search driver uses.
var runSolCommand = &cli.Command{
	Name:  "run-sol",
	Usage: "deploy BridgeRunSol and run the search against it",
	Flags: append(commonFlags(),
		&cli.StringFlag{
			Name:        "bridge-artifact",
			Usage:       "path to the compiled BridgeRunSol harness artifact json",
			Category:    "HARNESS",
			Value:       "./fuzz/BridgeRunSol.json",
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
