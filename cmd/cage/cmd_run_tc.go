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
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cagehunt/cage/internal/oracle"
	"github.com/cagehunt/cage/internal/wire"
	cageerrors "github.com/cagehunt/cage/pkg/errors"
)

var runTCCommand = &cli.Command{
	Name:  "run-tc",
	Usage: "load one serialized test case and dispatch it once",
	Flags: append(commonFlags(), testcaseFlag,
		&cli.StringFlag{
			Name:        "bridge-artifact",
			Usage:       "path to the compiled Bridge harness artifact json",
			Category:    "HARNESS",
			Value:       "./fuzz/Bridge.json",
			Destination: &bridgeArtifactPath,
		},
	),
	Action: func(cliCtx *cli.Context) error {
		raw, err := os.ReadFile(targetOpts.TestcaseFile)
		if err != nil {
			return cageerrors.Wrap(err, "cage: read testcase file")
		}
		var tc wire.TestCase
		if err := json.Unmarshal(raw, &tc); err != nil {
			return cageerrors.Wrap(err, "cage: parse testcase file")
		}

		eng, err := setupEngine(cliCtx.Context, bridgeArtifactPath, "")
		if err != nil {
			return err
		}

		eng.runner.Run(cliCtx.Context, tc)

		bug := eng.env.Bug()
		fmt.Printf("bug: %v\n", bug)
		if bug != oracle.BugNone {
			fmt.Printf("profit: %s\n", eng.env.Profit().String())
		}
		return nil
	},
}
