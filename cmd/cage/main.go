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
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cagehunt/cage/log"
	"github.com/cagehunt/cage/params"
)

const banner = `
  ██████╗ █████╗  ██████╗ ███████╗
 ██╔════╝██╔══██╗██╔════╝ ██╔════╝
 ██║     ███████║██║  ███╗█████╗
 ██║     ██╔══██║██║   ██║██╔══╝
 ╚██████╗██║  ██║╚██████╔╝███████╗
  ╚═════╝╚═╝  ╚═╝ ╚═════╝ ╚══════╝
`

func main() {
	fmt.Print(banner)

	app := &cli.App{
		Name:      "cage",
		Usage:     "constant-product pair invariant-break search engine",
		UsageText: "cage [command] [options]",
		Version:   params.VersionWithCommit(params.GitCommit),
		Commands: []*cli.Command{
			testCommand,
			runTCCommand,
			analyzeCommand,
			runSolCommand,
		},
		Suggest: true,
	}

	if err := run(app); err != nil {
		os.Exit(exitCodeOf(err))
	}
}

// run wraps app.Run with a recover so a bug in the engine -- a genuine
// invariant violation like an unknown balance holder or an unreachable
// InitialSwapFailed during amplification -- surfaces as a logged error and
// a non-zero exit instead of an unhandled stack trace.
func run(app *cli.App) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("cage: panic", "value", r)
			err = fmt.Errorf("cage: panic: %v", r)
		}
	}()
	return app.Run(os.Args)
}

// exitCodeOf maps a returned error to a process exit code. The search
// driver's two failure exit codes (135, 136) are signaled by exitCodeErr
// (see cmd_run_search.go), while its success is a nil error and exits 0;
// anything else is a setup/usage failure.
func exitCodeOf(err error) int {
	if ec, ok := err.(exitCodeErr); ok {
		if ec.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", ec.err)
		}
		return ec.code
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

// exitCodeErr carries a specific process exit code alongside the error
// message a subcommand wants printed.
type exitCodeErr struct {
	code int
	err  error
}

func (e exitCodeErr) Error() string {
	if e.err == nil {
		return fmt.Sprintf("cage: exit %d", e.code)
	}
	return e.err.Error()
}
func (e exitCodeErr) Unwrap() error { return e.err }
