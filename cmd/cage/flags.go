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

// targetFlags are required on every subcommand: the three contracts the
// search driver reasons about.
var targetFlags = []cli.Flag{
	&cli.StringFlag{
		Name:        "target-token",
		Usage:       "address of the token under test",
		Category:    "TARGET",
		Required:    true,
		Destination: &targetOpts.TargetToken,
	},
	&cli.StringFlag{
		Name:        "base-token",
		Usage:       "address of the pair's other token (the attacker's starting balance)",
		Category:    "TARGET",
		Required:    true,
		Destination: &targetOpts.BaseToken,
	},
	&cli.StringFlag{
		Name:        "pair",
		Usage:       "address of the constant-product pair",
		Category:    "TARGET",
		Required:    true,
		Destination: &targetOpts.Pair,
	},
}

// forkFlags select and configure the forked-chain backend every subcommand
// runs the search against.
var forkFlags = []cli.Flag{
	&cli.StringFlag{
		Name:        "fork-url",
		Usage:       "forked-chain RPC url (selects eth vs bsc corpus wiring)",
		Category:    "FORK",
		Required:    true,
		Destination: &DefaultConfig.ForkURL,
	},
	&cli.Uint64Flag{
		Name:        "fork-block",
		Usage:       "block number to pin the fork at (0 = latest)",
		Category:    "FORK",
		Destination: &DefaultConfig.ForkBlock,
	},
	&cli.StringFlag{
		Name:        "etherscan-api-key",
		Usage:       "block explorer api key the scanner authenticates abi lookups with",
		Category:    "FORK",
		Destination: &DefaultConfig.EtherscanAPIKey,
	},
	&cli.Uint64Flag{
		Name:        "gas-limit",
		Usage:       "per-call gas limit given to the evm executor",
		Category:    "FORK",
		Value:       DefaultConfig.GasLimit,
		Destination: &DefaultConfig.GasLimit,
	},
	&cli.StringFlag{
		Name:        "executor",
		Usage:       "name of the registered evmhook executor backend to open",
		Category:    "FORK",
		Value:       targetOpts.Executor,
		Destination: &targetOpts.Executor,
	},
}

// testcaseFlag is only meaningful to the run-tc subcommand.
var testcaseFlag = &cli.StringFlag{
	Name:        "testcase-file",
	Usage:       "path to a serialized wire.TestCase json file to replay once",
	Category:    "REPLAY",
	Required:    true,
	Destination: &targetOpts.TestcaseFile,
}

var debugFlags = []cli.Flag{
	&cli.IntFlag{
		Name:        "v",
		Aliases:     []string{"verbosity"},
		Usage:       "oracle/search driver trace verbosity, 0-5",
		Category:    "DEBUG",
		Destination: &DefaultConfig.Verbosity,
	},
}

// loggerFlags configure the rotating structured logger every subcommand
// initializes before building its engine.
var loggerFlags = []cli.Flag{
	&cli.StringFlag{
		Name:        "log.level",
		Usage:       "log level (trace, debug, info, warn, error, fatal)",
		Category:    "LOGGING",
		Value:       DefaultConfig.Logger.Level,
		Destination: &DefaultConfig.Logger.Level,
	},
	&cli.StringFlag{
		Name:        "log.file",
		Aliases:     []string{"log.name"},
		Usage:       "log file name (empty writes to console only)",
		Category:    "LOGGING",
		Value:       DefaultConfig.Logger.LogFile,
		Destination: &DefaultConfig.Logger.LogFile,
	},
	&cli.IntFlag{
		Name:        "log.maxsize",
		Aliases:     []string{"log.maxSize"},
		Usage:       "max size (MB) of a single log file before rotation",
		Category:    "LOGGING",
		Value:       DefaultConfig.Logger.MaxSize,
		Destination: &DefaultConfig.Logger.MaxSize,
	},
	&cli.IntFlag{
		Name:        "log.maxbackups",
		Aliases:     []string{"log.maxBackups"},
		Usage:       "number of rotated log files to keep (0 = unlimited)",
		Category:    "LOGGING",
		Value:       DefaultConfig.Logger.MaxBackups,
		Destination: &DefaultConfig.Logger.MaxBackups,
	},
	&cli.IntFlag{
		Name:        "log.maxage",
		Aliases:     []string{"log.maxAge"},
		Usage:       "days to retain rotated log files (0 = unlimited)",
		Category:    "LOGGING",
		Value:       DefaultConfig.Logger.MaxAge,
		Destination: &DefaultConfig.Logger.MaxAge,
	},
	&cli.BoolFlag{
		Name:        "log.compress",
		Usage:       "gzip rotated log files",
		Category:    "LOGGING",
		Value:       DefaultConfig.Logger.Compress,
		Destination: &DefaultConfig.Logger.Compress,
	},
	&cli.IntFlag{
		Name:        "log.totalsize",
		Usage:       "total size (MB) cap across all rotated log files (0 = unlimited)",
		Category:    "LOGGING",
		Value:       DefaultConfig.Logger.TotalSizeCap,
		Destination: &DefaultConfig.Logger.TotalSizeCap,
	},
	&cli.BoolFlag{
		Name:        "log.console",
		Usage:       "also write to the console when a log file is set",
		Category:    "LOGGING",
		Value:       DefaultConfig.Logger.Console,
		Destination: &DefaultConfig.Logger.Console,
	},
	&cli.BoolFlag{
		Name:        "log.json",
		Usage:       "write the log file in json rather than text format",
		Category:    "LOGGING",
		Value:       DefaultConfig.Logger.JSONFormat,
		Destination: &DefaultConfig.Logger.JSONFormat,
	},
}

// commonFlags is the flag set every subcommand shares.
func commonFlags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, targetFlags...)
	flags = append(flags, forkFlags...)
	flags = append(flags, debugFlags...)
	flags = append(flags, loggerFlags...)
	return flags
}
