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

package conf

import (
	"os"
	"path/filepath"
	"time"
)

// Network identifies which chain a fork RPC URL belongs to.
type Network string

const (
	NetworkEthereum Network = "eth"
	NetworkBSC      Network = "bsc"
)

// EngineConfig is the top-level configuration for a cage run: which chain to
// fork, the block-explorer key and request timeout the scanner uses, the
// per-call EVM gas limit, trace verbosity, and the logger.
type EngineConfig struct {
	// ForkURL is the RPC endpoint the backend forks state from. The network
	// (and therefore the router/WETH addresses the corpus seeds with) is
	// derived from this value, not from a separate flag.
	ForkURL string `json:"fork_url" yaml:"fork_url"`

	// ForkBlock pins the fork to a specific block; zero means "latest".
	ForkBlock uint64 `json:"fork_block" yaml:"fork_block"`

	// EtherscanAPIKey authenticates the Scanner's block-explorer requests.
	EtherscanAPIKey string `json:"etherscan_api_key" yaml:"etherscan_api_key"`

	// CacheDir is the root of the on-disk ABI cache. Defaults to
	// ~/.foundry/cache/scan/<network>.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// ScannerTimeout bounds every outbound block-explorer HTTP request.
	ScannerTimeout time.Duration `json:"scanner_timeout" yaml:"scanner_timeout"`

	// GasLimit is the per-call gas limit given to the EVM executor.
	GasLimit uint64 `json:"gas_limit" yaml:"gas_limit"`

	// Verbosity is the oracle/search driver trace verbosity, 0-5.
	Verbosity int `json:"verbosity" yaml:"verbosity"`

	// BridgeSolPath names the Solidity harness source. Only its default is
	// ever set and no subcommand reads it; the harness each subcommand
	// deploys comes from its --bridge-artifact flag.
	BridgeSolPath string `json:"bridge_sol_path" yaml:"bridge_sol_path"`

	Logger LoggerConfig `json:"logger" yaml:"logger"`
}

// DefaultEngineConfig returns the engine configuration used when the CLI is
// invoked without flag overrides.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ForkBlock:      0,
		ScannerTimeout: 15 * time.Second,
		GasLimit:       30_000_000,
		Verbosity:      0,
		BridgeSolPath:  "./fuzz/Bridge.sol",
		Logger:         DefaultLoggerConfig(),
	}
}

// CacheDirForNetwork returns the on-disk ABI cache directory for the given
// network, honoring an explicit CacheDir override first.
func (c EngineConfig) CacheDirForNetwork(network Network) string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".foundry", "cache", "scan", string(network))
}
