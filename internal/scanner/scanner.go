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

// Package scanner resolves a contract address to its ABI via a block
// explorer, caches the result on disk and in memory, and classifies an ABI
// as ERC20/BEP20-conformant or as an EIP-1967 proxy.
package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/cagehunt/cage/conf"
	"github.com/cagehunt/cage/internal/cache"
	cageerrors "github.com/cagehunt/cage/pkg/errors"
)

// eip1967ImplementationSlot is keccak256("eip1967.proxy.implementation") - 1,
// the standardized storage slot a transparent/UUPS proxy stores its
// implementation address in.
const eip1967ImplementationSlot = "0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc"

// Network identifies which chain a fork RPC URL forks from. It is a plain
// alias of conf.Network so the Scanner and the corpus's router/WETH wiring
// share one definition instead of converting back and forth at the
// package boundary.
type Network = conf.Network

const (
	NetworkEthereum = conf.NetworkEthereum
	NetworkBSC      = conf.NetworkBSC
)

// explorerEndpoint maps a network to its block-explorer API base.
var explorerEndpoint = map[Network]string{
	NetworkEthereum: "https://api.etherscan.io/api",
	NetworkBSC:      "https://api.bscscan.com/api",
}

// NetworkFromForkURL derives the network from the exact RPC URL string the
// CLI was invoked with, matching the fixed literal set the original engine
// recognized -- there is no generic chain-id probe, by design: the corpus's
// router/WETH addresses are themselves hardcoded per network, so an
// unrecognized URL can never be made to work regardless of what chain it
// actually points at.
func NetworkFromForkURL(forkURL string) (Network, error) {
	switch forkURL {
	case "rpc.ankr.com/eth", "eth.public-rpc.com",
		"https://rpc.ankr.com/eth", "https://eth.public-rpc.com":
		return NetworkEthereum, nil
	case "rpc.ankr.com/bsc", "bscrpc.com",
		"https://rpc.ankr.com/bsc", "https://bscrpc.com":
		return NetworkBSC, nil
	default:
		return "", cageerrors.Wrapf(cageerrors.ErrUnknownNetwork, "fork url %q", forkURL)
	}
}

// Scanner fetches and caches contract ABIs from a block explorer.
type Scanner struct {
	network Network
	apiKey  string
	cacheDir string
	client  *http.Client
	timeout time.Duration

	memCache *cache.LRU[common.Address, abi.ABI]
	limiter  *tokenBucket

	mu sync.Mutex
}

// New constructs a Scanner for the network implied by forkURL.
func New(forkURL, apiKey string, cfg conf.EngineConfig) (*Scanner, error) {
	network, err := NetworkFromForkURL(forkURL)
	if err != nil {
		return nil, err
	}
	return &Scanner{
		network:  network,
		apiKey:   apiKey,
		cacheDir: cfg.CacheDirForNetwork(network),
		client:   &http.Client{Timeout: cfg.ScannerTimeout},
		timeout:  cfg.ScannerTimeout,
		memCache: cache.NewLRU[common.Address, abi.ABI](256),
		limiter:  newTokenBucket(explorerRequestsPerSecond, explorerBurstSize),
	}, nil
}

// GetContractABI returns the parsed ABI for addr, preferring the in-memory
// LRU, then the on-disk cache, and finally the block explorer. A
// rate-limited explorer response is never written to either cache, so a
// transient 429 can't poison the engine for the rest of the run.
func (s *Scanner) GetContractABI(ctx context.Context, addr common.Address) (abi.ABI, error) {
	if cached, ok := s.memCache.Get(addr); ok {
		return cached, nil
	}

	if raw, err := os.ReadFile(s.cacheFile(addr)); err == nil {
		parsed, err := abi.JSON(strings.NewReader(string(raw)))
		if err == nil {
			s.memCache.Set(addr, parsed)
			return parsed, nil
		}
	}

	raw, err := s.fetchABIString(ctx, addr)
	if err != nil {
		return abi.ABI{}, err
	}

	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		return abi.ABI{}, cageerrors.Wrap(err, "scanner: parse fetched abi")
	}

	_ = os.MkdirAll(s.cacheDir, 0o755)
	_ = os.WriteFile(s.cacheFile(addr), []byte(raw), 0o644)

	s.memCache.Set(addr, parsed)
	return parsed, nil
}

func (s *Scanner) cacheFile(addr common.Address) string {
	return filepath.Join(s.cacheDir, strings.ToLower(addr.Hex()))
}

type explorerResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

func (s *Scanner) fetchABIString(ctx context.Context, addr common.Address) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.wait(ctx); err != nil {
		return "", cageerrors.Wrap(err, "scanner: rate limit wait")
	}

	url := fmt.Sprintf("%s?module=contract&action=getabi&address=%s&apikey=%s",
		explorerEndpoint[s.network], addr.Hex(), s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", cageerrors.Wrap(err, "scanner: fetch abi")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", cageerrors.Wrap(err, "scanner: read abi response")
	}

	var parsed explorerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", cageerrors.Wrap(err, "scanner: decode abi response")
	}

	if strings.Contains(strings.ToLower(parsed.Result), "rate limit") {
		return "", cageerrors.ErrRateLimited
	}
	if parsed.Status != "1" {
		return "", cageerrors.Wrapf(cageerrors.ErrContractNotVerified, "%s", parsed.Message)
	}

	return parsed.Result, nil
}

// IsProxyAddr reads the EIP-1967 implementation slot of addr via eth_getStorageAt
// and, if non-zero, returns the implementation address.
func (s *Scanner) IsProxyAddr(ctx context.Context, rpcClient StorageReader, addr common.Address) (common.Address, bool, error) {
	slot := common.HexToHash(eip1967ImplementationSlot)
	value, err := rpcClient.StorageAt(ctx, addr, slot)
	if err != nil {
		return common.Address{}, false, err
	}
	impl := common.BytesToAddress(value)
	if impl == (common.Address{}) {
		return common.Address{}, false, cageerrors.ErrNoProxyImplementation
	}
	return impl, true, nil
}

// StorageReader is the minimal RPC surface IsProxyAddr needs; satisfied by
// ethclient.Client or a fork-backend shim in the search driver.
type StorageReader interface {
	StorageAt(ctx context.Context, addr common.Address, slot common.Hash) ([]byte, error)
}
