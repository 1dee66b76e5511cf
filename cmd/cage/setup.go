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
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/cagehunt/cage/internal/bridge"
	"github.com/cagehunt/cage/internal/corpus"
	"github.com/cagehunt/cage/internal/evmhook"
	"github.com/cagehunt/cage/internal/oracle"
	"github.com/cagehunt/cage/internal/scanner"
	"github.com/cagehunt/cage/internal/search"
	"github.com/cagehunt/cage/log"
	cageerrors "github.com/cagehunt/cage/pkg/errors"
)

// engine is everything a subcommand needs once target/base/pair have been
// resolved and a bridge harness deployed: the Cage ready to Start, plus
// the Runner that dispatches test cases against that harness. analyze and
// run-sol each build their own engine for their own harness artifact.
type engine struct {
	env    *oracle.CageEnv
	runner *search.Runner
	cage   *search.Cage
}

func parseAddress(name, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("cage: %s is not a valid address: %q", name, s)
	}
	return common.HexToAddress(s), nil
}

// setupEngine resolves target/base/pair, opens the configured evm executor,
// deploys the bridge artifact at bridgeArtifactPath, builds the corpus
// against it, and wires a Cage ready to search. feeArtifactPath may be
// empty, in which case the search runs without a FeeProbe.
func setupEngine(ctx context.Context, bridgeArtifactPath, feeArtifactPath string) (*engine, error) {
	log.Init(DefaultConfig.CacheDir, DefaultConfig.Logger)

	targetToken, err := parseAddress("target-token", targetOpts.TargetToken)
	if err != nil {
		return nil, err
	}
	baseToken, err := parseAddress("base-token", targetOpts.BaseToken)
	if err != nil {
		return nil, err
	}
	pair, err := parseAddress("pair", targetOpts.Pair)
	if err != nil {
		return nil, err
	}

	network, err := scanner.NetworkFromForkURL(DefaultConfig.ForkURL)
	if err != nil {
		return nil, err
	}

	sc, err := scanner.New(DefaultConfig.ForkURL, DefaultConfig.EtherscanAPIKey, DefaultConfig)
	if err != nil {
		return nil, cageerrors.Wrap(err, "cage: build scanner")
	}

	targetABI, err := sc.GetContractABI(ctx, targetToken)
	if err != nil {
		return nil, cageerrors.Wrap(err, "cage: fetch target token abi")
	}
	baseABI, err := sc.GetContractABI(ctx, baseToken)
	if err != nil {
		return nil, cageerrors.Wrap(err, "cage: fetch base token abi")
	}
	pairABI, err := sc.GetContractABI(ctx, pair)
	if err != nil {
		return nil, cageerrors.Wrap(err, "cage: fetch pair abi")
	}

	env := oracle.NewCageEnv()
	env.SetTargets(map[common.Address]abi.ABI{
		targetToken: targetABI,
		baseToken:   baseABI,
		pair:        pairABI,
	}, targetToken, baseToken, pair, common.Address{})
	env.AddRelevantTokenAddr(targetToken)
	env.AddRelevantTokenAddr(baseToken)

	executor, err := evmhook.Open(targetOpts.Executor, DefaultConfig.ForkURL, DefaultConfig.ForkBlock)
	if err != nil {
		if errors.Is(err, evmhook.ErrNoExecutor) {
			return nil, cageerrors.Wrapf(cageerrors.ErrExecutorNotConfigured, "requested backend %q", targetOpts.Executor)
		}
		return nil, cageerrors.Wrap(err, "cage: open evm executor backend")
	}

	bridgeArt, err := bridge.LoadArtifact(bridgeArtifactPath)
	if err != nil {
		return nil, err
	}
	bridgeAddr, err := bridge.Deploy(ctx, executor, oracle.InitialCallerAddress, bridgeArt, nil, DefaultConfig.GasLimit)
	if err != nil {
		return nil, cageerrors.Wrap(err, "cage: deploy bridge harness")
	}
	log.Info("bridge harness deployed", "addr", bridgeAddr.Hex())

	corpusObj, err := corpus.Init(ctx, sc, env, network, bridgeAddr)
	if err != nil {
		return nil, cageerrors.Wrap(err, "cage: build corpus")
	}

	runner := search.NewRunner(executor, env, bridgeAddr, DefaultConfig.GasLimit)

	var feeProbe search.FeeProbe
	if feeArtifactPath != "" {
		feeArt, err := bridge.LoadArtifact(feeArtifactPath)
		if err != nil {
			return nil, err
		}
		probe, err := bridge.NewFeeProbe(ctx, executor, env, oracle.InitialCallerAddress, feeArt, nil, DefaultConfig.GasLimit)
		if err != nil {
			return nil, err
		}
		feeProbe = probe
	}

	cage := search.NewCage(env, corpusObj, runner, feeProbe, DefaultConfig.Verbosity)

	return &engine{env: env, runner: runner, cage: cage}, nil
}
