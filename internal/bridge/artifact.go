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

// Package bridge loads precompiled Bridge harness artifacts and deploys
// them through an evmhook.Executor. This module has no Solidity compiler
// of its own -- ./fuzz/Bridge.sol and its siblings are source fixtures
// consumed by an external forge/solc build step, the same way the engine
// treats the interpreter itself as out of scope. What this package owns is
// the next step: reading that build step's compiled-artifact JSON and
// deploying the resulting bytecode into whatever Executor is linked in.
package bridge

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/cagehunt/cage/internal/evmhook"
	cageerrors "github.com/cagehunt/cage/pkg/errors"
)

// Artifact is the subset of a Foundry-style compiled-contract JSON file
// (out/<Name>.sol/<Name>.json) this package needs: just the deployment
// bytecode. ABI and metadata fields Foundry also emits are ignored.
type Artifact struct {
	Bytecode []byte
}

type artifactFile struct {
	Bytecode struct {
		Object string `json:"object"`
	} `json:"bytecode"`
}

// LoadArtifact reads and decodes a Foundry-style compiled-contract JSON
// file from path.
func LoadArtifact(path string) (Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, cageerrors.Wrapf(err, "bridge: read artifact %s", path)
	}

	var f artifactFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return Artifact{}, cageerrors.Wrapf(err, "bridge: decode artifact %s", path)
	}

	code, err := hex.DecodeString(strings.TrimPrefix(f.Bytecode.Object, "0x"))
	if err != nil {
		return Artifact{}, cageerrors.Wrapf(err, "bridge: decode bytecode in %s", path)
	}
	if len(code) == 0 {
		return Artifact{}, cageerrors.Wrapf(cageerrors.ErrEmptyArtifact, "%s", path)
	}

	return Artifact{Bytecode: code}, nil
}

// Deploy runs the artifact's deployment bytecode (with constructorArgs
// already ABI-encoded and appended by the caller) through executor and
// returns the address the new contract landed at.
func Deploy(ctx context.Context, executor evmhook.Executor, caller common.Address, art Artifact, constructorArgs []byte, gasLimit uint64) (common.Address, error) {
	initCode := append(append([]byte{}, art.Bytecode...), constructorArgs...)

	addr, _, err := executor.Create(caller, initCode, new(uint256.Int), gasLimit)
	if err != nil {
		return common.Address{}, cageerrors.Wrap(err, "bridge: deploy")
	}
	return addr, nil
}
