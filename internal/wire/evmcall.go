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

// Package wire holds the ABI wire format shared with the Solidity Bridge
// harness: the EVMCall/TestCase tuples the search driver submits, and the
// oracle's tagged-union RPC dispatched over calls to the sentinel address.
package wire

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// EVMCall is one call in a TestCase. The ABI tuple field order is
// (address to, bytes calldata, uint256 value) -- NOT (to, value, calldata).
// Bridge.sol decodes the tuple in this order, so re-ordering the Go struct
// fields (or the ABI argument list below) would silently desync the wire
// format from the harness.
type EVMCall struct {
	To       common.Address `json:"to"`
	Calldata []byte         `json:"calldata"`
	Value    *uint256.Int   `json:"value"`
}

// TestCase is the fully resolved call sequence the Bridge harness executes:
// calls is the flat sequence dispatched to the pair/attacker, subcalls and
// callbacks are the per-call reentrant sequences a mutable_call may trigger.
type TestCase struct {
	Calls     []EVMCall   `json:"calls"`
	Subcalls  [][]EVMCall `json:"subcalls"`
	Callbacks [][]EVMCall `json:"callbacks"`
}

type evmCallABI struct {
	To       common.Address `abi:"to"`
	Calldata []byte         `abi:"calldata"`
	Value    *big.Int       `abi:"value"`
}

func toABI(c EVMCall) evmCallABI {
	v := new(big.Int)
	if c.Value != nil {
		v = c.Value.ToBig()
	}
	return evmCallABI{To: c.To, Calldata: c.Calldata, Value: v}
}

func fromABI(c evmCallABI) EVMCall {
	v, overflow := uint256.FromBig(c.Value)
	if overflow {
		v = new(uint256.Int)
	}
	return EVMCall{To: c.To, Calldata: c.Calldata, Value: v}
}

var evmCallArgs = abi.Arguments{{Type: mustType("(address,bytes,uint256)")}}
var evmCallArrayArgs = abi.Arguments{{Type: mustType("(address,bytes,uint256)[]")}}
var evmCallArray2Args = abi.Arguments{{Type: mustType("(address,bytes,uint256)[][]")}}

func mustType(sig string) abi.Type {
	t, err := abi.NewType(sig, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// EncodeCall ABI-encodes a single EVMCall tuple, matching Bridge.sol's
// `struct EVMCall { address to; bytes calldata_; uint256 value; }`.
func EncodeCall(c EVMCall) ([]byte, error) {
	return evmCallArgs.Pack(toABI(c))
}

// DecodeCall ABI-decodes a single EVMCall tuple.
func DecodeCall(data []byte) (EVMCall, error) {
	var out evmCallABI
	vals, err := evmCallArgs.Unpack(data)
	if err != nil {
		return EVMCall{}, err
	}
	if err := evmCallArgs.Copy(&out, vals); err != nil {
		return EVMCall{}, err
	}
	return fromABI(out), nil
}

// EncodeCalls ABI-encodes an EVMCall[].
func EncodeCalls(calls []EVMCall) ([]byte, error) {
	abiCalls := make([]evmCallABI, len(calls))
	for i, c := range calls {
		abiCalls[i] = toABI(c)
	}
	return evmCallArrayArgs.Pack(abiCalls)
}

// EncodeCallMatrix ABI-encodes an EVMCall[][], used for TestCase.subcalls
// and TestCase.callbacks.
func EncodeCallMatrix(matrix [][]EVMCall) ([]byte, error) {
	abiMatrix := make([][]evmCallABI, len(matrix))
	for i, row := range matrix {
		abiRow := make([]evmCallABI, len(row))
		for j, c := range row {
			abiRow[j] = toABI(c)
		}
		abiMatrix[i] = abiRow
	}
	return evmCallArray2Args.Pack(abiMatrix)
}

const runSignature = "run((address,bytes,uint256)[],(address,bytes,uint256)[][],(address,bytes,uint256)[][])"

var runArgs = abi.Arguments{
	{Type: mustType("(address,bytes,uint256)[]")},
	{Type: mustType("(address,bytes,uint256)[][]")},
	{Type: mustType("(address,bytes,uint256)[][]")},
}

// EncodeRunCall ABI-encodes the Bridge harness's run(TestCase) entry point:
// selector plus the three-tuple (calls, subcalls, callbacks) TestCase
// carries.
func EncodeRunCall(tc TestCase) ([]byte, error) {
	calls := make([]evmCallABI, len(tc.Calls))
	for i, c := range tc.Calls {
		calls[i] = toABI(c)
	}
	subcalls := make([][]evmCallABI, len(tc.Subcalls))
	for i, row := range tc.Subcalls {
		r := make([]evmCallABI, len(row))
		for j, c := range row {
			r[j] = toABI(c)
		}
		subcalls[i] = r
	}
	callbacks := make([][]evmCallABI, len(tc.Callbacks))
	for i, row := range tc.Callbacks {
		r := make([]evmCallABI, len(row))
		for j, c := range row {
			r[j] = toABI(c)
		}
		callbacks[i] = r
	}

	packed, err := runArgs.Pack(calls, subcalls, callbacks)
	if err != nil {
		return nil, err
	}

	selector := FunctionSelector(runSignature)
	out := make([]byte, 0, len(selector)+len(packed))
	out = append(out, selector[:]...)
	out = append(out, packed...)
	return out, nil
}

// MarshalJSON renders value as a decimal string so TestCase JSON files
// round-trip 256-bit integers without precision loss.
func (c EVMCall) MarshalJSON() ([]byte, error) {
	type alias struct {
		To       common.Address `json:"to"`
		Calldata string         `json:"calldata"`
		Value    string         `json:"value"`
	}
	value := "0"
	if c.Value != nil {
		value = c.Value.Dec()
	}
	return json.Marshal(alias{To: c.To, Calldata: "0x" + common.Bytes2Hex(c.Calldata), Value: value})
}

// UnmarshalJSON parses the run-tc testcase-file format.
func (c *EVMCall) UnmarshalJSON(data []byte) error {
	var alias struct {
		To       common.Address `json:"to"`
		Calldata string         `json:"calldata"`
		Value    string         `json:"value"`
	}
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	c.To = alias.To
	c.Calldata = common.FromHex(alias.Calldata)
	v, err := uint256.FromDecimal(alias.Value)
	if err != nil {
		return err
	}
	c.Value = v
	return nil
}
