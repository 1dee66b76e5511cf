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

package wire

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Selector is the 4-byte function selector the oracle's call hook switches
// on when it intercepts a call to the sentinel oracle address. This is the
// Go-idiomatic stand-in for the closed Rust HEVMCalls enum: instead of
// matching on an enum variant, the oracle matches on the selector bytes the
// Solidity Bridge encodes its oracle calls with.
type Selector [4]byte

func selectorOf(signature string) Selector {
	hash := crypto.Keccak256([]byte(signature))
	var sel Selector
	copy(sel[:], hash[:4])
	return sel
}

// FunctionSelector derives the 4-byte selector for an arbitrary Solidity
// function signature, e.g. "transfer(address,uint256)". Exported for the
// corpus and template packages, which build calldata for target-token and
// router functions outside the oracle's own RPC table.
func FunctionSelector(signature string) [4]byte {
	return selectorOf(signature)
}

// Oracle RPC selectors, one per message in the Oracle RPC table.
var (
	SelectorGetRelevantTokenAddrs   = selectorOf("getRelevantTokenAddrs()")
	SelectorGetTargetAddrs          = selectorOf("getTargetAddrs()")
	SelectorGetBaseTokenAddr        = selectorOf("getBaseTokenAddr()")
	SelectorGetPairAddr             = selectorOf("getPairAddr()")
	SelectorGetRouterAddr           = selectorOf("getRouterAddr()")
	SelectorGetTargetTokenAddr      = selectorOf("getTargetTokenAddr()")
	SelectorUpdateTokenBalance      = selectorOf("updateTokenBalance(address,address,uint256)")
	SelectorAddRelevantTokenAddr    = selectorOf("addRelevantTokenAddr(address)")
	SelectorInitialize              = selectorOf("initialize(address,address)")
	SelectorSaveBalanceSnapshot     = selectorOf("saveBalanceSnapshot()")
	SelectorCheckInvariantBroken    = selectorOf("checkInvariantBroken()")
	SelectorNotifyExploitSuccess    = selectorOf("notifyExploitSuccess(uint256)")
	SelectorNotifyInitialSwapFailed = selectorOf("notifyInitialSwapFailed()")
	SelectorRegisterFee             = selectorOf("registerFee(uint256)")
	SelectorGetFee                  = selectorOf("getFee()")
	SelectorGetInitialTokenPercent  = selectorOf("getInitialTokenPercent()")

	// SelectorRegisterBurnAmount must be seen by the oracle before it sees
	// the burn() call whose calldata references BURN_AMOUNT, or the later
	// placeholder substitution has nothing to read back.
	SelectorRegisterBurnAmount = selectorOf("registerBurnAmount(uint256)")

	SelectorReplacePlaceholderValue = selectorOf("replacePlaceholderValue(bytes)")
)

func mustType(sig string) abi.Type {
	t, err := abi.NewType(sig, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

var (
	addressArgs            = abi.Arguments{{Type: mustType("address")}}
	uint256Args            = abi.Arguments{{Type: mustType("uint256")}}
	bytesArgs              = abi.Arguments{{Type: mustType("bytes")}}
	addressArrayArgs       = abi.Arguments{{Type: mustType("address[]")}}
	updateTokenBalanceArgs = abi.Arguments{{Type: mustType("address")}, {Type: mustType("address")}, {Type: mustType("uint256")}}
	initializeArgs         = abi.Arguments{{Type: mustType("address")}, {Type: mustType("address")}}
)

// DecodeUpdateTokenBalance decodes updateTokenBalance(address holder,
// address token, uint256 balance).
func DecodeUpdateTokenBalance(args []byte) (holder, token common.Address, balance *uint256.Int, err error) {
	values, err := updateTokenBalanceArgs.Unpack(args)
	if err != nil {
		return common.Address{}, common.Address{}, nil, err
	}
	holder = values[0].(common.Address)
	token = values[1].(common.Address)
	amt, overflow := uint256.FromBig(values[2].(*big.Int))
	if overflow {
		return common.Address{}, common.Address{}, nil, fmt.Errorf("wire: updateTokenBalance balance overflows uint256")
	}
	return holder, token, amt, nil
}

// DecodeAddRelevantTokenAddr decodes addRelevantTokenAddr(address token).
func DecodeAddRelevantTokenAddr(args []byte) (common.Address, error) {
	values, err := addressArgs.Unpack(args)
	if err != nil {
		return common.Address{}, err
	}
	return values[0].(common.Address), nil
}

// DecodeInitialize decodes initialize(address bridge, address mainPier).
func DecodeInitialize(args []byte) (bridge, mainPier common.Address, err error) {
	values, err := initializeArgs.Unpack(args)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	return values[0].(common.Address), values[1].(common.Address), nil
}

// DecodeNotifyExploitSuccess decodes notifyExploitSuccess(uint256 profit).
func DecodeNotifyExploitSuccess(args []byte) (*uint256.Int, error) {
	return decodeSingleUint256(args)
}

// DecodeRegisterFee decodes registerFee(uint256 pct).
func DecodeRegisterFee(args []byte) (*uint256.Int, error) {
	return decodeSingleUint256(args)
}

// DecodeRegisterBurnAmount decodes registerBurnAmount(uint256 amount).
func DecodeRegisterBurnAmount(args []byte) (*uint256.Int, error) {
	return decodeSingleUint256(args)
}

// DecodeReplacePlaceholderValue decodes replacePlaceholderValue(bytes calldata).
func DecodeReplacePlaceholderValue(args []byte) ([]byte, error) {
	values, err := bytesArgs.Unpack(args)
	if err != nil {
		return nil, err
	}
	return values[0].([]byte), nil
}

func decodeSingleUint256(args []byte) (*uint256.Int, error) {
	values, err := uint256Args.Unpack(args)
	if err != nil {
		return nil, err
	}
	v, overflow := uint256.FromBig(values[0].(*big.Int))
	if overflow {
		return nil, fmt.Errorf("wire: uint256 argument overflows uint256")
	}
	return v, nil
}

// EncodeUint256Return ABI-encodes a single uint256 reply.
func EncodeUint256Return(v *uint256.Int) ([]byte, error) {
	val := new(big.Int)
	if v != nil {
		val = v.ToBig()
	}
	return uint256Args.Pack(val)
}

// EncodeAddressReturn ABI-encodes a single address reply.
func EncodeAddressReturn(addr common.Address) ([]byte, error) {
	return addressArgs.Pack(addr)
}

// EncodeAddressesReturn ABI-encodes an address[] reply, used by
// getRelevantTokenAddrs and getTargetAddrs.
func EncodeAddressesReturn(addrs []common.Address) ([]byte, error) {
	return addressArrayArgs.Pack(addrs)
}

// EncodeBytesReturn ABI-encodes a bytes reply, used by
// replacePlaceholderValue.
func EncodeBytesReturn(data []byte) ([]byte, error) {
	return bytesArgs.Pack(data)
}
