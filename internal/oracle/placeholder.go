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

package oracle

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	cageerrors "github.com/cagehunt/cage/pkg/errors"
)

// Placeholder is the tag embedded in the high nibble of a sentinel 256-bit
// calldata word. The corpus writes these in place of a value that can
// only be known once the preceding calls in the test case have actually
// run (a balance, a reserve, a just-computed burn amount); the oracle
// rewrites them to the live value immediately before the call dispatches.
type Placeholder uint8

const (
	PlaceholderZeroBalance         Placeholder = 0
	PlaceholderThisBalance         Placeholder = 1
	PlaceholderPairBalance         Placeholder = 2
	PlaceholderPairBalanceMinusOne Placeholder = 3
	PlaceholderBurnAmount          Placeholder = 4
)

func placeholderWord(p Placeholder) [32]byte {
	var word [32]byte
	if p == PlaceholderZeroBalance {
		return word
	}
	v := new(uint256.Int).Lsh(uint256.NewInt(uint64(p)), 252)
	v.WriteToSlice(word[:])
	return word
}

var placeholderWords = map[Placeholder][32]byte{
	PlaceholderThisBalance:         placeholderWord(PlaceholderThisBalance),
	PlaceholderPairBalance:         placeholderWord(PlaceholderPairBalance),
	PlaceholderPairBalanceMinusOne: placeholderWord(PlaceholderPairBalanceMinusOne),
	PlaceholderBurnAmount:          placeholderWord(PlaceholderBurnAmount),
}

// PlaceholderValue returns the 32-byte sentinel word for p. The corpus uses
// this to embed a placeholder into calldata it builds ahead of time; the
// oracle rewrites the word to a live value via ReplacePlaceholderValue
// immediately before the call is dispatched.
func PlaceholderValue(p Placeholder) [32]byte {
	return placeholderWord(p)
}

func isPlaceholder(word []byte, p Placeholder) bool {
	w := placeholderWords[p]
	return bytes.Equal(word, w[:])
}

func selectorOf(signature string) [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(signature))[:4])
	return sel
}

var (
	selTransfer                                  = selectorOf("transfer(address,uint256)")
	selBurnUint256                                = selectorOf("burn(uint256)")
	selBurnAddressUint256                         = selectorOf("burn(address,uint256)")
	selSwapExactTokensForETH                      = selectorOf("swapExactTokensForETH(uint256,uint256,address[],address,uint256)")
	selSwapExactTokensForTokensSupportingFee      = selectorOf("swapExactTokensForTokensSupportingFeeOnTransferTokens(uint256,uint256,address[],address,uint256)")
	selSwapExactTokensForETHSupportingFee         = selectorOf("swapExactTokensForETHSupportingFeeOnTransferTokens(uint256,uint256,address[],address,uint256)")
)

func writeWord(dst []byte, v *uint256.Int) {
	v.WriteToSlice(dst)
}

// ReplacePlaceholderValue is the oracle's replacePlaceholderValue RPC: it
// returns a NEW byte buffer with any sentinel placeholder word rewritten
// to its live value, leaving calldata untouched. Calls whose selector
// carries no placeholder semantics pass through byte-for-byte -- this is
// also what makes the function idempotent on non-placeholder calldata,
// per spec.md's testable property.
func ReplacePlaceholderValue(calldata []byte, env *CageEnv) ([]byte, error) {
	out := make([]byte, len(calldata))
	copy(out, calldata)

	if len(out) < 4 {
		return out, nil
	}
	var selector [4]byte
	copy(selector[:], out[:4])

	switch selector {
	case selSwapExactTokensForETH, selSwapExactTokensForTokensSupportingFee, selSwapExactTokensForETHSupportingFee:
		if len(out) < 228 {
			return nil, cageerrors.Wrap(cageerrors.ErrMalformedCalldata, "swap calldata too short for path decode")
		}
		token := common.BytesToAddress(out[208:228])
		writeWord(out[4:36], env.AttackerBalance(token))
		return out, nil

	case selTransfer:
		if len(out) < 68 {
			return nil, cageerrors.Wrap(cageerrors.ErrMalformedCalldata, "transfer calldata too short")
		}
		word := out[36:68]
		switch {
		case isPlaceholder(word, PlaceholderPairBalance):
			writeWord(word, env.PairBalance(env.TargetTokenAddr()))
		case isPlaceholder(word, PlaceholderThisBalance):
			amount := env.AttackerBalance(env.TargetTokenAddr())
			if fee := env.Fee(); fee != 0 {
				reduction := new(uint256.Int).Div(new(uint256.Int).Mul(amount, uint256.NewInt(fee)), uint256.NewInt(100))
				amount = new(uint256.Int).Sub(amount, reduction)
			}
			writeWord(word, amount)
		}
		return out, nil

	case selBurnUint256:
		if len(out) < 36 {
			return nil, cageerrors.Wrap(cageerrors.ErrMalformedCalldata, "burn(uint256) calldata too short")
		}
		if err := substituteBurnWord(out[4:36], env); err != nil {
			return nil, err
		}
		return out, nil

	case selBurnAddressUint256:
		if len(out) < 68 {
			return nil, cageerrors.Wrap(cageerrors.ErrMalformedCalldata, "burn(address,uint256) calldata too short")
		}
		if err := substituteBurnWord(out[36:68], env); err != nil {
			return nil, err
		}
		return out, nil

	default:
		return out, nil
	}
}

func substituteBurnWord(word []byte, env *CageEnv) error {
	switch {
	case isPlaceholder(word, PlaceholderPairBalanceMinusOne):
		bal := env.PairBalance(env.TargetTokenAddr())
		if bal.IsZero() {
			return cageerrors.Wrap(cageerrors.ErrUnknownBalanceHolder, "pair balance underflow for PAIR_BALANCE_MINUS_ONE")
		}
		writeWord(word, new(uint256.Int).Sub(bal, uint256.NewInt(1)))
		return nil
	case isPlaceholder(word, PlaceholderBurnAmount):
		amount, ok := env.BurnAmount(env.PairAddr())
		if !ok {
			return cageerrors.ErrUnknownBurnPlaceholder
		}
		writeWord(word, amount)
		return nil
	default:
		return cageerrors.Wrap(cageerrors.ErrMalformedCalldata, "burn call carries neither PAIR_BALANCE_MINUS_ONE nor BURN_AMOUNT")
	}
}
