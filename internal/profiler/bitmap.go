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

// Package profiler collects EVM instruction coverage for the target token
// contract, keyed on (bytecode-hash xor program-counter). The core search
// driver does not consume this coverage; it is exposed for fitness-guided
// search extensions built on top of this engine.
package profiler

import (
	"encoding/binary"

	"github.com/RoaringBitmap/roaring"
	"github.com/ethereum/go-ethereum/crypto"
)

// mapSize and wordBits together fix the addressable coverage space at
// 65,536 machine words of at least 64 bits each, per spec.md §4.6. The
// roaring bitmap itself has no fixed word width; bitCount is the modulus
// the index formula reduces into, which is what actually pins the word
// width to 64 regardless of backing storage.
const (
	mapSize  = 65536
	wordBits = 64
	bitCount = mapSize * wordBits
)

func hashBytecode(bytecode []byte) uint64 {
	sum := crypto.Keccak256(bytecode)
	return binary.BigEndian.Uint64(sum[:8])
}

func indexFor(bytecode []byte, pc uint64) uint32 {
	return uint32((hashBytecode(bytecode) ^ pc) % bitCount)
}

// BitMap is the coverage set: a roaring.Bitmap over the bitCount-wide index
// space, with the set-algebra operations spec.md §8 requires to be
// testable independent of any EVM run.
type BitMap struct {
	bits *roaring.Bitmap
}

// NewBitMap returns an empty coverage map.
func NewBitMap() *BitMap {
	return &BitMap{bits: roaring.New()}
}

// Set marks the bit (hash(bytecode) xor pc) mod bitCount. Idempotent:
// setting the same (bytecode, pc) pair twice leaves Len unchanged.
func (b *BitMap) Set(bytecode []byte, pc uint64) {
	b.bits.Add(indexFor(bytecode, pc))
}

// Len is the population count: the number of distinct (bytecode, pc) index
// slots ever set.
func (b *BitMap) Len() uint64 {
	return b.bits.GetCardinality()
}

// Union returns a new BitMap with every bit set in b or other.
func (b *BitMap) Union(other *BitMap) *BitMap {
	return &BitMap{bits: roaring.Or(b.bits, other.bits)}
}

// Intersection returns a new BitMap with only the bits set in both b and
// other.
func (b *BitMap) Intersection(other *BitMap) *BitMap {
	return &BitMap{bits: roaring.And(b.bits, other.bits)}
}

// Difference returns a new BitMap with the bits set in b but not in other.
func (b *BitMap) Difference(other *BitMap) *BitMap {
	return &BitMap{bits: roaring.AndNot(b.bits, other.bits)}
}

// IsSubsetOf reports whether every bit set in b is also set in other,
// characterized as len(b union other) == len(other) rather than a direct
// per-bit walk.
func (b *BitMap) IsSubsetOf(other *BitMap) bool {
	return b.Union(other).Len() == other.Len()
}
