// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compiler

import (
	"hash/fnv"
	"io"
)

const (
	// bloomMinRoutes is the static table size below which the bloom filter
	// is skipped and the map is consulted directly.
	bloomMinRoutes = 10

	// DefaultBloomHashFuncs is the number of hash functions used when the
	// configuration does not set one.
	DefaultBloomHashFuncs = 3
)

// BloomFilter answers "definitely absent" for static (method, path) keys.
// It has no false negatives. It is read-only once the table is built.
type BloomFilter struct {
	bits  []uint64 // Bit array (each uint64 holds 64 bits)
	size  uint64   // Total number of bits
	seeds []uint64 // Hash seeds for multiple hash functions
}

// NewBloomFilter creates a bloom filter with size bits and numHashFuncs
// hash functions.
func NewBloomFilter(size uint64, numHashFuncs int) *BloomFilter {
	if size == 0 {
		size = 64
	}
	if numHashFuncs <= 0 {
		numHashFuncs = DefaultBloomHashFuncs
	}

	bf := &BloomFilter{
		bits:  make([]uint64, (size+63)/64), // Round up to nearest 64-bit boundary
		size:  size,
		seeds: make([]uint64, numHashFuncs),
	}

	for i := range numHashFuncs {
		//nolint:gosec // G115: numHashFuncs is small (typically < 10), overflow impossible
		bf.seeds[i] = uint64(i + 1)
	}

	return bf
}

// optimalBloomFilterSize sizes the filter at ten bits per static route,
// clamped to [100, 1e6].
func optimalBloomFilterSize(routeCount int) uint64 {
	//nolint:gosec // G115: routeCount is non-negative
	size := uint64(max(routeCount, 0) * 10)

	return min(max(size, 100), 1000000)
}

// keyHash returns the FNV-1a hash of method + " " + path.
func keyHash(method, path string) uint64 {
	h := fnv.New64a()
	_, _ = io.WriteString(h, method)
	_, _ = h.Write([]byte{' '})
	_, _ = io.WriteString(h, path)

	return h.Sum64()
}

func (bf *BloomFilter) position(baseHash, seed uint64) uint64 {
	// XOR with seed to create different hash functions for bloom filter
	return (baseHash ^ seed) % bf.size
}

// Add inserts a (method, path) key.
func (bf *BloomFilter) Add(method, path string) {
	baseHash := keyHash(method, path)
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
}

// Test reports whether a (method, path) key may be present.
func (bf *BloomFilter) Test(method, path string) bool {
	baseHash := keyHash(method, path)
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false // Early exit - definitely not present
		}
	}

	return true
}
