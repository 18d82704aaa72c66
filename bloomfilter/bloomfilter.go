// Package bloomfilter
//
// (C) Copyright Alex Gaetano Padula
//
// Licensed under the Mozilla Public License, v. 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package bloomfilter

import (
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
)

var (
	ErrNoExpectedItems   = errors.New("expectedItems must be greater than 0")
	ErrFalsePositiveRate = errors.New("falsePositiveRate must be between 0 and 1")
)

// BloomFilter answers "definitely absent" or "maybe present" for a set of
// byte strings.  Removal is not supported; stale bits only cost false positives.
type BloomFilter struct {
	bitset    []uint64 // Bit array, 64 bits per word
	size      uint64   // Number of bits
	hashCount uint64   // Number of probes per item
	items     uint64   // Items added so far
	expected  uint     // Item count the filter was sized for
}

// New creates a new Bloom filter with an expected number of items and false positive rate
func New(expectedItems uint, falsePositiveRate float64) (*BloomFilter, error) {
	if expectedItems == 0 {
		return nil, ErrNoExpectedItems
	}

	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		return nil, errors.Wrapf(ErrFalsePositiveRate, "got %v", falsePositiveRate)
	}

	size := optimalSize(expectedItems, falsePositiveRate)
	if falsePositiveRate < 0.01 {
		// Extra room for very low FPR targets
		size = uint64(float64(size) * 1.2)
	}

	// Odd sizes spread the double-hashing probes better
	size |= 1

	return &BloomFilter{
		bitset:    make([]uint64, (size+63)/64),
		size:      size,
		hashCount: optimalHashCount(size, expectedItems),
		expected:  expectedItems,
	}, nil
}

// Add adds an item to the Bloom filter
func (bf *BloomFilter) Add(data []byte) {
	bf.add(xxhash.Sum64(data))
}

// AddString adds a string item without copying it
func (bf *BloomFilter) AddString(s string) {
	bf.add(xxhash.Sum64String(s))
}

// Contains checks if an item might exist in the Bloom filter
func (bf *BloomFilter) Contains(data []byte) bool {
	return bf.contains(xxhash.Sum64(data))
}

// ContainsString checks if a string item might exist in the Bloom filter
func (bf *BloomFilter) ContainsString(s string) bool {
	return bf.contains(xxhash.Sum64String(s))
}

func (bf *BloomFilter) add(h uint64) {
	h1, h2 := split(h, bf.size)

	// h_i(x) = (h1(x) + i*h2(x)) mod m
	for i := uint64(0); i < bf.hashCount; i++ {
		position := (h1 + i*h2) % bf.size
		bf.bitset[position/64] |= 1 << (position % 64)
	}

	bf.items++
}

func (bf *BloomFilter) contains(h uint64) bool {
	h1, h2 := split(h, bf.size)

	for i := uint64(0); i < bf.hashCount; i++ {
		position := (h1 + i*h2) % bf.size
		if bf.bitset[position/64]&(1<<(position%64)) == 0 {
			return false // Definitely not in set
		}
	}

	return true // Might be in set
}

// split derives the two base hashes for double hashing from one 64-bit hash.
// The second is remixed (splitmix64 finalizer) and never a multiple of m.
func split(h, m uint64) (uint64, uint64) {
	h2 := h
	h2 ^= h2 >> 30
	h2 *= 0xbf58476d1ce4e5b9
	h2 ^= h2 >> 27
	h2 *= 0x94d049bb133111eb
	h2 ^= h2 >> 31

	if h2%m == 0 {
		h2++
	}

	return h, h2
}

// Items returns the number of items added
func (bf *BloomFilter) Items() uint64 {
	return bf.items
}

// Saturated reports whether more items were added than the filter was sized for
func (bf *BloomFilter) Saturated() bool {
	return bf.items > uint64(bf.expected)
}

// Size returns the number of bits in the filter
func (bf *BloomFilter) Size() uint64 {
	return bf.size
}

// optimalSize calculates the optimal size of the bit array
func optimalSize(n uint, p float64) uint64 {
	return uint64(math.Ceil(-float64(n) * math.Log(p) / math.Pow(math.Log(2), 2)))
}

// optimalHashCount calculates the optimal number of hash functions
func optimalHashCount(size uint64, n uint) uint64 {
	return uint64(math.Ceil(float64(size) / float64(n) * math.Log(2)))
}

// CalculateTheoreticalFPP returns the theoretical false positive probability
// for the number of items added so far
func (bf *BloomFilter) CalculateTheoreticalFPP() float64 {
	if bf.items == 0 {
		return 0.0
	}

	// (1 - e^(-kn/m))^k
	k := float64(bf.hashCount)
	m := float64(bf.size)
	n := float64(bf.items)

	return math.Pow(1.0-math.Exp(-k*n/m), k)
}
