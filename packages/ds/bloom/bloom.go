// Package bloom implements a fixed-size bloom filter used as a
// negative-lookup gate in front of the cache. Bits are only ever set;
// there is no removal and no resize after construction.
package bloom

import (
	"errors"
	"math"
	"math/bits"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

const bitsPerWord = 64

// mixConstant is the Murmur2 odd mixing constant. Each of the k probe
// positions is derived from one base hash as base XOR (i * mixConstant),
// a double-hashing simulation of k independent hash functions.
const mixConstant = 0x5bd1e995

var (
	ErrZeroSize   = errors.New("bloom: size must be positive")
	ErrZeroHashes = errors.New("bloom: hash count must be positive")
)

type BloomFilter struct {
	bits []uint64
	size uint64
	k    uint64

	count atomic.Uint64
}

// New allocates a filter of size bits, all clear, probed with k derived
// positions per key.
func New(size, k uint64) (*BloomFilter, error) {
	if size == 0 {
		return nil, ErrZeroSize
	}
	if k == 0 {
		return nil, ErrZeroHashes
	}

	numWords := (size + bitsPerWord - 1) / bitsPerWord
	return &BloomFilter{
		bits: make([]uint64, numWords),
		size: size,
		k:    k,
	}, nil
}

// NewOptimal sizes the filter for an expected item count and target false
// positive rate.
func NewOptimal(expectedItems uint64, falsePositiveRate float64) (*BloomFilter, error) {
	size := optimalSize(expectedItems, falsePositiveRate)
	return New(size, optimalK(size, expectedItems))
}

func optimalSize(n uint64, p float64) uint64 {
	m := -float64(n) * math.Log(p) / (math.Log(2) * math.Log(2))
	return uint64(math.Ceil(m))
}

func optimalK(m, n uint64) uint64 {
	k := float64(m) / float64(n) * math.Log(2)
	if k < 1 {
		return 1
	}
	return uint64(math.Ceil(k))
}

// Add sets the k derived bits for key. Once set, a bit is never cleared,
// so MayContain(key) stays true from this point on.
func (b *BloomFilter) Add(key string) {
	base := xxhash.Sum64String(key)

	for i := uint64(0); i < b.k; i++ {
		idx := (base ^ (i * mixConstant)) % b.size

		wordIdx := idx >> 6
		mask := uint64(1) << (idx & 63)
		for {
			old := atomic.LoadUint64(&b.bits[wordIdx])
			if old&mask == mask {
				break
			}
			if atomic.CompareAndSwapUint64(&b.bits[wordIdx], old, old|mask) {
				break
			}
		}
	}

	b.count.Add(1)
}

// MayContain reports whether key may have been added. False means the key
// was definitely never added; true may be a false positive. Returns as
// soon as one required bit is unset.
func (b *BloomFilter) MayContain(key string) bool {
	base := xxhash.Sum64String(key)

	for i := uint64(0); i < b.k; i++ {
		idx := (base ^ (i * mixConstant)) % b.size

		wordIdx := idx >> 6
		if atomic.LoadUint64(&b.bits[wordIdx])&(uint64(1)<<(idx&63)) == 0 {
			return false
		}
	}
	return true
}

// Size returns the bit-array length in bits.
func (b *BloomFilter) Size() uint64 { return b.size }

// Hashes returns the number of probe positions per key.
func (b *BloomFilter) Hashes() uint64 { return b.k }

// Count returns the number of Add calls, not distinct keys.
func (b *BloomFilter) Count() uint64 { return b.count.Load() }

// FillRatio returns the fraction of set bits.
func (b *BloomFilter) FillRatio() float64 {
	var set uint64
	for i := range b.bits {
		set += uint64(bits.OnesCount64(atomic.LoadUint64(&b.bits[i])))
	}
	return float64(set) / float64(b.size)
}

// EstimatedFalsePositiveRate derives the current false positive
// probability from the fill ratio.
func (b *BloomFilter) EstimatedFalsePositiveRate() float64 {
	return math.Pow(b.FillRatio(), float64(b.k))
}
