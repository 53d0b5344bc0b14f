// Package filter provides a probabilistic existence guard for short
// codes: a definite miss lets the allocator skip the database probe
// for a candidate code.
package filter

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/naturl/naturl/internal/shortener"
)

// BloomFilter wraps a bloom filter with thread safety.
type BloomFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewBloomFilter creates a filter sized for capacity items at the given
// false-positive rate.
func NewBloomFilter(capacity uint, fpRate float64) *BloomFilter {
	return &BloomFilter{
		filter: bloom.NewWithEstimates(capacity, fpRate),
	}
}

// Add records a code.
func (f *BloomFilter) Add(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.filter.AddString(code)
}

// Test reports whether a code might exist. False is authoritative;
// true may be a false positive and still needs a store probe.
func (f *BloomFilter) Test(code string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.filter.TestString(code)
}

// Seed loads every stored code into the filter.
func (f *BloomFilter) Seed(ctx context.Context, store shortener.Store) error {
	return store.AllCodes(ctx, func(code shortener.Code) error {
		f.Add(string(code))

		return nil
	})
}

var _ shortener.ExistenceFilter = (*BloomFilter)(nil)
