package store

import (
	"context"
	"sync"
	"time"
)

type counterWindow struct {
	count   int64
	resetAt time.Time
}

// MemoryCounterStore is an in-memory fixed-window counter store for
// tests. Production uses RedisCounterStore so limits hold across
// instances.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*counterWindow
}

// NewMemoryCounterStore creates an empty in-memory counter store.
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{counters: make(map[string]*counterWindow)}
}

func (s *MemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	counter, ok := s.counters[key]
	if !ok || now.After(counter.resetAt) {
		counter = &counterWindow{resetAt: now.Add(window)}
		s.counters[key] = counter
	}

	counter.count++

	return counter.count, nil
}
