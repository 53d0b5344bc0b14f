package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Limiter gates requests by key.
type Limiter interface {
	// Allow consumes one token for key. When the quota for the current
	// window is exhausted it returns false; the caller rejects the
	// request immediately, there is no queuing.
	Allow(ctx context.Context, key string) (bool, error)
}

// FixedWindowLimiter grants a fixed quota per window, counting in a
// shared Store.
type FixedWindowLimiter struct {
	store  Store
	name   string
	limit  int64
	window time.Duration
}

// NewFixedWindowLimiter creates a limiter. The name namespaces its
// counters so independent limiters never share keys.
func NewFixedWindowLimiter(store Store, name string, limit int64, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		store:  store,
		name:   name,
		limit:  limit,
		window: window,
	}
}

func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Incr(ctx, l.counterKey(key), l.window)
	if err != nil {
		return false, err
	}

	return count <= l.limit, nil
}

func (l *FixedWindowLimiter) counterKey(key string) string {
	return fmt.Sprintf("%s:%s:%d", l.name, key, l.window.Milliseconds())
}

var _ Limiter = (*FixedWindowLimiter)(nil)
