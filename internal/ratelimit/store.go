package ratelimit

import (
	"context"
	"time"
)

// Store holds window-bounded request counters. Counters are shared
// across serving instances; limits must hold under horizontal scaling,
// so implementations are never process-local in production.
type Store interface {
	// Incr atomically increments the counter for key and returns the
	// new count. The first increment in a window sets the expiry
	// together with the increment, so a counter can never outlive its
	// window.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
