package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// MetadataKey is the huma operation metadata key carrying an
// EndpointConfig.
const MetadataKey = "rateLimit"

// LimitConfig is one quota: Max requests per Window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig attaches rate limits to an operation via its Metadata.
// Endpoints without a config are not limited by the middleware; the
// shortening service applies its own quotas internally.
type EndpointConfig struct {
	// Limits are evaluated per client key; all must pass.
	Limits []LimitConfig
}

// LimitExceeded describes which quota rejected a request.
type LimitExceeded struct {
	Config LimitConfig
	Count  int64
}

// PolicyLimiter evaluates per-endpoint quotas against the shared
// counter store.
type PolicyLimiter struct {
	store Store
}

// NewPolicyLimiter creates a policy limiter.
func NewPolicyLimiter(store Store) *PolicyLimiter {
	return &PolicyLimiter{store: store}
}

// Allow checks every limit configured for the endpoint against the
// client key. Counters are scoped by route template, so all requests
// matching a route share one counter per client and window.
func (l *PolicyLimiter) Allow(ctx context.Context, clientKey, route string, cfg EndpointConfig) (bool, *LimitExceeded, error) {
	for _, limit := range cfg.Limits {
		key := fmt.Sprintf("%s:%s:%d", clientKey, route, limit.Window.Milliseconds())

		count, err := l.store.Incr(ctx, key, limit.Window)
		if err != nil {
			return false, nil, err
		}

		if count > limit.Max {
			return false, &LimitExceeded{Config: limit, Count: count}, nil
		}
	}

	return true, nil, nil
}

// ConfigFor extracts the endpoint config from operation metadata, if
// present.
func ConfigFor(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
