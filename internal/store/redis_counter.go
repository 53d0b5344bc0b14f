package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript increments a counter and, on the first increment of a
// window, sets its expiry in the same atomic step. Two racing first
// requests can therefore never produce an unbounded counter.
var incrScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// RedisCounterStore is the shared, cross-instance implementation of
// ratelimit.Store.
type RedisCounterStore struct {
	client *redis.Client
	prefix string
}

// NewRedisCounterStore creates a Redis-backed counter store.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client, prefix: "ratelimit:"}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	result, err := incrScript.Run(ctx, s.client, []string{s.prefix + key}, window.Milliseconds()).Int64()
	if err != nil {
		return 0, err
	}

	return result, nil
}
