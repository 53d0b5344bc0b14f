package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/naturl/naturl/internal/shortener"
)

// ResolveCache decorates a shortener.Store with Redis caching for
// FindByCode, the hot redirect path. Mappings are immutable, so a long
// TTL is safe. Entries are populated only after a successful store
// lookup and negative results are never cached, so a freshly created
// mapping can never be shadowed by stale pre-creation state.
type ResolveCache struct {
	inner  shortener.Store
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewResolveCache creates a caching decorator around a store.
func NewResolveCache(inner shortener.Store, client *redis.Client, ttl time.Duration) *ResolveCache {
	return &ResolveCache{
		inner:  inner,
		client: client,
		prefix: "link:",
		ttl:    ttl,
	}
}

func (c *ResolveCache) FindByCode(ctx context.Context, code shortener.Code) (*shortener.Link, error) {
	if link, err := c.fromCache(ctx, code); err == nil {
		return link, nil
	}

	link, err := c.inner.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	c.cache(ctx, link)

	return link, nil
}

func (c *ResolveCache) FindByURL(ctx context.Context, url string) (*shortener.Link, error) {
	return c.inner.FindByURL(ctx, url)
}

func (c *ResolveCache) Insert(ctx context.Context, link *shortener.Link) error {
	return c.inner.Insert(ctx, link)
}

func (c *ResolveCache) CountLinks(ctx context.Context) (int64, error) {
	return c.inner.CountLinks(ctx)
}

func (c *ResolveCache) AllCodes(ctx context.Context, fn func(shortener.Code) error) error {
	return c.inner.AllCodes(ctx, fn)
}

// InTx delegates to the inner store; transactional reads must see the
// database, not the cache.
func (c *ResolveCache) InTx(ctx context.Context, fn func(shortener.Store) error) error {
	return c.inner.InTx(ctx, fn)
}

func (c *ResolveCache) fromCache(ctx context.Context, code shortener.Code) (*shortener.Link, error) {
	fields, err := c.client.HGetAll(ctx, c.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, shortener.ErrNotFound
	}

	var createdAt time.Time
	if nanos, err := strconv.ParseInt(fields["created_at"], 10, 64); err == nil {
		createdAt = time.Unix(0, nanos).UTC()
	}

	return &shortener.Link{
		Code:        code,
		OriginalURL: fields["original_url"],
		IsCustom:    fields["is_custom"] == "1",
		CreatedAt:   createdAt,
	}, nil
}

func (c *ResolveCache) cache(ctx context.Context, link *shortener.Link) {
	isCustom := "0"
	if link.IsCustom {
		isCustom = "1"
	}

	key := c.prefix + string(link.Code)

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"original_url": link.OriginalURL,
		"is_custom":    isCustom,
		"created_at":   link.CreatedAt.UnixNano(),
	})

	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}

	// Cache population is best effort; the store remains authoritative.
	_, _ = pipe.Exec(ctx)
}

var _ shortener.Store = (*ResolveCache)(nil)
