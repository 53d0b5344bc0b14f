package handlers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Pinger checks one dependency's connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger adapts redis.Client to Pinger.
type RedisPinger struct {
	client *redis.Client
}

// NewRedisPinger creates a Redis connectivity checker.
func NewRedisPinger(client *redis.Client) *RedisPinger {
	return &RedisPinger{client: client}
}

func (p *RedisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// PostgresPinger adapts pgxpool.Pool to Pinger.
type PostgresPinger struct {
	pool *pgxpool.Pool
}

// NewPostgresPinger creates a PostgreSQL connectivity checker.
func NewPostgresPinger(pool *pgxpool.Pool) *PostgresPinger {
	return &PostgresPinger{pool: pool}
}

func (p *PostgresPinger) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// HealthHandler reports service and dependency health.
type HealthHandler struct {
	redis    Pinger
	postgres Pinger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(redis, postgres Pinger) *HealthHandler {
	return &HealthHandler{redis: redis, postgres: postgres}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Body struct {
		Status   string `json:"status"`
		Redis    string `json:"redis"`
		Postgres string `json:"postgres"`
	}
}

// Check pings each dependency and degrades the overall status when one
// is unreachable.
func (h *HealthHandler) Check(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Redis = "healthy"
	resp.Body.Postgres = "healthy"

	if err := h.redis.Ping(ctx); err != nil {
		resp.Body.Redis = "unhealthy"
		resp.Body.Status = "degraded"
	}

	if err := h.postgres.Ping(ctx); err != nil {
		resp.Body.Postgres = "unhealthy"
		resp.Body.Status = "degraded"
	}

	return resp, nil
}
