package handlers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naturl/naturl/internal/handlers"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("all dependencies healthy", func(t *testing.T) {
		handler := handlers.NewHealthHandler(stubPinger{}, stubPinger{})

		resp, err := handler.Check(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Equal(t, "healthy", resp.Body.Redis)
		assert.Equal(t, "healthy", resp.Body.Postgres)
	})

	t.Run("redis failure degrades status", func(t *testing.T) {
		handler := handlers.NewHealthHandler(stubPinger{err: errors.New("down")}, stubPinger{})

		resp, err := handler.Check(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Redis)
		assert.Equal(t, "healthy", resp.Body.Postgres)
	})

	t.Run("postgres failure degrades status", func(t *testing.T) {
		handler := handlers.NewHealthHandler(stubPinger{}, stubPinger{err: errors.New("down")})

		resp, err := handler.Check(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Postgres)
	})
}
