package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/naturl/naturl/internal/events"
)

func TestAuditLog(t *testing.T) {
	ctx := context.Background()

	t.Run("logs creations", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		audit := events.NewAuditLog(zap.New(core))

		err := audit.HandleLinkCreated(ctx, &events.LinkCreatedEvent{
			Code:        "abc123",
			OriginalURL: "https://example.com",
			CreatedAt:   time.Now().UTC(),
		})

		require.NoError(t, err)
		entries := logs.FilterMessage("link created").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "abc123", entries[0].ContextMap()["code"])
	})

	t.Run("logs resolutions", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		audit := events.NewAuditLog(zap.New(core))

		err := audit.HandleLinkResolved(ctx, &events.LinkResolvedEvent{
			Code:       "abc123",
			ResolvedAt: time.Now().UTC(),
		})

		require.NoError(t, err)
		assert.Equal(t, 1, logs.FilterMessage("link resolved").Len())
	})
}
