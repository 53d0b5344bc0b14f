package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naturl/naturl/internal/events"
	"github.com/naturl/naturl/internal/handlers"
	"github.com/naturl/naturl/internal/shortener"
	"github.com/naturl/naturl/internal/store"
)

func seedLink(t *testing.T, links *store.MemoryStore, code, url string) {
	t.Helper()

	require.NoError(t, links.Insert(context.Background(), &shortener.Link{
		Code:        shortener.Code(code),
		OriginalURL: url,
		CreatedAt:   time.Now().UTC(),
	}))
}

func TestRedirect(t *testing.T) {
	ctx := context.Background()

	t.Run("redirects permanently to the original url", func(t *testing.T) {
		links := store.NewMemoryStore()
		seedLink(t, links, "abc123", "https://example.com/page")
		handler := newTestLinkHandler(links, linkHandlerConfig{})

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Code: "abc123"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusPermanentRedirect, resp.Status)
		assert.Equal(t, "https://example.com/page", resp.Headers.Location)
		assert.Equal(t, "public, max-age=86400, immutable", resp.Headers.CacheControl)
	})

	t.Run("unknown code falls back to the home page", func(t *testing.T) {
		handler := newTestLinkHandler(store.NewMemoryStore(), linkHandlerConfig{})

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Code: "nope"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, "/", resp.Headers.Location)
		assert.Empty(t, resp.Headers.CacheControl)
	})

	t.Run("empty code falls back to the home page", func(t *testing.T) {
		handler := newTestLinkHandler(store.NewMemoryStore(), linkHandlerConfig{})

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Code: ""})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
	})

	t.Run("bare domain hit falls back to the home page", func(t *testing.T) {
		handler := newTestLinkHandler(store.NewMemoryStore(), linkHandlerConfig{})

		resp, err := handler.Home(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, "/", resp.Headers.Location)
		assert.Empty(t, resp.Headers.CacheControl)
	})

	t.Run("publishes a resolution event", func(t *testing.T) {
		links := store.NewMemoryStore()
		seedLink(t, links, "abc123", "https://example.com")

		var published *events.LinkResolvedEvent

		handler := newTestLinkHandler(links, linkHandlerConfig{
			publishResolve: func(event *events.LinkResolvedEvent) error {
				published = event

				return nil
			},
		})

		meta := handlers.RequestMeta{Referrer: "https://referrer.example"}
		_, err := handler.Redirect(handlers.ContextWithRequestMeta(ctx, meta), &handlers.RedirectRequest{Code: "abc123"})

		require.NoError(t, err)
		require.NotNil(t, published)
		assert.Equal(t, "abc123", published.Code)
		assert.Equal(t, "https://referrer.example", published.Referrer)
	})

	t.Run("fallback publishes nothing", func(t *testing.T) {
		var published int

		handler := newTestLinkHandler(store.NewMemoryStore(), linkHandlerConfig{
			publishResolve: func(_ *events.LinkResolvedEvent) error {
				published++

				return nil
			},
		})

		_, err := handler.Redirect(ctx, &handlers.RedirectRequest{Code: "nope"})

		require.NoError(t, err)
		assert.Zero(t, published)
	})

	t.Run("succeeds even when publish fails", func(t *testing.T) {
		links := store.NewMemoryStore()
		seedLink(t, links, "abc123", "https://example.com")
		handler := newTestLinkHandler(links, linkHandlerConfig{
			publishResolve: errorPublish[events.LinkResolvedEvent](errors.New("publish error")),
		})

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Code: "abc123"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusPermanentRedirect, resp.Status)
	})
}

type failingCountStore struct {
	*store.MemoryStore
}

func (failingCountStore) CountLinks(context.Context) (int64, error) {
	return 0, errors.New("count failed")
}

func TestStats(t *testing.T) {
	ctx := context.Background()

	t.Run("reports the link count with caching", func(t *testing.T) {
		links := store.NewMemoryStore()
		seedLink(t, links, "abc123", "https://one.example")
		seedLink(t, links, "xyz789", "https://two.example")
		handler := newTestLinkHandler(links, linkHandlerConfig{})

		resp, err := handler.Stats(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Body.Count)
		assert.Equal(t, "public, max-age=60, stale-while-revalidate=60", resp.Headers.CacheControl)
	})

	t.Run("maps store failures to 500", func(t *testing.T) {
		handler := newTestLinkHandler(failingCountStore{store.NewMemoryStore()}, linkHandlerConfig{})

		_, err := handler.Stats(ctx, nil)

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}
