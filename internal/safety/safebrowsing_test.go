package safety_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naturl/naturl/internal/safety"
)

func TestSafeBrowsingChecker(t *testing.T) {
	ctx := context.Background()

	t.Run("no matches means safe", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "secret", r.URL.Query().Get("key"))

			var body map[string]any
			if assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
				assert.Contains(t, body, "threatInfo")
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		checker := safety.NewSafeBrowsingChecker("secret", safety.WithEndpoint(server.URL))

		safe, err := checker.IsSafe(ctx, "https://example.com")

		require.NoError(t, err)
		assert.True(t, safe)
	})

	t.Run("any match means unsafe", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"matches":[{"threatType":"MALWARE"}]}`))
		}))
		defer server.Close()

		checker := safety.NewSafeBrowsingChecker("secret", safety.WithEndpoint(server.URL))

		safe, err := checker.IsSafe(ctx, "https://evil.example")

		require.NoError(t, err)
		assert.False(t, safe)
	})

	t.Run("non-200 response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		checker := safety.NewSafeBrowsingChecker("secret", safety.WithEndpoint(server.URL))

		_, err := checker.IsSafe(ctx, "https://example.com")

		assert.Error(t, err)
	})

	t.Run("timeout is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		checker := safety.NewSafeBrowsingChecker("secret",
			safety.WithEndpoint(server.URL),
			safety.WithTimeout(20*time.Millisecond),
		)

		_, err := checker.IsSafe(ctx, "https://example.com")

		assert.Error(t, err)
	})

	t.Run("malformed response body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		checker := safety.NewSafeBrowsingChecker("secret", safety.WithEndpoint(server.URL))

		_, err := checker.IsSafe(ctx, "https://example.com")

		assert.Error(t, err)
	})
}

func TestStaticChecker(t *testing.T) {
	ctx := context.Background()

	safe, err := safety.NewStaticChecker(true).IsSafe(ctx, "https://example.com")
	require.NoError(t, err)
	assert.True(t, safe)

	safe, err = safety.NewStaticChecker(false).IsSafe(ctx, "https://example.com")
	require.NoError(t, err)
	assert.False(t, safe)
}
