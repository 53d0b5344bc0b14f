package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/naturl/naturl/internal/handlers"
	"github.com/naturl/naturl/internal/ideas"
	"github.com/naturl/naturl/internal/ratelimit"
	"github.com/naturl/naturl/internal/store"
)

func newTestIdeaHandler(limiter ratelimit.Limiter) *handlers.IdeaHandler {
	return handlers.NewIdeaHandler(
		ideas.NewService(store.NewIdeasMemoryStore(), limiter, zap.NewNop()),
	)
}

func TestSubmitIdea(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and returns the idea", func(t *testing.T) {
		handler := newTestIdeaHandler(allowAllLimiter{})

		req := &handlers.SubmitIdeaRequest{}
		req.Body.Content = "Add QR codes for every short link"
		req.Body.AuthorID = "author-1"

		resp, err := handler.SubmitIdea(ctx, req)

		require.NoError(t, err)
		assert.True(t, resp.Body.Success)
		assert.NotZero(t, resp.Body.Idea.ID)
		assert.Equal(t, "Add QR codes for every short link", resp.Body.Idea.Content)
	})

	t.Run("maps short content to 400", func(t *testing.T) {
		handler := newTestIdeaHandler(allowAllLimiter{})

		req := &handlers.SubmitIdeaRequest{}
		req.Body.Content = "too short"

		_, err := handler.SubmitIdea(ctx, req)

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("maps the daily quota to 429", func(t *testing.T) {
		handler := newTestIdeaHandler(denyAllLimiter{})

		req := &handlers.SubmitIdeaRequest{}
		req.Body.Content = "Add QR codes for every short link"

		_, err := handler.SubmitIdea(ctx, req)

		assert.Equal(t, http.StatusTooManyRequests, statusOf(t, err))
	})
}

func TestListIdeas(t *testing.T) {
	ctx := context.Background()
	handler := newTestIdeaHandler(allowAllLimiter{})

	req := &handlers.SubmitIdeaRequest{}
	req.Body.Content = "Add QR codes for every short link"
	req.Body.AuthorID = "author-1"

	_, err := handler.SubmitIdea(ctx, req)
	require.NoError(t, err)

	resp, err := handler.ListIdeas(ctx, nil)

	require.NoError(t, err)
	require.Len(t, resp.Body.Ideas, 1)
	assert.Equal(t, "author-1", resp.Body.Ideas[0].AuthorID)
}

func TestVoteIdea(t *testing.T) {
	ctx := context.Background()

	submit := func(t *testing.T, handler *handlers.IdeaHandler) int64 {
		t.Helper()

		req := &handlers.SubmitIdeaRequest{}
		req.Body.Content = "Add QR codes for every short link"
		req.Body.AuthorID = "author-1"

		resp, err := handler.SubmitIdea(ctx, req)
		require.NoError(t, err)

		return resp.Body.Idea.ID
	}

	t.Run("returns the new vote total", func(t *testing.T) {
		handler := newTestIdeaHandler(allowAllLimiter{})
		id := submit(t, handler)

		req := &handlers.VoteRequest{}
		req.Body.IdeaID = id
		req.Body.VoteType = "upvote"
		req.Body.AuthorID = "voter-1"

		resp, err := handler.VoteIdea(ctx, req)

		require.NoError(t, err)
		assert.True(t, resp.Body.Success)
		assert.Equal(t, 1, resp.Body.Votes)
	})

	t.Run("maps a repeated vote to 409", func(t *testing.T) {
		handler := newTestIdeaHandler(allowAllLimiter{})
		id := submit(t, handler)

		req := &handlers.VoteRequest{}
		req.Body.IdeaID = id
		req.Body.VoteType = "downvote"
		req.Body.AuthorID = "voter-1"

		_, err := handler.VoteIdea(ctx, req)
		require.NoError(t, err)

		_, err = handler.VoteIdea(ctx, req)

		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})

	t.Run("maps an unknown idea to 404", func(t *testing.T) {
		handler := newTestIdeaHandler(allowAllLimiter{})

		req := &handlers.VoteRequest{}
		req.Body.IdeaID = 42
		req.Body.VoteType = "upvote"
		req.Body.AuthorID = "voter-1"

		_, err := handler.VoteIdea(ctx, req)

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}
