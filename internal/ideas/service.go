package ideas

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/naturl/naturl/internal/ratelimit"
	"github.com/naturl/naturl/internal/validate"
)

const (
	minContentLength = 10
	maxContentLength = 500
)

// Service implements the idea board operations.
type Service struct {
	store   Store
	limiter ratelimit.Limiter
	logger  *zap.Logger
}

// NewService creates an idea board service. The limiter enforces the
// per-day submission quota keyed by hashed client identifier.
func NewService(store Store, limiter ratelimit.Limiter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{store: store, limiter: limiter, logger: logger}
}

// List returns all ideas, newest first.
func (s *Service) List(ctx context.Context) ([]Idea, error) {
	return s.store.List(ctx)
}

// Submit stores a new idea after checking the daily quota. An empty
// author id is replaced with a fresh random identity.
func (s *Service) Submit(ctx context.Context, content, authorID, clientKey string) (*Idea, error) {
	content = strings.TrimSpace(content)

	if length := utf8.RuneCountInString(content); length < minContentLength || length > maxContentLength {
		return nil, &validate.Error{
			Field:  "content",
			Reason: fmt.Sprintf("content must be between %d and %d characters", minContentLength, maxContentLength),
		}
	}

	allowed, err := s.limiter.Allow(ctx, clientKey)
	if err != nil {
		return nil, fmt.Errorf("idea rate limit check: %w", err)
	}

	if !allowed {
		s.logger.Warn("daily idea quota exhausted", zap.String("client_key", clientKey))

		return nil, ErrRateLimited
	}

	if authorID == "" {
		authorID = uuid.NewString()
	}

	idea := &Idea{
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		return tx.Insert(ctx, idea)
	})
	if err != nil {
		return nil, err
	}

	return idea, nil
}

// Vote applies an author's vote to an idea and returns the new total.
// Repeating an identical vote is a conflict; switching direction
// reverses the old vote and applies the new one in a single
// transaction.
func (s *Service) Vote(ctx context.Context, ideaID int64, vote VoteType, authorID string) (int, error) {
	if vote != VoteUp && vote != VoteDown {
		return 0, &validate.Error{Field: "voteType", Reason: "vote must be 'upvote' or 'downvote'"}
	}

	if authorID == "" {
		return 0, &validate.Error{Field: "authorId", Reason: "author id is required"}
	}

	delta := vote.Delta()

	var total int

	err := s.store.InTx(ctx, func(tx Store) error {
		if _, err := tx.Get(ctx, ideaID); err != nil {
			return err
		}

		existing, err := tx.GetVote(ctx, ideaID, authorID)

		switch {
		case err == nil:
			if existing == delta {
				return ErrDuplicateVote
			}

			// Direction change: undo the old vote and apply the new
			// one, a swing of twice the delta.
			if err := tx.SetVote(ctx, ideaID, authorID, delta); err != nil {
				return err
			}

			total, err = tx.AddVotes(ctx, ideaID, 2*delta)

			return err
		case errors.Is(err, ErrVoteNotFound):
			if err := tx.SetVote(ctx, ideaID, authorID, delta); err != nil {
				return err
			}

			total, err = tx.AddVotes(ctx, ideaID, delta)

			return err
		default:
			return err
		}
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}
