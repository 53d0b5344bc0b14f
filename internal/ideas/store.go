package ideas

import "context"

// Store is the durable idea board state.
type Store interface {
	List(ctx context.Context) ([]Idea, error)
	Insert(ctx context.Context, idea *Idea) error
	Get(ctx context.Context, id int64) (*Idea, error)

	// GetVote returns the delta of an author's existing vote on an
	// idea, or ErrVoteNotFound.
	GetVote(ctx context.Context, ideaID int64, authorID string) (int, error)

	// SetVote inserts or replaces an author's vote on an idea.
	SetVote(ctx context.Context, ideaID int64, authorID string, delta int) error

	// AddVotes adjusts an idea's vote total by delta and returns the
	// new total.
	AddVotes(ctx context.Context, ideaID int64, delta int) (int, error)

	// InTx runs fn against a transactional view of the store.
	InTx(ctx context.Context, fn func(Store) error) error
}
