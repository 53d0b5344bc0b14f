package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naturl/naturl/internal/ideas"
)

// IdeasPostgresStore is the PostgreSQL implementation of ideas.Store.
type IdeasPostgresStore struct {
	db   querier
	pool *pgxpool.Pool
}

// NewIdeasPostgresStore creates a PostgreSQL-backed idea store.
func NewIdeasPostgresStore(pool *pgxpool.Pool) *IdeasPostgresStore {
	return &IdeasPostgresStore{db: pool, pool: pool}
}

func (p *IdeasPostgresStore) List(ctx context.Context) ([]ideas.Idea, error) {
	query := `
		SELECT id, content, author_id, votes, created_at
		FROM ideas
		ORDER BY created_at DESC
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ideas.Idea

	for rows.Next() {
		var idea ideas.Idea
		if err := rows.Scan(&idea.ID, &idea.Content, &idea.AuthorID, &idea.Votes, &idea.CreatedAt); err != nil {
			return nil, err
		}

		result = append(result, idea)
	}

	return result, rows.Err()
}

func (p *IdeasPostgresStore) Insert(ctx context.Context, idea *ideas.Idea) error {
	query := `
		INSERT INTO ideas (content, author_id, votes, created_at)
		VALUES ($1, $2, 0, $3)
		RETURNING id
	`

	return p.db.QueryRow(ctx, query, idea.Content, idea.AuthorID, idea.CreatedAt).Scan(&idea.ID)
}

func (p *IdeasPostgresStore) Get(ctx context.Context, id int64) (*ideas.Idea, error) {
	query := `
		SELECT id, content, author_id, votes, created_at
		FROM ideas
		WHERE id = $1
	`

	var idea ideas.Idea

	err := p.db.QueryRow(ctx, query, id).Scan(&idea.ID, &idea.Content, &idea.AuthorID, &idea.Votes, &idea.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ideas.ErrIdeaNotFound
		}

		return nil, err
	}

	return &idea, nil
}

func (p *IdeasPostgresStore) GetVote(ctx context.Context, ideaID int64, authorID string) (int, error) {
	var delta int

	err := p.db.QueryRow(ctx,
		`SELECT vote FROM idea_votes WHERE idea_id = $1 AND author_id = $2`,
		ideaID, authorID,
	).Scan(&delta)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ideas.ErrVoteNotFound
		}

		return 0, err
	}

	return delta, nil
}

func (p *IdeasPostgresStore) SetVote(ctx context.Context, ideaID int64, authorID string, delta int) error {
	query := `
		INSERT INTO idea_votes (idea_id, author_id, vote)
		VALUES ($1, $2, $3)
		ON CONFLICT (idea_id, author_id) DO UPDATE SET vote = EXCLUDED.vote
	`

	_, err := p.db.Exec(ctx, query, ideaID, authorID, delta)

	return err
}

func (p *IdeasPostgresStore) AddVotes(ctx context.Context, ideaID int64, delta int) (int, error) {
	var total int

	err := p.db.QueryRow(ctx,
		`UPDATE ideas SET votes = votes + $1 WHERE id = $2 RETURNING votes`,
		delta, ideaID,
	).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ideas.ErrIdeaNotFound
		}

		return 0, err
	}

	return total, nil
}

func (p *IdeasPostgresStore) InTx(ctx context.Context, fn func(ideas.Store) error) error {
	if p.pool == nil {
		return fn(p)
	}

	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return fn(&IdeasPostgresStore{db: tx})
	})
}

var _ ideas.Store = (*IdeasPostgresStore)(nil)
