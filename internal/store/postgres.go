package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naturl/naturl/internal/shortener"
)

const uniqueViolation = "23505"

// Constraint names from migrations/001_init.sql. The dedup index is the
// race-safety backstop for concurrent non-custom allocations of the
// same URL.
const (
	linksPKConstraint    = "links_pkey"
	linksDedupConstraint = "links_dedup_idx"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore is the PostgreSQL implementation of shortener.Store.
type PostgresStore struct {
	db   querier
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed mapping store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool, pool: pool}
}

func (p *PostgresStore) FindByURL(ctx context.Context, url string) (*shortener.Link, error) {
	query := `
		SELECT code, original_url, is_custom, created_at
		FROM links
		WHERE original_url = $1 AND NOT is_custom
	`

	return p.scanLink(p.db.QueryRow(ctx, query, url))
}

func (p *PostgresStore) FindByCode(ctx context.Context, code shortener.Code) (*shortener.Link, error) {
	query := `
		SELECT code, original_url, is_custom, created_at
		FROM links
		WHERE code = $1
	`

	return p.scanLink(p.db.QueryRow(ctx, query, string(code)))
}

func (p *PostgresStore) Insert(ctx context.Context, link *shortener.Link) error {
	query := `
		INSERT INTO links (code, original_url, is_custom, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.db.Exec(ctx, query,
		string(link.Code),
		link.OriginalURL,
		link.IsCustom,
		link.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == linksDedupConstraint {
				return shortener.ErrURLTaken
			}

			return shortener.ErrCodeTaken
		}

		return err
	}

	return nil
}

func (p *PostgresStore) CountLinks(ctx context.Context) (int64, error) {
	var count int64

	err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM links`).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (p *PostgresStore) AllCodes(ctx context.Context, fn func(shortener.Code) error) error {
	rows, err := p.db.Query(ctx, `SELECT code FROM links`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return err
		}

		if err := fn(shortener.Code(code)); err != nil {
			return err
		}
	}

	return rows.Err()
}

// InTx runs fn in one database transaction, rolling back on any error.
// A store already bound to a transaction runs fn directly so nested
// calls compose.
func (p *PostgresStore) InTx(ctx context.Context, fn func(shortener.Store) error) error {
	if p.pool == nil {
		return fn(p)
	}

	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return fn(&PostgresStore{db: tx})
	})
}

func (p *PostgresStore) scanLink(row pgx.Row) (*shortener.Link, error) {
	var link shortener.Link

	err := row.Scan(&link.Code, &link.OriginalURL, &link.IsCustom, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}

var _ shortener.Store = (*PostgresStore)(nil)
