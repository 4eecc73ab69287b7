package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ignaciociccioli3-cmd/Backend1/internal/store"
)

const (
	ensureCollectionSQL = `INSERT INTO collections (name, body) VALUES ($1, '[]'::jsonb)
		ON CONFLICT (name) DO NOTHING`

	loadCollectionSQL = `SELECT body::text FROM collections WHERE name = $1`

	saveCollectionSQL = `INSERT INTO collections (name, body, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`
)

var _ store.Collection[struct{}] = (*Collection[struct{}])(nil)

// Collection keeps a whole collection in one JSONB row. It follows the
// same rules as store.File: a missing row is created holding an empty
// array, and a body that is not an array reads as empty.
type Collection[T any] struct {
	pool *pgxpool.Pool
	name string
}

// NewCollection returns the collection stored under name.
func NewCollection[T any](pool *pgxpool.Pool, name string) *Collection[T] {
	return &Collection[T]{pool: pool, name: name}
}

// Load implements store.Collection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	if _, err := c.pool.Exec(ctx, ensureCollectionSQL, c.name); err != nil {
		return nil, &store.StorageError{Op: "init", Path: c.source(), Err: err}
	}

	var body string
	if err := c.pool.QueryRow(ctx, loadCollectionSQL, c.name).Scan(&body); err != nil {
		return nil, &store.StorageError{Op: "read", Path: c.source(), Err: err}
	}
	return store.Decode[T]([]byte(body), c.source())
}

// Save implements store.Collection.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	data, err := store.Encode(records)
	if err != nil {
		return &store.StorageError{Op: "encode", Path: c.source(), Err: err}
	}
	if _, err := c.pool.Exec(ctx, saveCollectionSQL, c.name, string(data)); err != nil {
		return &store.StorageError{Op: "write", Path: c.source(), Err: err}
	}
	return nil
}

func (c *Collection[T]) source() string {
	return "postgres:collections/" + c.name
}
