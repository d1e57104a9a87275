// Package store is the typed data-access facade over the mission
// control schema. It exposes owner-scoped accessors for every entity
// in the data model; no caller outside this package issues SQL.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// conn is satisfied by both *pgxpool.Pool and pgx.Tx, letting every
// entity accessor run either standalone or inside a caller-managed
// transaction without duplicating its SQL.
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a thin typed wrapper around a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	db   conn
}

// New creates a Store backed by pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

// Ping checks connectivity to the underlying pool, used by the health
// endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// WithTx runs fn against a Store bound to a single transaction,
// committing on success and rolling back on error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, txStore *Store) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &Store{pool: s.pool, db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
