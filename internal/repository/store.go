package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// queries bundles the per-table repos; their methods are promoted so the
// struct satisfies Queries.
type queries struct {
	*RoomRepo
	*UserRepo
	*HoleRepo
	*ScoreRepo
}

func newQueries(db DBTX) queries {
	return queries{
		RoomRepo:  NewRoomRepo(db),
		UserRepo:  NewUserRepo(db),
		HoleRepo:  NewHoleRepo(db),
		ScoreRepo: NewScoreRepo(db),
	}
}

// SQLStore implements Store on a MySQL connection pool.
type SQLStore struct {
	queries
	db *sql.DB
}

// NewSQLStore wraps db.  db must not be nil.
func NewSQLStore(db *sql.DB) *SQLStore {
	if db == nil {
		panic("nil db passed to NewSQLStore")
	}
	return &SQLStore{queries: newQueries(db), db: db}
}

// DB exposes the underlying pool, e.g. for health checks.
func (s *SQLStore) DB() *sql.DB { return s.db }

// WithTx runs fn in a single transaction.  The transaction is committed only
// when fn returns nil; any error (or panic) rolls it back.
func (s *SQLStore) WithTx(ctx context.Context, fn func(q Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(newQueries(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
