// Package sqlite implements the relational store on an embedded SQLite file
// through the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/fastygo/tasktracker/internal/dbx"
	"github.com/fastygo/tasktracker/repository"
)

// Store vends SQLite repositories bound either to the database or to a transaction.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() repository.UserRepository {
	return NewUserRepository(s.db)
}

func (s *Store) Tasks() repository.TaskRepository {
	return NewTaskRepository(s.db)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, txRepos{tx: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

type txRepos struct {
	tx dbx.DBTX
}

func (t txRepos) Users() repository.UserRepository { return NewUserRepository(t.tx) }
func (t txRepos) Tasks() repository.TaskRepository { return NewTaskRepository(t.tx) }

var _ repository.Store = (*Store)(nil)
