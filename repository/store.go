package repository

import "context"

// Tx exposes repositories bound to a single transaction.
type Tx interface {
	Users() UserRepository
	Tasks() TaskRepository
}

// Store is the relational store. WithinTx commits when fn returns nil and
// rolls back on error or panic.
type Store interface {
	Tx
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}
