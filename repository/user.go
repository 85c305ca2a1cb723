package repository

import (
	"context"

	"github.com/fastygo/tasktracker/domain"
)

type UserRepository interface {
	// Create inserts the user and fills ID and CreatedAt. A taken username
	// yields domain.ErrDuplicateUsername.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
