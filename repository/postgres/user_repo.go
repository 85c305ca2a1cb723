package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/internal/dbx"
	"github.com/fastygo/tasktracker/repository"
)

type userRepository struct {
	db dbx.DBTX
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(db dbx.DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (username, credential_hash)
	VALUES ($1, $2)
	RETURNING id, created_at
	`
	if err := r.db.QueryRowContext(ctx, query, user.Username, user.CredentialHash).
		Scan(&user.ID, &user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
	SELECT id, username, credential_hash, created_at
	FROM users
	WHERE username = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
	SELECT id, username, credential_hash, created_at
	FROM users
	WHERE id = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.Username, &user.CredentialHash, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &user, nil
}
