package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastygo/tasktracker/domain"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullDate(s sql.NullString) *domain.Date {
	if !s.Valid {
		return nil
	}
	d := domain.Date(s.String)
	return &d
}
