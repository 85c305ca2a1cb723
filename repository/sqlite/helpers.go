package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/fastygo/tasktracker/domain"
)

func isUniqueViolation(err error) bool {
	var sErr *sqlite.Error
	return errors.As(err, &sErr) && sErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func nullDate(s sql.NullString) *domain.Date {
	if !s.Valid {
		return nil
	}
	d := domain.Date(s.String)
	return &d
}

// parseTimestamp reads the RFC 3339 text written by the schema defaults.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
