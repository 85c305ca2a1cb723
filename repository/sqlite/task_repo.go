package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/internal/dbx"
	"github.com/fastygo/tasktracker/repository"
)

const taskColumns = `id, owner_id, content, completed, completed_at, created_at`

type taskRepository struct {
	db dbx.DBTX
}

// NewTaskRepository returns a SQLite-backed implementation of TaskRepository.
func NewTaskRepository(db dbx.DBTX) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ? ORDER BY completed ASC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `INSERT INTO tasks (owner_id, content) VALUES (?, ?) RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, query, task.OwnerID, task.Content))
}

func (r *taskRepository) Complete(ctx context.Context, ownerID, id int64, on domain.Date) (*domain.Task, error) {
	const query = `
	UPDATE tasks
	SET completed = 1, completed_at = ?
	WHERE id = ? AND owner_id = ?
	RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, query, on.String(), id, ownerID))
}

func (r *taskRepository) Delete(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// PurgeCompleted relies on YYYY-MM-DD text ordering matching date ordering.
func (r *taskRepository) PurgeCompleted(ctx context.Context, ownerID int64, before domain.Date) (int64, error) {
	const query = `DELETE FROM tasks WHERE owner_id = ? AND completed = 1 AND completed_at < ?`
	res, err := r.db.ExecContext(ctx, query, ownerID, before.String())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func scanTask(row interface {
	Scan(dest ...any) error
}) (*domain.Task, error) {
	var (
		task        domain.Task
		completedAt sql.NullString
		createdAt   string
	)
	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Content,
		&task.Completed,
		&completedAt,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	ts, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	task.CreatedAt = ts
	task.CompletedAt = nullDate(completedAt)
	return &task, nil
}
