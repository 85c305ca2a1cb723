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

const taskColumns = `id, owner_id, content, completed, to_char(completed_at, 'YYYY-MM-DD'), created_at`

type taskRepository struct {
	db dbx.DBTX
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(db dbx.DBTX) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE owner_id = $1
	ORDER BY completed ASC, id DESC
	`
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

	const query = `
	INSERT INTO tasks (owner_id, content)
	VALUES ($1, $2)
	RETURNING id, created_at
	`
	if err := r.db.QueryRowContext(ctx, query, task.OwnerID, task.Content).
		Scan(&task.ID, &task.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	task.Completed = false
	task.CompletedAt = nil
	return task, nil
}

func (r *taskRepository) Complete(ctx context.Context, ownerID, id int64, on domain.Date) (*domain.Task, error) {
	const query = `
	UPDATE tasks
	SET completed = TRUE,
		completed_at = $3::date
	WHERE id = $1 AND owner_id = $2
	RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, query, id, ownerID, on.String()))
}

func (r *taskRepository) Delete(ctx context.Context, ownerID, id int64) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
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

func (r *taskRepository) PurgeCompleted(ctx context.Context, ownerID int64, before domain.Date) (int64, error) {
	const query = `
	DELETE FROM tasks
	WHERE owner_id = $1
	  AND completed
	  AND completed_at < $2::date
	`
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
	)
	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Content,
		&task.Completed,
		&completedAt,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	task.CompletedAt = nullDate(completedAt)
	return &task, nil
}
