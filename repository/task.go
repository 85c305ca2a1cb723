package repository

import (
	"context"

	"github.com/fastygo/tasktracker/domain"
)

// TaskRepository operations always match on owner and task id jointly, so a
// task owned by someone else is indistinguishable from a missing one.
type TaskRepository interface {
	// ListByOwner returns open tasks first, newest first within each group.
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Complete(ctx context.Context, ownerID, id int64, on domain.Date) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, id int64) error
	// PurgeCompleted removes the owner's tasks completed strictly before the given day.
	PurgeCompleted(ctx context.Context, ownerID int64, before domain.Date) (int64, error)
}
