package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/internal/metrics"
	"github.com/fastygo/tasktracker/pkg/logger"
	"github.com/fastygo/tasktracker/repository"
)

// Clock returns the current time. "Today" is its calendar day in its location.
type Clock func() time.Time

type Option func(*UseCase)

// WithClock overrides time.Now, mainly so tests can move across midnight.
func WithClock(clock Clock) Option {
	return func(uc *UseCase) {
		if clock != nil {
			uc.clock = clock
		}
	}
}

// UseCase owns the task lifecycle of a single user at a time: every call is
// scoped to the owner id passed in, and every mutation runs in one transaction.
type UseCase struct {
	store  repository.Store
	clock  Clock
	logger *zap.Logger
}

func New(store repository.Store, log *zap.Logger, opts ...Option) *UseCase {
	if log == nil {
		log = zap.NewNop()
	}
	uc := &UseCase{
		store:  store,
		clock:  time.Now,
		logger: log,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *UseCase) today() domain.Date {
	return domain.DateOf(uc.clock())
}

// ListTasks purges the owner's expired completed tasks and returns what is
// left, open tasks first and newest first within each group.
func (uc *UseCase) ListTasks(ctx context.Context, userID int64) ([]domain.Task, error) {
	today := uc.today()

	var tasks []domain.Task
	err := uc.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		purged, err := tx.Tasks().PurgeCompleted(ctx, userID, today)
		if err != nil {
			return err
		}
		if purged > 0 {
			metrics.TasksPurged.Add(float64(purged))
			logger.WithRequestID(ctx, uc.logger).Debug("purged completed tasks",
				zap.Int64("user_id", userID),
				zap.Int64("count", purged),
				zap.String("before", today.String()))
		}

		tasks, err = tx.Tasks().ListByOwner(ctx, userID)
		return err
	})
	if err != nil {
		return nil, uc.storageError(ctx, "list tasks", err)
	}
	return tasks, nil
}

// Overview returns the listing together with its completion percentage.
func (uc *UseCase) Overview(ctx context.Context, userID int64) (*domain.TaskList, error) {
	tasks, err := uc.ListTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.TaskList{
		Tasks:           tasks,
		PercentComplete: domain.ComputeProgress(tasks),
	}, nil
}

func (uc *UseCase) AddTask(ctx context.Context, userID int64, content string) (*domain.Task, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyContent
	}

	var created *domain.Task
	err := uc.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		created, err = tx.Tasks().Create(ctx, &domain.Task{OwnerID: userID, Content: content})
		return err
	})
	if err != nil {
		return nil, uc.storageError(ctx, "add task", err)
	}
	metrics.TaskTransitions.WithLabelValues("added").Inc()
	return created, nil
}

// CompleteTask stamps the task with today's date. Completing an already
// completed task re-stamps it and still succeeds.
func (uc *UseCase) CompleteTask(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	today := uc.today()

	var completed *domain.Task
	err := uc.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		completed, err = tx.Tasks().Complete(ctx, userID, taskID, today)
		return err
	})
	if err != nil {
		return nil, uc.storageError(ctx, "complete task", err)
	}
	metrics.TaskTransitions.WithLabelValues("completed").Inc()
	return completed, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, userID, taskID int64) error {
	err := uc.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.Tasks().Delete(ctx, userID, taskID)
	})
	if err != nil {
		return uc.storageError(ctx, "delete task", err)
	}
	metrics.TaskTransitions.WithLabelValues("deleted").Inc()
	return nil
}

// storageError keeps expected domain outcomes and classifies everything else
// as a storage failure.
func (uc *UseCase) storageError(ctx context.Context, op string, err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	logger.WithRequestID(ctx, uc.logger).Error("task store failure", zap.String("operation", op), zap.Error(err))
	return domain.StorageError(err)
}
