package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

var taskRowColumns = []string{"id", "owner_id", "content", "completed", "completed_at", "created_at"}

const (
	listTasksQuery    = `(?s)SELECT\s+id,.*FROM\s+tasks\s+WHERE\s+owner_id\s*=\s*\$1\s+ORDER\s+BY\s+completed\s+ASC,\s*id\s+DESC`
	insertTaskQuery   = `(?s)INSERT\s+INTO\s+tasks\s*\(owner_id,\s*content\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,\s*created_at`
	completeTaskQuery = `(?s)UPDATE\s+tasks\s+SET\s+completed\s*=\s*TRUE,\s*completed_at\s*=\s*\$3::date\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2\s+RETURNING`
	deleteTaskQuery   = `(?s)DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2`
	purgeTasksQuery   = `(?s)DELETE\s+FROM\s+tasks\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+completed\s+AND\s+completed_at\s*<\s*\$2::date`
)

func TestTaskList_ScansRows(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)
	now := time.Now()

	mock.ExpectQuery(listTasksQuery).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(int64(3), int64(1), "t3", false, nil, now).
			AddRow(int64(2), int64(1), "t2", true, "2024-05-17", now))

	tasks, err := repo.ListByOwner(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("want 2 tasks, got %d", len(tasks))
	}
	if tasks[0].CompletedAt != nil {
		t.Fatalf("open task must have no completion date: %+v", tasks[0])
	}
	if tasks[1].CompletedAt == nil || *tasks[1].CompletedAt != "2024-05-17" {
		t.Fatalf("unexpected completion date: %+v", tasks[1])
	}
}

func TestTaskList_EmptyIsNotNil(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(listTasksQuery).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows(taskRowColumns))

	tasks, err := repo.ListByOwner(context.Background(), 1)
	if err != nil || tasks == nil || len(tasks) != 0 {
		t.Fatalf("want empty non-nil slice, got %v, %v", tasks, err)
	}
}

func TestTaskCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(insertTaskQuery).
		WithArgs(int64(1), "buy milk").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), time.Now()))

	task, err := repo.Create(context.Background(), &domain.Task{OwnerID: 1, Content: "buy milk"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if task.ID != 5 || task.Completed || task.CompletedAt != nil {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestTaskComplete_NotOwned(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(completeTaskQuery).
		WithArgs(int64(5), int64(2), "2024-05-17").
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	_, err := repo.Complete(context.Background(), 2, 5, "2024-05-17")
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("want ErrTaskNotFound, got %v", err)
	}
}

func TestTaskComplete_Success(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(completeTaskQuery).
		WithArgs(int64(5), int64(1), "2024-05-17").
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(int64(5), int64(1), "buy milk", true, "2024-05-17", time.Now()))

	task, err := repo.Complete(context.Background(), 1, 5, "2024-05-17")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if !task.Completed || task.CompletedAt == nil {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestTaskDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(deleteTaskQuery).WithArgs(int64(5), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteTaskQuery).WithArgs(int64(5), int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 1, 5); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := repo.Delete(context.Background(), 2, 5); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("want ErrTaskNotFound, got %v", err)
	}
}

func TestTaskPurge(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(purgeTasksQuery).WithArgs(int64(1), "2024-05-17").WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.PurgeCompleted(context.Background(), 1, "2024-05-17")
	if err != nil || n != 3 {
		t.Fatalf("want 3 purged, got %d, %v", n, err)
	}
}

func TestStore_WithinTxCommitsAndRollsBack(t *testing.T) {
	db, mock := newMock(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(purgeTasksQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		_, err := tx.Tasks().PurgeCompleted(ctx, 1, "2024-05-17")
		return err
	})
	if err != nil {
		t.Fatalf("WithinTx error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = store.WithinTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
