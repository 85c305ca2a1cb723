package domain

import "time"

// Task represents a user-owned todo item.
//
// CompletedAt is set if and only if Completed is true.
type Task struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Content     string    `json:"content"`
	Completed   bool      `json:"completed"`
	CompletedAt *Date     `json:"completed_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Completed
}

// Expired reports whether the task is due for purging: completed on a calendar
// day strictly before today.
func (t *Task) Expired(today Date) bool {
	if !t.IsCompleted() || t.CompletedAt == nil {
		return false
	}
	return t.CompletedAt.Before(today)
}

// TaskList is a user's purged task set together with its completion progress.
type TaskList struct {
	Tasks           []Task `json:"tasks"`
	PercentComplete int    `json:"percent_complete"`
}
