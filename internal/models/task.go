package models

import "time"

// Task is the wire shape exchanged with the task resource.
// ID and CreatedAt are assigned by the server; client values are ignored on create.
type Task struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
	CreatedAt   *int64 `json:"createdAt,omitempty"` // epoch millis
}

// CreatedAtMillis returns CreatedAt, treating a missing value as 0.
func (t Task) CreatedAtMillis() int64 {
	if t.CreatedAt == nil {
		return 0
	}
	return *t.CreatedAt
}

// TaskListResponse wraps a list of tasks.
type TaskListResponse struct {
	Tasks []Task `json:"tasks"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task Task `json:"task"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Task change event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TaskEvent is the message payload for Kafka, one per successful mutation.
type TaskEvent struct {
	Action     string    `json:"action"`
	TaskID     string    `json:"task_id"`
	Task       *Task     `json:"task,omitempty"` // absent for deletes
	Instance   string    `json:"instance"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Millis converts t to epoch milliseconds.
func Millis(t time.Time) *int64 {
	ms := t.UnixMilli()
	return &ms
}
