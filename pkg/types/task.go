// Package types defines the task entity and the closed enumerations shared by
// the API, domain and storage layers.
package types

import "time"

// Status represents the task lifecycle state
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// AllStatuses lists every valid status value, in lifecycle order.
func AllStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// Valid reports whether the status is part of the closed set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// SortKey represents a sortable task column
type SortKey string

const (
	SortByCreationDate SortKey = "creation_date"
	SortByDueDate      SortKey = "due_date"
)

// Valid reports whether the sort key names a sortable column.
func (k SortKey) Valid() bool {
	switch k {
	case SortByCreationDate, SortByDueDate:
		return true
	default:
		return false
	}
}

// TaskInput is the client-writable portion of a task.
type TaskInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CreationDate Date   `json:"creation_date"`
	DueDate      *Date  `json:"due_date,omitempty"`
	Status       Status `json:"status"`
}

// Task is the persisted task entity. CompletedTS is derived by the update
// path when a status transition into completed is detected; it is never
// accepted as client input.
type Task struct {
	ID int64 `json:"id"`
	TaskInput
	CompletedTS *time.Time `json:"completed_ts,omitempty"`
}

// SmartTask is a task annotated with the titles of similar existing tasks,
// computed once at creation time and not persisted. Suggestions is null when
// the corpus was empty at creation.
type SmartTask struct {
	Task
	Suggestions []string `json:"suggestions"`
}
