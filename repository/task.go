package repository

import (
	"context"

	"github.com/shahzaib1233/todo-app-phase-2/domain"
)

// TaskStatus filters tasks by completion.
type TaskStatus string

const (
	StatusAny       TaskStatus = ""
	StatusCompleted TaskStatus = "completed"
	StatusPending   TaskStatus = "pending"
)

// ParseTaskStatus maps a query value onto a status filter. Unknown values
// disable filtering.
func ParseTaskStatus(value string) TaskStatus {
	switch TaskStatus(value) {
	case StatusCompleted, StatusPending:
		return TaskStatus(value)
	default:
		return StatusAny
	}
}

// Completed returns the completed flag the status selects, or nil for StatusAny.
func (s TaskStatus) Completed() *bool {
	var v bool
	switch s {
	case StatusCompleted:
		v = true
	case StatusPending:
		v = false
	default:
		return nil
	}
	return &v
}

// TaskSort orders task listings.
type TaskSort string

const (
	SortCreatedAsc  TaskSort = "created_asc"
	SortCreatedDesc TaskSort = "created_desc"
	SortUpdatedAsc  TaskSort = "updated_asc"
	SortUpdatedDesc TaskSort = "updated_desc"
)

// ParseTaskSort maps a query value onto a sort order, defaulting to newest first.
func ParseTaskSort(value string) TaskSort {
	switch TaskSort(value) {
	case SortCreatedAsc, SortCreatedDesc, SortUpdatedAsc, SortUpdatedDesc:
		return TaskSort(value)
	default:
		return SortCreatedDesc
	}
}

// Column returns the timestamp column the sort applies to.
func (s TaskSort) Column() string {
	switch s {
	case SortUpdatedAsc, SortUpdatedDesc:
		return "updated_at"
	default:
		return "created_at"
	}
}

// Descending reports whether newest rows come first.
func (s TaskSort) Descending() bool {
	return s != SortCreatedAsc && s != SortUpdatedAsc
}

type TaskFilter struct {
	UserID string
	Status TaskStatus
	Sort   TaskSort
}

// TaskRepository stores tasks. Every lookup is scoped by owner, so a task
// owned by someone else is reported as domain.ErrTaskNotFound.
type TaskRepository interface {
	GetByID(ctx context.Context, userID string, id int64) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, userID string, id int64) error
}
