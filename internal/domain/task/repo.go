package task

import "context"

// Repository persists tasks.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id int64) (*Task, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Task, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Task, int, error)
}

// ListFilter narrows a task listing. Zero values mean no filtering.
type ListFilter struct {
	CarePlanID   int64
	AssignedToID int64
	Status       string
}
