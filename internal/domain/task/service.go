package task

import (
	"context"
	"strings"

	"github.com/spito/spito/internal/platform/apperror"
)

var validStatuses = map[string]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

var validPriorities = map[string]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

type Service struct {
	tasks Repository
}

func NewService(tasks Repository) *Service {
	return &Service{tasks: tasks}
}

func validate(t *Task) error {
	if t.CarePlanID <= 0 {
		return apperror.NewValidation("care_plan_id", "care plan is required")
	}
	if t.AssignedToID <= 0 {
		return apperror.NewValidation("assigned_to_id", "assignee is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return apperror.NewValidation("title", "title is required")
	}
	if t.DueDate.IsZero() {
		return apperror.NewValidation("due_date", "due date is required")
	}
	if t.Priority != "" && !validPriorities[t.Priority] {
		return apperror.NewValidation("priority", "unknown priority")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, t *Task) error {
	if err := validate(t); err != nil {
		return err
	}
	t.Status = StatusPending
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return s.tasks.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id int64) (*Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Task, int, error) {
	if f.Status != "" && !validStatuses[f.Status] {
		return nil, 0, apperror.NewValidation("status", "unknown status")
	}
	return s.tasks.List(ctx, f, limit, offset)
}

// UpdateStatus moves a task along pending -> in_progress -> completed.
// Completed tasks stay completed.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Task, error) {
	if !validStatuses[status] {
		return nil, apperror.NewValidation("status", "unknown status")
	}
	current, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusCompleted {
		return nil, apperror.NewConflict("task is already completed")
	}
	if current.Status == status {
		return nil, apperror.NewValidation("status", "task is already "+status)
	}
	return s.tasks.UpdateStatus(ctx, id, status)
}
