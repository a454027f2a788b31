package careplan

import (
	"context"
	"strings"

	"github.com/spito/spito/internal/platform/apperror"
)

var validStatuses = map[string]bool{
	StatusActive:    true,
	StatusCompleted: true,
	StatusCancelled: true,
}

type Service struct {
	plans Repository
}

func NewService(plans Repository) *Service {
	return &Service{plans: plans}
}

func validate(p *CarePlan) error {
	if p.PatientID <= 0 {
		return apperror.NewValidation("patient_id", "patient is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return apperror.NewValidation("title", "title is required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *CarePlan) error {
	if err := validate(p); err != nil {
		return err
	}
	p.Status = StatusActive
	return s.plans.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*CarePlan, error) {
	return s.plans.GetByID(ctx, id)
}

// Update edits a plan's content and status. Completed and cancelled plans
// are closed and cannot be edited further.
func (s *Service) Update(ctx context.Context, p *CarePlan) error {
	if err := validate(p); err != nil {
		return err
	}
	if !validStatuses[p.Status] {
		return apperror.NewValidation("status", "unknown status")
	}
	current, err := s.plans.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if current.Status != StatusActive {
		return apperror.NewConflict("care plan is " + current.Status)
	}
	p.PatientID = current.PatientID
	return s.plans.Update(ctx, p)
}

func (s *Service) List(ctx context.Context, patientID int64, status string, limit, offset int) ([]*CarePlan, int, error) {
	if status != "" && !validStatuses[status] {
		return nil, 0, apperror.NewValidation("status", "unknown status")
	}
	return s.plans.List(ctx, patientID, status, limit, offset)
}

// AddProgress records a progress note against an active plan.
func (s *Service) AddProgress(ctx context.Context, p *Progress) error {
	if strings.TrimSpace(p.Notes) == "" {
		return apperror.NewValidation("notes", "notes are required")
	}
	plan, err := s.plans.GetByID(ctx, p.CarePlanID)
	if err != nil {
		return err
	}
	if plan.Status != StatusActive {
		return apperror.NewConflict("care plan is " + plan.Status)
	}
	if len(p.Metrics) == 0 {
		p.Metrics = []byte(`{}`)
	}
	return s.plans.CreateProgress(ctx, p)
}

func (s *Service) Progress(ctx context.Context, carePlanID int64) ([]*Progress, error) {
	if _, err := s.plans.GetByID(ctx, carePlanID); err != nil {
		return nil, err
	}
	return s.plans.ListProgress(ctx, carePlanID)
}
