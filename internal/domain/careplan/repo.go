package careplan

import "context"

// Repository persists care plans and their progress notes.
type Repository interface {
	Create(ctx context.Context, p *CarePlan) error
	GetByID(ctx context.Context, id int64) (*CarePlan, error)
	Update(ctx context.Context, p *CarePlan) error
	List(ctx context.Context, patientID int64, status string, limit, offset int) ([]*CarePlan, int, error)

	CreateProgress(ctx context.Context, p *Progress) error
	ListProgress(ctx context.Context, carePlanID int64) ([]*Progress, error)
}
