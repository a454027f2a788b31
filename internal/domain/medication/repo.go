package medication

import "context"

// Repository persists medications, intake schedules and adherence records.
type Repository interface {
	CreateMedication(ctx context.Context, m *Medication) error
	ListByPatient(ctx context.Context, patientID int64) ([]*Medication, error)

	CreateSchedule(ctx context.Context, s *Schedule) error
	GetSchedule(ctx context.Context, id int64) (*Schedule, error)
	ListSchedules(ctx context.Context, medicationID int64) ([]*Schedule, error)

	CreateAdherence(ctx context.Context, a *Adherence) error
	ListAdherence(ctx context.Context, scheduleID int64) ([]*Adherence, error)
}
