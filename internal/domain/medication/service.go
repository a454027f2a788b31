package medication

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spito/spito/internal/domain/scheduling"
	"github.com/spito/spito/internal/platform/apperror"
	"github.com/spito/spito/internal/platform/db"
)

var validAdherenceStatuses = map[string]bool{
	AdherenceTaken:   true,
	AdherenceMissed:  true,
	AdherenceDelayed: true,
	AdherenceSkipped: true,
}

type Service struct {
	pool *pgxpool.Pool
	repo Repository
}

func NewService(pool *pgxpool.Pool, repo Repository) *Service {
	return &Service{pool: pool, repo: repo}
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.pool == nil {
		return fn(ctx)
	}
	return db.WithTx(ctx, s.pool, fn)
}

// Prescribe creates a medication and its intake schedule atomically.
func (s *Service) Prescribe(ctx context.Context, patientID int64, req *CreateMedicationRequest) (*MedicationWithSchedules, error) {
	if patientID <= 0 {
		return nil, apperror.NewValidation("patient_id", "patient is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.NewValidation("name", "name is required")
	}
	if strings.TrimSpace(req.Dosage) == "" {
		return nil, apperror.NewValidation("dosage", "dosage is required")
	}
	for _, sched := range req.Schedules {
		if !scheduling.ValidClock(sched.TimeOfDay) {
			return nil, apperror.NewValidation("time_of_day", "time must be HH:MM")
		}
		if strings.TrimSpace(sched.Frequency) == "" {
			return nil, apperror.NewValidation("frequency", "frequency is required")
		}
	}

	med := &Medication{
		PatientID:    patientID,
		Name:         strings.TrimSpace(req.Name),
		Dosage:       strings.TrimSpace(req.Dosage),
		Instructions: req.Instructions,
	}
	out := &MedicationWithSchedules{Schedules: []*Schedule{}}

	err := s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateMedication(ctx, med); err != nil {
			return err
		}
		for _, sched := range req.Schedules {
			sc := &Schedule{MedicationID: med.ID, TimeOfDay: sched.TimeOfDay, Frequency: sched.Frequency}
			if err := s.repo.CreateSchedule(ctx, sc); err != nil {
				return err
			}
			out.Schedules = append(out.Schedules, sc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Medication = *med
	return out, nil
}

// ForPatient lists a patient's medications with their intake schedules.
func (s *Service) ForPatient(ctx context.Context, patientID int64) ([]*MedicationWithSchedules, error) {
	meds, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	out := []*MedicationWithSchedules{}
	for _, m := range meds {
		schedules, err := s.repo.ListSchedules(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if schedules == nil {
			schedules = []*Schedule{}
		}
		out = append(out, &MedicationWithSchedules{Medication: *m, Schedules: schedules})
	}
	return out, nil
}

// RecordAdherence stores whether a scheduled intake happened.
func (s *Service) RecordAdherence(ctx context.Context, a *Adherence) error {
	if a.ScheduleID <= 0 {
		return apperror.NewValidation("schedule_id", "schedule is required")
	}
	if !validAdherenceStatuses[a.Status] {
		return apperror.NewValidation("status", "unknown adherence status")
	}
	if _, err := s.repo.GetSchedule(ctx, a.ScheduleID); err != nil {
		return err
	}
	return s.repo.CreateAdherence(ctx, a)
}

func (s *Service) AdherenceHistory(ctx context.Context, scheduleID int64) ([]*Adherence, error) {
	if scheduleID <= 0 {
		return nil, apperror.NewValidation("schedule_id", "schedule is required")
	}
	if _, err := s.repo.GetSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	return s.repo.ListAdherence(ctx, scheduleID)
}
