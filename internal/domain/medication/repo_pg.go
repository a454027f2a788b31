package medication

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spito/spito/internal/platform/apperror"
	"github.com/spito/spito/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *PgRepository) CreateMedication(ctx context.Context, m *Medication) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medications (patient_id, name, dosage, instructions)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		m.PatientID, m.Name, m.Dosage, m.Instructions,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return apperror.NewStore("create medication", err)
	}
	return nil
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID int64) ([]*Medication, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, name, dosage, instructions, created_at, updated_at
		FROM medications WHERE patient_id = $1
		ORDER BY name ASC`, patientID)
	if err != nil {
		return nil, apperror.NewStore("list medications", err)
	}
	defer rows.Close()

	var meds []*Medication
	for rows.Next() {
		var m Medication
		if err := rows.Scan(&m.ID, &m.PatientID, &m.Name, &m.Dosage, &m.Instructions, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, apperror.NewStore("scan medication", err)
		}
		meds = append(meds, &m)
	}
	return meds, rows.Err()
}

func (r *PgRepository) CreateSchedule(ctx context.Context, s *Schedule) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medication_schedules (medication_id, time_of_day, frequency)
		VALUES ($1, $2, $3)
		RETURNING id`,
		s.MedicationID, s.TimeOfDay, s.Frequency,
	).Scan(&s.ID)
	if err != nil {
		return apperror.NewStore("create medication schedule", err)
	}
	return nil
}

func (r *PgRepository) GetSchedule(ctx context.Context, id int64) (*Schedule, error) {
	var s Schedule
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, medication_id, time_of_day, frequency
		FROM medication_schedules WHERE id = $1`, id,
	).Scan(&s.ID, &s.MedicationID, &s.TimeOfDay, &s.Frequency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("medication schedule", id)
		}
		return nil, apperror.NewStore("get medication schedule", err)
	}
	return &s, nil
}

func (r *PgRepository) ListSchedules(ctx context.Context, medicationID int64) ([]*Schedule, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, medication_id, time_of_day, frequency
		FROM medication_schedules WHERE medication_id = $1
		ORDER BY time_of_day ASC`, medicationID)
	if err != nil {
		return nil, apperror.NewStore("list medication schedules", err)
	}
	defer rows.Close()

	var schedules []*Schedule
	for rows.Next() {
		var s Schedule
		if err := rows.Scan(&s.ID, &s.MedicationID, &s.TimeOfDay, &s.Frequency); err != nil {
			return nil, apperror.NewStore("scan medication schedule", err)
		}
		schedules = append(schedules, &s)
	}
	return schedules, rows.Err()
}

func (r *PgRepository) CreateAdherence(ctx context.Context, a *Adherence) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medication_adherence (schedule_id, status, notes)
		VALUES ($1, $2, $3)
		RETURNING id, recorded_at`,
		a.ScheduleID, a.Status, a.Notes,
	).Scan(&a.ID, &a.RecordedAt)
	if err != nil {
		return apperror.NewStore("create adherence record", err)
	}
	return nil
}

func (r *PgRepository) ListAdherence(ctx context.Context, scheduleID int64) ([]*Adherence, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, schedule_id, status, recorded_at, notes
		FROM medication_adherence WHERE schedule_id = $1
		ORDER BY recorded_at DESC`, scheduleID)
	if err != nil {
		return nil, apperror.NewStore("list adherence records", err)
	}
	defer rows.Close()

	var records []*Adherence
	for rows.Next() {
		var a Adherence
		if err := rows.Scan(&a.ID, &a.ScheduleID, &a.Status, &a.RecordedAt, &a.Notes); err != nil {
			return nil, apperror.NewStore("scan adherence record", err)
		}
		records = append(records, &a)
	}
	return records, rows.Err()
}
