package scheduling

import (
	"context"
	"errors"
	"fmt"

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

const uniqueViolation = "23505"

// =========== Provider Schedule Repository ===========

type scheduleRepoPG struct{ pool *pgxpool.Pool }

func NewScheduleRepoPG(pool *pgxpool.Pool) ScheduleRepository { return &scheduleRepoPG{pool: pool} }

func (r *scheduleRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const schedCols = `id, provider_id, day_of_week, start_time, end_time, is_available, created_at, updated_at`

func (r *scheduleRepoPG) scanSchedule(row pgx.Row) (*ProviderSchedule, error) {
	var s ProviderSchedule
	err := row.Scan(&s.ID, &s.ProviderID, &s.DayOfWeek, &s.StartTime, &s.EndTime, &s.IsAvailable,
		&s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *scheduleRepoPG) Create(ctx context.Context, s *ProviderSchedule) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO provider_schedules (provider_id, day_of_week, start_time, end_time, is_available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		s.ProviderID, s.DayOfWeek, s.StartTime, s.EndTime, s.IsAvailable).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return apperror.NewStore("create provider schedule", err)
	}
	return nil
}

func (r *scheduleRepoPG) GetByID(ctx context.Context, id int64) (*ProviderSchedule, error) {
	s, err := r.scanSchedule(r.conn(ctx).QueryRow(ctx,
		`SELECT `+schedCols+` FROM provider_schedules WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("provider schedule", id)
	}
	if err != nil {
		return nil, apperror.NewStore("get provider schedule", err)
	}
	return s, nil
}

func (r *scheduleRepoPG) Update(ctx context.Context, s *ProviderSchedule) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE provider_schedules SET day_of_week=$2, start_time=$3, end_time=$4,
			is_available=$5, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.DayOfWeek, s.StartTime, s.EndTime, s.IsAvailable)
	if err != nil {
		return apperror.NewStore("update provider schedule", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("provider schedule", s.ID)
	}
	return nil
}

func (r *scheduleRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM provider_schedules WHERE id = $1`, id)
	if err != nil {
		return apperror.NewStore("delete provider schedule", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("provider schedule", id)
	}
	return nil
}

func (r *scheduleRepoPG) List(ctx context.Context, providerID int64, limit, offset int) ([]*ProviderSchedule, int, error) {
	query := `SELECT ` + schedCols + ` FROM provider_schedules WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM provider_schedules WHERE 1=1`
	var args []interface{}
	idx := 1

	if providerID > 0 {
		query += fmt.Sprintf(` AND provider_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND provider_id = $%d`, idx)
		args = append(args, providerID)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperror.NewStore("count provider schedules", err)
	}

	query += fmt.Sprintf(` ORDER BY provider_id ASC, day_of_week ASC, start_time ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperror.NewStore("list provider schedules", err)
	}
	defer rows.Close()
	var items []*ProviderSchedule
	for rows.Next() {
		s, err := r.scanSchedule(rows)
		if err != nil {
			return nil, 0, apperror.NewStore("scan provider schedule", err)
		}
		items = append(items, s)
	}
	return items, total, nil
}

func (r *scheduleRepoPG) ListAvailable(ctx context.Context, providerID int64, dayOfWeek int) ([]*ProviderSchedule, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+schedCols+` FROM provider_schedules
		WHERE provider_id = $1 AND day_of_week = $2 AND is_available
		ORDER BY start_time ASC`, providerID, dayOfWeek)
	if err != nil {
		return nil, apperror.NewStore("list provider windows", err)
	}
	defer rows.Close()
	var items []*ProviderSchedule
	for rows.Next() {
		s, err := r.scanSchedule(rows)
		if err != nil {
			return nil, apperror.NewStore("scan provider window", err)
		}
		items = append(items, s)
	}
	return items, nil
}

// =========== Appointment Repository ===========

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `id, patient_id, provider_id, scheduled_for, duration_minutes, type, status, symptoms, created_at, updated_at`

func (r *appointmentRepoPG) scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.ProviderID, &a.ScheduledFor, &a.DurationMinutes,
		&a.Type, &a.Status, &a.Symptoms, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (patient_id, provider_id, scheduled_for, duration_minutes, type, status, symptoms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		a.PatientID, a.ProviderID, a.ScheduledFor, a.DurationMinutes, a.Type, a.Status, a.Symptoms).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.NewConflict("slot is already booked")
		}
		return apperror.NewStore("create appointment", err)
	}
	return nil
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	a, err := r.scanAppt(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("appointment", id)
	}
	if err != nil {
		return nil, apperror.NewStore("get appointment", err)
	}
	return a, nil
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id int64, status string) (*Appointment, error) {
	a, err := r.scanAppt(r.conn(ctx).QueryRow(ctx, `
		UPDATE appointments SET status=$2, updated_at=NOW()
		WHERE id = $1
		RETURNING `+apptCols, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("appointment", id)
	}
	if err != nil {
		return nil, apperror.NewStore("update appointment status", err)
	}
	return a, nil
}

func (r *appointmentRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	query := `SELECT ` + apptCols + ` FROM appointments WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM appointments WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["patient_id"]; ok {
		query += fmt.Sprintf(` AND patient_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND patient_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["provider_id"]; ok {
		query += fmt.Sprintf(` AND provider_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND provider_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["status"]; ok {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["date"]; ok {
		query += fmt.Sprintf(` AND scheduled_for::date = $%d::date`, idx)
		countQuery += fmt.Sprintf(` AND scheduled_for::date = $%d::date`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperror.NewStore("count appointments", err)
	}

	query += fmt.Sprintf(` ORDER BY scheduled_for ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperror.NewStore("search appointments", err)
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppt(rows)
		if err != nil {
			return nil, 0, apperror.NewStore("scan appointment", err)
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *appointmentRepoPG) BookedTimes(ctx context.Context, providerID int64, date string) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT to_char(scheduled_for, 'HH24:MI')
		FROM appointments
		WHERE provider_id = $1 AND scheduled_for::date = $2::date AND status = $3
		ORDER BY scheduled_for ASC`, providerID, date, StatusScheduled)
	if err != nil {
		return nil, apperror.NewStore("list booked times", err)
	}
	defer rows.Close()
	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, apperror.NewStore("scan booked time", err)
		}
		times = append(times, t)
	}
	return times, nil
}
