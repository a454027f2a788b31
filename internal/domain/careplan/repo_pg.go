package careplan

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

const planColumns = `id, patient_id, title, description, status, created_at, updated_at`

func scanPlan(row pgx.Row) (*CarePlan, error) {
	var p CarePlan
	err := row.Scan(&p.ID, &p.PatientID, &p.Title, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgRepository) Create(ctx context.Context, p *CarePlan) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO care_plans (patient_id, title, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		p.PatientID, p.Title, p.Description, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return apperror.NewStore("create care plan", err)
	}
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, id int64) (*CarePlan, error) {
	p, err := scanPlan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+planColumns+` FROM care_plans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("care plan", id)
		}
		return nil, apperror.NewStore("get care plan", err)
	}
	return p, nil
}

func (r *PgRepository) Update(ctx context.Context, p *CarePlan) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE care_plans
		SET title = $1, description = $2, status = $3, updated_at = now()
		WHERE id = $4`,
		p.Title, p.Description, p.Status, p.ID)
	if err != nil {
		return apperror.NewStore("update care plan", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("care plan", p.ID)
	}
	return nil
}

func (r *PgRepository) List(ctx context.Context, patientID int64, status string, limit, offset int) ([]*CarePlan, int, error) {
	query := `SELECT ` + planColumns + ` FROM care_plans WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM care_plans WHERE 1=1`
	var args []interface{}

	if patientID > 0 {
		args = append(args, patientID)
		cond := fmt.Sprintf(` AND patient_id = $%d`, len(args))
		query += cond
		countQuery += cond
	}
	if status != "" {
		args = append(args, status)
		cond := fmt.Sprintf(` AND status = $%d`, len(args))
		query += cond
		countQuery += cond
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperror.NewStore("count care plans", err)
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperror.NewStore("list care plans", err)
	}
	defer rows.Close()

	var plans []*CarePlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, apperror.NewStore("scan care plan", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewStore("list care plans", err)
	}
	return plans, total, nil
}

func (r *PgRepository) CreateProgress(ctx context.Context, p *Progress) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO care_plan_progress (care_plan_id, notes, metrics)
		VALUES ($1, $2, $3)
		RETURNING id, recorded_at`,
		p.CarePlanID, p.Notes, p.Metrics,
	).Scan(&p.ID, &p.RecordedAt)
	if err != nil {
		return apperror.NewStore("create progress note", err)
	}
	return nil
}

func (r *PgRepository) ListProgress(ctx context.Context, carePlanID int64) ([]*Progress, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, care_plan_id, notes, metrics, recorded_at
		FROM care_plan_progress WHERE care_plan_id = $1
		ORDER BY recorded_at DESC`, carePlanID)
	if err != nil {
		return nil, apperror.NewStore("list progress notes", err)
	}
	defer rows.Close()

	var notes []*Progress
	for rows.Next() {
		var p Progress
		if err := rows.Scan(&p.ID, &p.CarePlanID, &p.Notes, &p.Metrics, &p.RecordedAt); err != nil {
			return nil, apperror.NewStore("scan progress note", err)
		}
		notes = append(notes, &p)
	}
	return notes, rows.Err()
}
