package task

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

const taskColumns = `id, care_plan_id, assigned_to_id, title, description, due_date, status, priority, created_at, updated_at`

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.CarePlanID, &t.AssignedToID, &t.Title, &t.Description,
		&t.DueDate, &t.Status, &t.Priority, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgRepository) Create(ctx context.Context, t *Task) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO tasks (care_plan_id, assigned_to_id, title, description, due_date, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		t.CarePlanID, t.AssignedToID, t.Title, t.Description, t.DueDate, t.Status, t.Priority,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return apperror.NewStore("create task", err)
	}
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, id int64) (*Task, error) {
	t, err := scanTask(r.conn(ctx).QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("task", id)
		}
		return nil, apperror.NewStore("get task", err)
	}
	return t, nil
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id int64, status string) (*Task, error) {
	t, err := scanTask(r.conn(ctx).QueryRow(ctx, `
		UPDATE tasks SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+taskColumns, status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("task", id)
		}
		return nil, apperror.NewStore("update task status", err)
	}
	return t, nil
}

func (r *PgRepository) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Task, int, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM tasks WHERE 1=1`
	var args []interface{}

	add := func(clause string, val interface{}) {
		args = append(args, val)
		cond := fmt.Sprintf(clause, len(args))
		query += cond
		countQuery += cond
	}
	if f.CarePlanID > 0 {
		add(` AND care_plan_id = $%d`, f.CarePlanID)
	}
	if f.AssignedToID > 0 {
		add(` AND assigned_to_id = $%d`, f.AssignedToID)
	}
	if f.Status != "" {
		add(` AND status = $%d`, f.Status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperror.NewStore("count tasks", err)
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY due_date ASC, id ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperror.NewStore("list tasks", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, apperror.NewStore("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewStore("list tasks", err)
	}
	return tasks, total, nil
}
