package organization

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

const orgColumns = `id, name, type, street, city, postal_code, canton, active, created_at, updated_at`

func scanOrg(row pgx.Row) (*Organization, error) {
	var o Organization
	err := row.Scan(&o.ID, &o.Name, &o.Type, &o.Street, &o.City, &o.PostalCode, &o.Canton, &o.Active, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PgRepository) Create(ctx context.Context, o *Organization) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO organizations (name, type, street, city, postal_code, canton, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		o.Name, o.Type, o.Street, o.City, o.PostalCode, o.Canton, o.Active,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return apperror.NewStore("create organization", err)
	}
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, id int64) (*Organization, error) {
	o, err := scanOrg(r.conn(ctx).QueryRow(ctx,
		`SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("organization", id)
		}
		return nil, apperror.NewStore("get organization", err)
	}
	return o, nil
}

func (r *PgRepository) Update(ctx context.Context, o *Organization) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE organizations
		SET name = $1, type = $2, street = $3, city = $4, postal_code = $5,
		    canton = $6, active = $7, updated_at = now()
		WHERE id = $8`,
		o.Name, o.Type, o.Street, o.City, o.PostalCode, o.Canton, o.Active, o.ID)
	if err != nil {
		return apperror.NewStore("update organization", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("organization", o.ID)
	}
	return nil
}
