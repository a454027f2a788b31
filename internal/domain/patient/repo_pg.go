package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spito/spito/internal/platform/apperror"
	"github.com/spito/spito/internal/platform/auth"
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

const patientColumns = `id, user_id, first_name, last_name, date_of_birth, medical_history, contact_info, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.DateOfBirth,
		&p.MedicalHistory, &p.ContactInfo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgRepository) Create(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (user_id, first_name, last_name, date_of_birth, medical_history, contact_info)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		p.UserID, p.FirstName, p.LastName, p.DateOfBirth, p.MedicalHistory, p.ContactInfo,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return apperror.NewStore("create patient", err)
	}
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, id int64, filter auth.PatientFilter) (*Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	args := []interface{}{id}
	if clause, clauseArgs := filter.Clause("user_id", 2); clause != "" {
		query += ` AND ` + clause
		args = append(args, clauseArgs...)
	}

	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("patient", id)
		}
		return nil, apperror.NewStore("get patient", err)
	}
	return p, nil
}

func (r *PgRepository) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients
		SET first_name = $1, last_name = $2, date_of_birth = $3,
		    medical_history = $4, contact_info = $5, updated_at = now()
		WHERE id = $6`,
		p.FirstName, p.LastName, p.DateOfBirth, p.MedicalHistory, p.ContactInfo, p.ID)
	if err != nil {
		return apperror.NewStore("update patient", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("patient", p.ID)
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return apperror.NewStore("delete patient", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("patient", id)
	}
	return nil
}

func (r *PgRepository) List(ctx context.Context, filter auth.PatientFilter, limit, offset int) ([]*Patient, int, error) {
	where := ``
	var args []interface{}
	if clause, clauseArgs := filter.Clause("user_id", 1); clause != "" {
		where = ` WHERE ` + clause
		args = append(args, clauseArgs...)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperror.NewStore("count patients", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM patients%s ORDER BY last_name ASC, first_name ASC LIMIT $%d OFFSET $%d`,
		patientColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperror.NewStore("list patients", err)
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, apperror.NewStore("scan patient", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewStore("list patients", err)
	}
	return patients, total, nil
}

func (r *PgRepository) CreateDocument(ctx context.Context, d *Document) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO documents (patient_id, title, type, file_name, content_type, size_bytes, storage_key, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, uploaded_at`,
		d.PatientID, d.Title, d.Type, d.FileName, d.ContentType, d.SizeBytes, d.StorageKey, d.UploadedBy,
	).Scan(&d.ID, &d.UploadedAt)
	if err != nil {
		return apperror.NewStore("create document", err)
	}
	return nil
}

func (r *PgRepository) ListDocuments(ctx context.Context, patientID int64) ([]*Document, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, title, type, file_name, content_type, size_bytes, storage_key, uploaded_by, uploaded_at
		FROM documents WHERE patient_id = $1
		ORDER BY uploaded_at DESC`, patientID)
	if err != nil {
		return nil, apperror.NewStore("list documents", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.PatientID, &d.Title, &d.Type, &d.FileName,
			&d.ContentType, &d.SizeBytes, &d.StorageKey, &d.UploadedBy, &d.UploadedAt); err != nil {
			return nil, apperror.NewStore("scan document", err)
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

func (r *PgRepository) CreateMetric(ctx context.Context, m *HealthMetric) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO health_metrics (patient_id, type, value, recorded_at, notes)
		VALUES ($1, $2, $3, coalesce($4, now()), $5)
		RETURNING id, recorded_at`,
		m.PatientID, m.Type, m.Value, nullableTime(m.RecordedAt), m.Notes,
	).Scan(&m.ID, &m.RecordedAt)
	if err != nil {
		return apperror.NewStore("create health metric", err)
	}
	return nil
}

// nullableTime maps the zero time to SQL NULL so coalesce can apply the
// database default.
func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func (r *PgRepository) ListMetrics(ctx context.Context, patientID int64, metricType string) ([]*HealthMetric, error) {
	query := `SELECT id, patient_id, type, value, recorded_at, notes FROM health_metrics WHERE patient_id = $1`
	args := []interface{}{patientID}
	if metricType != "" {
		args = append(args, metricType)
		query += fmt.Sprintf(` AND type = $%d`, len(args))
	}
	query += ` ORDER BY recorded_at DESC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewStore("list health metrics", err)
	}
	defer rows.Close()

	var metrics []*HealthMetric
	for rows.Next() {
		var m HealthMetric
		if err := rows.Scan(&m.ID, &m.PatientID, &m.Type, &m.Value, &m.RecordedAt, &m.Notes); err != nil {
			return nil, apperror.NewStore("scan health metric", err)
		}
		metrics = append(metrics, &m)
	}
	return metrics, rows.Err()
}
