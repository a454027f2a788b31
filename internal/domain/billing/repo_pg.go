package billing

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

const uniqueViolation = "23505"

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

func (r *PgRepository) CreateBilling(ctx context.Context, b *Billing) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO billings (patient_id, employee_id, amount, time_minutes, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		b.PatientID, b.EmployeeID, b.Amount, b.TimeMinutes, b.Notes,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return apperror.NewStore("create billing", err)
	}
	return nil
}

func (r *PgRepository) ListBillings(ctx context.Context, f BillingFilter, limit, offset int) ([]*BillingRow, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	if f.EmployeeID > 0 {
		args = append(args, f.EmployeeID)
		where += fmt.Sprintf(` AND b.employee_id = $%d`, len(args))
	}
	if f.PatientUserID > 0 {
		args = append(args, f.PatientUserID)
		where += fmt.Sprintf(` AND p.user_id = $%d`, len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM billings b LEFT JOIN patients p ON p.id = b.patient_id` + where
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperror.NewStore("count billings", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT b.id, b.patient_id, b.employee_id, b.amount, b.time_minutes, b.notes, b.created_at,
		       coalesce(p.first_name || ' ' || p.last_name, ''), coalesce(u.full_name, '')
		FROM billings b
		LEFT JOIN patients p ON p.id = b.patient_id
		LEFT JOIN users u ON u.id = b.employee_id
		%s
		ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperror.NewStore("list billings", err)
	}
	defer rows.Close()

	var out []*BillingRow
	for rows.Next() {
		var row BillingRow
		if err := rows.Scan(&row.ID, &row.PatientID, &row.EmployeeID, &row.Amount,
			&row.TimeMinutes, &row.Notes, &row.CreatedAt, &row.PatientName, &row.EmployeeName); err != nil {
			return nil, 0, apperror.NewStore("scan billing", err)
		}
		out = append(out, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewStore("list billings", err)
	}
	return out, total, nil
}

const invoiceColumns = `id, invoice_number, patient_id, start_date, end_date, status, total_amount, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.PatientID, &inv.StartDate, &inv.EndDate,
		&inv.Status, &inv.TotalAmount, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PgRepository) CreateInvoice(ctx context.Context, inv *Invoice) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO invoices (invoice_number, patient_id, start_date, end_date, status, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		inv.InvoiceNumber, inv.PatientID, inv.StartDate, inv.EndDate, inv.Status, inv.TotalAmount,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.NewConflict("invoice number collision")
		}
		return apperror.NewStore("create invoice", err)
	}
	return nil
}

func (r *PgRepository) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := scanInvoice(r.conn(ctx).QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("invoice", id)
		}
		return nil, apperror.NewStore("get invoice", err)
	}
	return inv, nil
}

func (r *PgRepository) UpdateInvoiceStatus(ctx context.Context, id int64, status string) (*Invoice, error) {
	inv, err := scanInvoice(r.conn(ctx).QueryRow(ctx, `
		UPDATE invoices SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+invoiceColumns, status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("invoice", id)
		}
		return nil, apperror.NewStore("update invoice status", err)
	}
	return inv, nil
}

func (r *PgRepository) ListInvoices(ctx context.Context, patientID int64, status string, limit, offset int) ([]*Invoice, int, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM invoices WHERE 1=1`
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
		return nil, 0, apperror.NewStore("count invoices", err)
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperror.NewStore("list invoices", err)
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, apperror.NewStore("scan invoice", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewStore("list invoices", err)
	}
	return invoices, total, nil
}

func (r *PgRepository) CreateItem(ctx context.Context, item *InvoiceItem) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO invoice_items (invoice_id, description, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.Amount,
	).Scan(&item.ID)
	if err != nil {
		return apperror.NewStore("create invoice item", err)
	}
	return nil
}

func (r *PgRepository) ListItems(ctx context.Context, invoiceID int64) ([]*InvoiceItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, invoice_id, description, quantity, unit_price, amount
		FROM invoice_items WHERE invoice_id = $1
		ORDER BY id ASC`, invoiceID)
	if err != nil {
		return nil, apperror.NewStore("list invoice items", err)
	}
	defer rows.Close()

	var items []*InvoiceItem
	for rows.Next() {
		var item InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &item.UnitPrice, &item.Amount); err != nil {
			return nil, apperror.NewStore("scan invoice item", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
