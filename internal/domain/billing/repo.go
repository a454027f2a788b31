package billing

import "context"

// BillingFilter narrows billing listings to one side of the care
// relationship. Zero values mean no filtering.
type BillingFilter struct {
	EmployeeID    int64
	PatientUserID int64
}

// Repository persists service log entries, invoices and invoice items.
type Repository interface {
	CreateBilling(ctx context.Context, b *Billing) error
	ListBillings(ctx context.Context, f BillingFilter, limit, offset int) ([]*BillingRow, int, error)

	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id int64) (*Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id int64, status string) (*Invoice, error)
	ListInvoices(ctx context.Context, patientID int64, status string, limit, offset int) ([]*Invoice, int, error)

	CreateItem(ctx context.Context, item *InvoiceItem) error
	ListItems(ctx context.Context, invoiceID int64) ([]*InvoiceItem, error)
}
