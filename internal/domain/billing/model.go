package billing

import "time"

// Invoice statuses.
const (
	InvoiceDraft     = "draft"
	InvoicePending   = "pending"
	InvoicePaid      = "paid"
	InvoiceOverdue   = "overdue"
	InvoiceCancelled = "cancelled"
)

// Billing is a service log entry recorded by a care worker after a visit.
type Billing struct {
	ID          int64     `db:"id" json:"id"`
	PatientID   int64     `db:"patient_id" json:"patient_id"`
	EmployeeID  int64     `db:"employee_id" json:"employee_id"`
	Amount      float64   `db:"amount" json:"amount"`
	TimeMinutes int       `db:"time_minutes" json:"time_minutes"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// BillingRow is a billing entry joined with display names for listing.
type BillingRow struct {
	Billing
	PatientName  string `db:"patient_name" json:"patient_name"`
	EmployeeName string `db:"employee_name" json:"employee_name"`
}

// Invoice aggregates service entries for a patient over a period.
type Invoice struct {
	ID            int64     `db:"id" json:"id"`
	InvoiceNumber string    `db:"invoice_number" json:"invoice_number"`
	PatientID     int64     `db:"patient_id" json:"patient_id"`
	StartDate     time.Time `db:"start_date" json:"start_date"`
	EndDate       time.Time `db:"end_date" json:"end_date"`
	Status        string    `db:"status" json:"status"`
	TotalAmount   float64   `db:"total_amount" json:"total_amount"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// InvoiceItem is one line on an invoice.
type InvoiceItem struct {
	ID          int64   `db:"id" json:"id"`
	InvoiceID   int64   `db:"invoice_id" json:"invoice_id"`
	Description string  `db:"description" json:"description"`
	Quantity    int     `db:"quantity" json:"quantity"`
	UnitPrice   float64 `db:"unit_price" json:"unit_price"`
	Amount      float64 `db:"amount" json:"amount"`
}

// InvoiceDetail is an invoice with its items, as returned by the detail
// endpoint.
type InvoiceDetail struct {
	Invoice
	Items []*InvoiceItem `json:"items"`
}
