package billing

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spito/spito/internal/platform/apperror"
	"github.com/spito/spito/internal/platform/auth"
)

var validInvoiceStatuses = map[string]bool{
	InvoiceDraft:     true,
	InvoicePending:   true,
	InvoicePaid:      true,
	InvoiceOverdue:   true,
	InvoiceCancelled: true,
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// visibleBillings derives the row filter for billing listings. Care
// workers in the spitex_employee role only see entries they recorded,
// patients only see entries on their own record, clinical staff and
// admins see everything.
func visibleBillings(u auth.User) BillingFilter {
	switch u.Role {
	case auth.RoleSpitexEmployee:
		return BillingFilter{EmployeeID: u.ID}
	case auth.RolePatient:
		return BillingFilter{PatientUserID: u.ID}
	default:
		return BillingFilter{}
	}
}

// RecordBilling stores a service log entry. The employee is always the
// authenticated caller, regardless of what the payload claims.
func (s *Service) RecordBilling(ctx context.Context, b *Billing) error {
	if b.PatientID <= 0 {
		return apperror.NewValidation("patient_id", "patient is required")
	}
	if b.Amount <= 0 {
		return apperror.NewValidation("amount", "amount must be positive")
	}
	if b.TimeMinutes <= 0 {
		return apperror.NewValidation("time_minutes", "time must be positive")
	}
	u, ok := auth.CurrentUser(ctx)
	if !ok {
		return apperror.NewValidation("employee_id", "no authenticated employee")
	}
	b.EmployeeID = u.ID
	return s.repo.CreateBilling(ctx, b)
}

func (s *Service) ListBillings(ctx context.Context, limit, offset int) ([]*BillingRow, int, error) {
	u, _ := auth.CurrentUser(ctx)
	return s.repo.ListBillings(ctx, visibleBillings(u), limit, offset)
}

// invoiceNumber builds "INVOICE-YYYYMMDD-NNNNN" with a random 5-digit
// suffix. The unique index on invoice_number catches the rare collision.
func (s *Service) invoiceNumber() string {
	return fmt.Sprintf("INVOICE-%s-%05d", s.now().Format("20060102"), rand.Intn(100000))
}

// CreateInvoice opens a draft invoice for a billing period.
func (s *Service) CreateInvoice(ctx context.Context, inv *Invoice) error {
	if inv.PatientID <= 0 {
		return apperror.NewValidation("patient_id", "patient is required")
	}
	if inv.StartDate.IsZero() || inv.EndDate.IsZero() {
		return apperror.NewValidation("start_date", "billing period is required")
	}
	if inv.EndDate.Before(inv.StartDate) {
		return apperror.NewValidation("end_date", "end date must not precede start date")
	}
	inv.InvoiceNumber = s.invoiceNumber()
	inv.Status = InvoiceDraft
	return s.repo.CreateInvoice(ctx, inv)
}

// GetInvoice returns an invoice with its line items.
func (s *Service) GetInvoice(ctx context.Context, id int64) (*InvoiceDetail, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*InvoiceItem{}
	}
	return &InvoiceDetail{Invoice: *inv, Items: items}, nil
}

func (s *Service) ListInvoices(ctx context.Context, patientID int64, status string, limit, offset int) ([]*Invoice, int, error) {
	if status != "" && !validInvoiceStatuses[status] {
		return nil, 0, apperror.NewValidation("status", "unknown status")
	}
	return s.repo.ListInvoices(ctx, patientID, status, limit, offset)
}

// UpdateInvoiceStatus is the only mutation allowed on an existing invoice.
func (s *Service) UpdateInvoiceStatus(ctx context.Context, id int64, status string) (*Invoice, error) {
	if !validInvoiceStatuses[status] {
		return nil, apperror.NewValidation("status", "unknown status")
	}
	return s.repo.UpdateInvoiceStatus(ctx, id, status)
}

// AddItem appends a line item to a draft invoice.
func (s *Service) AddItem(ctx context.Context, item *InvoiceItem) error {
	if strings.TrimSpace(item.Description) == "" {
		return apperror.NewValidation("description", "description is required")
	}
	if item.Quantity <= 0 {
		return apperror.NewValidation("quantity", "quantity must be positive")
	}
	if item.UnitPrice < 0 {
		return apperror.NewValidation("unit_price", "unit price must not be negative")
	}
	inv, err := s.repo.GetInvoice(ctx, item.InvoiceID)
	if err != nil {
		return err
	}
	if inv.Status != InvoiceDraft {
		return apperror.NewConflict("invoice is " + inv.Status)
	}
	if item.Amount == 0 {
		item.Amount = float64(item.Quantity) * item.UnitPrice
	}
	return s.repo.CreateItem(ctx, item)
}
