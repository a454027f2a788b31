package integration

import (
	"context"
	"testing"
	"time"

	"github.com/spito/spito/internal/domain/billing"
	"github.com/spito/spito/internal/platform/auth"
)

func TestBillingVisibility(t *testing.T) {
	resetDB(t)

	admin := seedUser(t, "admin.billing", auth.RoleAdmin)
	worker := seedUser(t, "worker.one", auth.RoleSpitexEmployee)
	other := seedUser(t, "worker.two", auth.RoleSpitexEmployee)
	pat := seedPatient(t, adminCtx(admin.ID), "Elsbeth", "Graf")

	svc := billing.NewService(billing.NewPgRepository(globalDB.Pool))

	workerCtx := auth.WithUser(context.Background(), auth.User{ID: worker.ID, Role: auth.RoleSpitexEmployee})
	if err := svc.RecordBilling(workerCtx, &billing.Billing{
		PatientID:   pat.ID,
		Amount:      120.50,
		TimeMinutes: 45,
	}); err != nil {
		t.Fatalf("record billing: %v", err)
	}

	// The recording employee sees their own entry, with joined names.
	rows, total, err := svc.ListBillings(workerCtx, 20, 0)
	if err != nil {
		t.Fatalf("list billings: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected 1 billing for recording employee, got %d", total)
	}
	if rows[0].EmployeeID != worker.ID {
		t.Errorf("expected employee %d from context, got %d", worker.ID, rows[0].EmployeeID)
	}
	if rows[0].PatientName == "" || rows[0].EmployeeName == "" {
		t.Errorf("expected joined names, got %q / %q", rows[0].PatientName, rows[0].EmployeeName)
	}

	// A different care worker sees nothing.
	otherCtx := auth.WithUser(context.Background(), auth.User{ID: other.ID, Role: auth.RoleSpitexEmployee})
	_, total, err = svc.ListBillings(otherCtx, 20, 0)
	if err != nil {
		t.Fatalf("list billings as other worker: %v", err)
	}
	if total != 0 {
		t.Errorf("expected 0 billings for other worker, got %d", total)
	}

	// Admin sees everything.
	_, total, err = svc.ListBillings(adminCtx(admin.ID), 20, 0)
	if err != nil {
		t.Fatalf("list billings as admin: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 billing for admin, got %d", total)
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	resetDB(t)

	admin := seedUser(t, "admin.invoice", auth.RoleAdmin)
	ctx := adminCtx(admin.ID)
	pat := seedPatient(t, ctx, "Rosa", "Hofmann")

	svc := billing.NewService(billing.NewPgRepository(globalDB.Pool))

	inv := &billing.Invoice{
		PatientID: pat.ID,
		StartDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
	}
	if err := svc.CreateInvoice(ctx, inv); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if inv.Status != billing.InvoiceDraft {
		t.Errorf("expected draft status, got %s", inv.Status)
	}
	if inv.InvoiceNumber == "" {
		t.Error("expected invoice number to be assigned")
	}

	if err := svc.AddItem(ctx, &billing.InvoiceItem{
		InvoiceID:   inv.ID,
		Description: "Grundpflege Februar",
		Quantity:    3,
		UnitPrice:   85,
	}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	detail, err := svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if len(detail.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(detail.Items))
	}
	if detail.Items[0].Amount != 255 {
		t.Errorf("expected derived amount 255, got %v", detail.Items[0].Amount)
	}

	if _, err := svc.UpdateInvoiceStatus(ctx, inv.ID, billing.InvoicePending); err != nil {
		t.Fatalf("update status: %v", err)
	}
	updated, err := svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get invoice after update: %v", err)
	}
	if updated.Status != billing.InvoicePending {
		t.Errorf("expected pending status, got %s", updated.Status)
	}
}
