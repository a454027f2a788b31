package patient

import (
	"context"
	"testing"
	"time"

	"github.com/spito/spito/internal/platform/apperror"
	"github.com/spito/spito/internal/platform/auth"
)

type mockRepo struct {
	patients map[int64]*Patient
	docs     map[int64][]*Document
	metrics  map[int64][]*HealthMetric
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		patients: map[int64]*Patient{},
		docs:     map[int64][]*Document{},
		metrics:  map[int64][]*HealthMetric{},
		nextID:   1,
	}
}

func (r *mockRepo) visible(p *Patient, filter auth.PatientFilter) bool {
	if filter.All {
		return true
	}
	return p.UserID != nil && *p.UserID == filter.UserID
}

func (r *mockRepo) Create(ctx context.Context, p *Patient) error {
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.patients[p.ID] = p
	return nil
}

func (r *mockRepo) GetByID(ctx context.Context, id int64, filter auth.PatientFilter) (*Patient, error) {
	p, ok := r.patients[id]
	if !ok || !r.visible(p, filter) {
		return nil, apperror.NewNotFound("patient", id)
	}
	return p, nil
}

func (r *mockRepo) Update(ctx context.Context, p *Patient) error {
	if _, ok := r.patients[p.ID]; !ok {
		return apperror.NewNotFound("patient", p.ID)
	}
	r.patients[p.ID] = p
	return nil
}

func (r *mockRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.patients[id]; !ok {
		return apperror.NewNotFound("patient", id)
	}
	delete(r.patients, id)
	return nil
}

func (r *mockRepo) List(ctx context.Context, filter auth.PatientFilter, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range r.patients {
		if r.visible(p, filter) {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (r *mockRepo) CreateDocument(ctx context.Context, d *Document) error {
	d.ID = int64(len(r.docs[d.PatientID]) + 1)
	d.UploadedAt = time.Now()
	r.docs[d.PatientID] = append(r.docs[d.PatientID], d)
	return nil
}

func (r *mockRepo) ListDocuments(ctx context.Context, patientID int64) ([]*Document, error) {
	return r.docs[patientID], nil
}

func (r *mockRepo) CreateMetric(ctx context.Context, m *HealthMetric) error {
	m.ID = int64(len(r.metrics[m.PatientID]) + 1)
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now()
	}
	r.metrics[m.PatientID] = append(r.metrics[m.PatientID], m)
	return nil
}

func (r *mockRepo) ListMetrics(ctx context.Context, patientID int64, metricType string) ([]*HealthMetric, error) {
	var out []*HealthMetric
	for _, m := range r.metrics[patientID] {
		if metricType == "" || m.Type == metricType {
			out = append(out, m)
		}
	}
	return out, nil
}

func staffCtx() context.Context {
	return auth.WithUser(context.Background(), auth.User{ID: 10, Role: auth.RoleNurse})
}

func patientCtx(userID int64) context.Context {
	return auth.WithUser(context.Background(), auth.User{ID: userID, Role: auth.RolePatient})
}

func seedPatient(t *testing.T, svc *Service, userID *int64) *Patient {
	t.Helper()
	p := &Patient{
		UserID:      userID,
		FirstName:   "Maria",
		LastName:    "Berger",
		DateOfBirth: time.Date(1948, 3, 12, 0, 0, 0, 0, time.UTC),
		ContactInfo: []byte(`{"phone":"+41 79 000 00 00"}`),
	}
	if err := svc.Create(staffCtx(), p); err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return p
}

func TestCreatePatient_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	dob := time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		p    Patient
	}{
		{"missing first name", Patient{LastName: "B", DateOfBirth: dob}},
		{"missing last name", Patient{FirstName: "A", DateOfBirth: dob}},
		{"missing date of birth", Patient{FirstName: "A", LastName: "B"}},
		{"future date of birth", Patient{FirstName: "A", LastName: "B", DateOfBirth: time.Now().Add(24 * time.Hour)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Create(staffCtx(), &tc.p); !apperror.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestPatientVisibility(t *testing.T) {
	svc := NewService(newMockRepo())
	ownUser := int64(77)
	own := seedPatient(t, svc, &ownUser)
	other := seedPatient(t, svc, nil)

	// Staff see everyone.
	list, total, err := svc.List(staffCtx(), 20, 0)
	if err != nil {
		t.Fatalf("staff list: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Errorf("staff should see 2 patients, got %d", total)
	}

	// The patient role only sees its own record.
	list, total, err = svc.List(patientCtx(ownUser), 20, 0)
	if err != nil {
		t.Fatalf("patient list: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != own.ID {
		t.Errorf("patient should only see own record, got total=%d", total)
	}

	if _, err := svc.Get(patientCtx(ownUser), other.ID); !apperror.IsNotFound(err) {
		t.Errorf("foreign record must read as not found, got %v", err)
	}
	if _, err := svc.Get(patientCtx(ownUser), own.ID); err != nil {
		t.Errorf("own record must be readable, got %v", err)
	}
}

func TestAddDocument(t *testing.T) {
	svc := NewService(newMockRepo())
	p := seedPatient(t, svc, nil)

	doc, err := svc.AddDocument(staffCtx(), &Document{
		PatientID:   p.ID,
		Title:       "Care report March",
		Type:        "report",
		FileName:    "report-march.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
	})
	if err != nil {
		t.Fatalf("add document: %v", err)
	}
	if doc.StorageKey == "" {
		t.Error("expected a generated storage key")
	}
	if doc.UploadedBy != 10 {
		t.Errorf("expected uploader from context, got %d", doc.UploadedBy)
	}

	docs, err := svc.Documents(staffCtx(), p.ID)
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("expected 1 document, got %d", len(docs))
	}
}

func TestAddDocument_UnknownPatient(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.AddDocument(staffCtx(), &Document{PatientID: 99, Title: "X", FileName: "x.pdf"})
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRecordMetric(t *testing.T) {
	svc := NewService(newMockRepo())
	p := seedPatient(t, svc, nil)

	m := &HealthMetric{
		PatientID: p.ID,
		Type:      MetricBloodPressure,
		Value:     []byte(`{"systolic":128,"diastolic":82}`),
	}
	if err := svc.RecordMetric(staffCtx(), m); err != nil {
		t.Fatalf("record metric: %v", err)
	}
	if m.RecordedAt.IsZero() {
		t.Error("expected recorded_at to be set")
	}

	metrics, err := svc.Metrics(staffCtx(), p.ID, MetricBloodPressure)
	if err != nil {
		t.Fatalf("list metrics: %v", err)
	}
	if len(metrics) != 1 {
		t.Errorf("expected 1 metric, got %d", len(metrics))
	}
}

func TestRecordMetric_UnknownType(t *testing.T) {
	svc := NewService(newMockRepo())
	p := seedPatient(t, svc, nil)

	err := svc.RecordMetric(staffCtx(), &HealthMetric{PatientID: p.ID, Type: "mood", Value: []byte(`5`)})
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}
