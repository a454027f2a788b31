package patient

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spito/spito/internal/platform/apperror"
	"github.com/spito/spito/internal/platform/auth"
)

var validMetricTypes = map[string]bool{
	MetricBloodPressure: true,
	MetricWeight:        true,
	MetricTemperature:   true,
	MetricBloodSugar:    true,
	MetricHeartRate:     true,
	MetricPainLevel:     true,
}

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

// visibility derives the row filter from the authenticated caller. An
// unauthenticated context sees nothing that belongs to anyone, which only
// happens in direct service tests.
func visibility(ctx context.Context) auth.PatientFilter {
	u, ok := auth.CurrentUser(ctx)
	if !ok {
		return auth.PatientFilter{}
	}
	return auth.VisiblePatientFilter(u)
}

func validatePatient(p *Patient) error {
	if strings.TrimSpace(p.FirstName) == "" {
		return apperror.NewValidation("first_name", "first name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return apperror.NewValidation("last_name", "last name is required")
	}
	if p.DateOfBirth.IsZero() {
		return apperror.NewValidation("date_of_birth", "date of birth is required")
	}
	if p.DateOfBirth.After(time.Now()) {
		return apperror.NewValidation("date_of_birth", "date of birth must be in the past")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := validatePatient(p); err != nil {
		return err
	}
	if len(p.ContactInfo) == 0 {
		p.ContactInfo = []byte(`{}`)
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.patients.GetByID(ctx, id, visibility(ctx))
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := validatePatient(p); err != nil {
		return err
	}
	if _, err := s.patients.GetByID(ctx, p.ID, visibility(ctx)); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, visibility(ctx), limit, offset)
}

// AddDocument records document metadata for a patient. The storage key is
// assigned here so callers cannot pick paths.
func (s *Service) AddDocument(ctx context.Context, d *Document) (*Document, error) {
	if strings.TrimSpace(d.Title) == "" {
		return nil, apperror.NewValidation("title", "title is required")
	}
	if strings.TrimSpace(d.FileName) == "" {
		return nil, apperror.NewValidation("file_name", "file name is required")
	}
	if d.SizeBytes < 0 {
		return nil, apperror.NewValidation("size_bytes", "size must not be negative")
	}
	if _, err := s.patients.GetByID(ctx, d.PatientID, visibility(ctx)); err != nil {
		return nil, err
	}
	if u, ok := auth.CurrentUser(ctx); ok {
		d.UploadedBy = u.ID
	}
	d.StorageKey = uuid.NewString()
	if err := s.patients.CreateDocument(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Documents(ctx context.Context, patientID int64) ([]*Document, error) {
	if _, err := s.patients.GetByID(ctx, patientID, visibility(ctx)); err != nil {
		return nil, err
	}
	return s.patients.ListDocuments(ctx, patientID)
}

// RecordMetric stores a health metric reading for a patient.
func (s *Service) RecordMetric(ctx context.Context, m *HealthMetric) error {
	if !validMetricTypes[m.Type] {
		return apperror.NewValidation("type", "unknown metric type")
	}
	if len(m.Value) == 0 {
		return apperror.NewValidation("value", "value is required")
	}
	if _, err := s.patients.GetByID(ctx, m.PatientID, visibility(ctx)); err != nil {
		return err
	}
	return s.patients.CreateMetric(ctx, m)
}

func (s *Service) Metrics(ctx context.Context, patientID int64, metricType string) ([]*HealthMetric, error) {
	if metricType != "" && !validMetricTypes[metricType] {
		return nil, apperror.NewValidation("type", "unknown metric type")
	}
	if _, err := s.patients.GetByID(ctx, patientID, visibility(ctx)); err != nil {
		return nil, err
	}
	return s.patients.ListMetrics(ctx, patientID, metricType)
}
