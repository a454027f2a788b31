package patient

import (
	"context"

	"github.com/spito/spito/internal/platform/auth"
)

// Repository persists patients and their documents and metrics. Read paths
// take the caller's visibility filter so patients never see rows that are
// not their own.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64, filter auth.PatientFilter) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter auth.PatientFilter, limit, offset int) ([]*Patient, int, error)

	CreateDocument(ctx context.Context, d *Document) error
	ListDocuments(ctx context.Context, patientID int64) ([]*Document, error)

	CreateMetric(ctx context.Context, m *HealthMetric) error
	ListMetrics(ctx context.Context, patientID int64, metricType string) ([]*HealthMetric, error)
}
