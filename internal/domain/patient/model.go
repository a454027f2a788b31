package patient

import (
	"encoding/json"
	"time"
)

// Patient is a person receiving care. A patient may optionally be linked
// to a user account, which is what the patient role logs in with.
type Patient struct {
	ID             int64           `db:"id" json:"id"`
	UserID         *int64          `db:"user_id" json:"user_id,omitempty"`
	FirstName      string          `db:"first_name" json:"first_name"`
	LastName       string          `db:"last_name" json:"last_name"`
	DateOfBirth    time.Time       `db:"date_of_birth" json:"date_of_birth"`
	MedicalHistory *string         `db:"medical_history" json:"medical_history,omitempty"`
	ContactInfo    json.RawMessage `db:"contact_info" json:"contact_info"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// Document is stored metadata about an uploaded patient file. The binary
// itself lives on disk under a generated storage key.
type Document struct {
	ID          int64     `db:"id" json:"id"`
	PatientID   int64     `db:"patient_id" json:"patient_id"`
	Title       string    `db:"title" json:"title"`
	Type        string    `db:"type" json:"type"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	StorageKey  string    `db:"storage_key" json:"-"`
	UploadedBy  int64     `db:"uploaded_by" json:"uploaded_by"`
	UploadedAt  time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// Metric type constants for health metric readings.
const (
	MetricBloodPressure = "blood_pressure"
	MetricWeight        = "weight"
	MetricTemperature   = "temperature"
	MetricBloodSugar    = "blood_sugar"
	MetricHeartRate     = "heart_rate"
	MetricPainLevel     = "pain_level"
)

// HealthMetric is a single recorded reading. Value is free-form JSON since
// shapes differ per type, a blood pressure reading carries systolic and
// diastolic while a weight reading is a single number.
type HealthMetric struct {
	ID         int64           `db:"id" json:"id"`
	PatientID  int64           `db:"patient_id" json:"patient_id"`
	Type       string          `db:"type" json:"type"`
	Value      json.RawMessage `db:"value" json:"value"`
	RecordedAt time.Time       `db:"recorded_at" json:"recorded_at"`
	Notes      *string         `db:"notes" json:"notes,omitempty"`
}
