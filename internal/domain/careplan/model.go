package careplan

import (
	"encoding/json"
	"time"
)

// Care plan statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// CarePlan groups the ongoing care work for one patient.
type CarePlan struct {
	ID          int64     `db:"id" json:"id"`
	PatientID   int64     `db:"patient_id" json:"patient_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Progress is a dated progress note on a care plan. Metrics is free-form
// JSON recorded alongside the note.
type Progress struct {
	ID         int64           `db:"id" json:"id"`
	CarePlanID int64           `db:"care_plan_id" json:"care_plan_id"`
	Notes      string          `db:"notes" json:"notes"`
	Metrics    json.RawMessage `db:"metrics" json:"metrics"`
	RecordedAt time.Time       `db:"recorded_at" json:"recorded_at"`
}
