package medication

import "time"

// Adherence statuses.
const (
	AdherenceTaken   = "taken"
	AdherenceMissed  = "missed"
	AdherenceDelayed = "delayed"
	AdherenceSkipped = "skipped"
)

// Medication is a prescribed medication for a patient.
type Medication struct {
	ID           int64     `db:"id" json:"id"`
	PatientID    int64     `db:"patient_id" json:"patient_id"`
	Name         string    `db:"name" json:"name"`
	Dosage       string    `db:"dosage" json:"dosage"`
	Instructions *string   `db:"instructions" json:"instructions,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Schedule is one recurring intake time for a medication.
type Schedule struct {
	ID           int64  `db:"id" json:"id"`
	MedicationID int64  `db:"medication_id" json:"medication_id"`
	TimeOfDay    string `db:"time_of_day" json:"time_of_day"`
	Frequency    string `db:"frequency" json:"frequency"`
}

// MedicationWithSchedules is the listing shape for a patient's medications.
type MedicationWithSchedules struct {
	Medication
	Schedules []*Schedule `json:"schedules"`
}

// Adherence records whether a scheduled intake actually happened.
type Adherence struct {
	ID         int64     `db:"id" json:"id"`
	ScheduleID int64     `db:"schedule_id" json:"schedule_id"`
	Status     string    `db:"status" json:"status"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
}

// CreateMedicationRequest carries a medication together with its intake
// schedule, created in one call.
type CreateMedicationRequest struct {
	Name         string  `json:"name"`
	Dosage       string  `json:"dosage"`
	Instructions *string `json:"instructions,omitempty"`
	Schedules    []struct {
		TimeOfDay string `json:"time_of_day"`
		Frequency string `json:"frequency"`
	} `json:"schedules"`
}
