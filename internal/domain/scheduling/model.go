package scheduling

import "time"

// ProviderSchedule maps to the provider_schedules table. It declares one
// recurring weekly availability window for a provider. DayOfWeek runs 0-6
// with 0 = Sunday. Times are clock strings in 24h "HH:MM" form; the window
// is half-open, a slot must end at or before EndTime to be offered.
type ProviderSchedule struct {
	ID          int64     `db:"id" json:"id"`
	ProviderID  int64     `db:"provider_id" json:"provider_id"`
	DayOfWeek   int       `db:"day_of_week" json:"day_of_week"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Appointment maps to the appointments table. ScheduledFor carries both the
// day and the slot start time. Appointment rows are never deleted; the
// status machine is the only mutation after booking.
type Appointment struct {
	ID              int64     `db:"id" json:"id"`
	PatientID       int64     `db:"patient_id" json:"patient_id"`
	ProviderID      int64     `db:"provider_id" json:"provider_id"`
	ScheduledFor    time.Time `db:"scheduled_for" json:"scheduled_for"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Type            string    `db:"type" json:"type"`
	Status          string    `db:"status" json:"status"`
	Symptoms        *string   `db:"symptoms" json:"symptoms,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Appointment statuses. Scheduled is the only non-terminal status.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// SlotTime returns the appointment's slot start as a "HH:MM" clock string.
func (a *Appointment) SlotTime() string {
	return a.ScheduledFor.Format("15:04")
}

// BookingRequest is the payload for booking a new appointment.
type BookingRequest struct {
	PatientID       int64   `json:"patient_id"`
	ProviderID      int64   `json:"provider_id"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Type            string  `json:"type"`
	DurationMinutes int     `json:"duration_minutes,omitempty"`
	Symptoms        *string `json:"symptoms,omitempty"`
}
