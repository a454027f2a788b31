package notification

import "time"

// Notification kinds.
const (
	KindAppointment = "appointment"
	KindTask        = "task"
	KindMedication  = "medication"
	KindSystem      = "system"
)

// Notification is a message delivered to one user's inbox.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Kind      string    `db:"kind" json:"kind"`
	Message   string    `db:"message" json:"message"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
