package task

import "time"

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task is a unit of care work attached to a care plan and assigned to a
// staff member.
type Task struct {
	ID           int64     `db:"id" json:"id"`
	CarePlanID   int64     `db:"care_plan_id" json:"care_plan_id"`
	AssignedToID int64     `db:"assigned_to_id" json:"assigned_to_id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	DueDate      time.Time `db:"due_date" json:"due_date"`
	Status       string    `db:"status" json:"status"`
	Priority     string    `db:"priority" json:"priority"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
