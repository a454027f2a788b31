package scheduling

import "context"

// ScheduleRepository persists recurring provider availability windows.
type ScheduleRepository interface {
	Create(ctx context.Context, s *ProviderSchedule) error
	GetByID(ctx context.Context, id int64) (*ProviderSchedule, error)
	Update(ctx context.Context, s *ProviderSchedule) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, providerID int64, limit, offset int) ([]*ProviderSchedule, int, error)
	// ListAvailable returns the provider's windows on the given weekday
	// that are flagged available, ordered by start time.
	ListAvailable(ctx context.Context, providerID int64, dayOfWeek int) ([]*ProviderSchedule, error)
}

// AppointmentRepository persists the booking ledger. Ledger rows are never
// deleted; bookings leave the calendar through status transitions.
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Appointment, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error)
	// BookedTimes returns the "HH:MM" start times of appointments still
	// holding a slot for the provider on the given date.
	BookedTimes(ctx context.Context, providerID int64, date string) ([]string, error)
}
