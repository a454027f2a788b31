package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spito/spito/internal/platform/apperror"
	"github.com/spito/spito/internal/platform/db"
	"github.com/spito/spito/internal/platform/metrics"
)

var validTypes = map[string]bool{
	"initial_consultation": true, "follow_up": true,
	"emergency": true, "routine_checkup": true,
}

var validStatuses = map[string]bool{
	StatusScheduled: true, StatusCompleted: true,
	StatusCancelled: true, StatusNoShow: true,
}

// Notifier receives booking events. Wired in main to avoid an import
// cycle with the notification domain.
type Notifier interface {
	Notify(ctx context.Context, userID int64, kind, message string) error
}

type Service struct {
	pool         *pgxpool.Pool
	schedules    ScheduleRepository
	appointments AppointmentRepository
	slotSize     time.Duration
	metrics      *metrics.Metrics
	notifier     Notifier
}

func NewService(pool *pgxpool.Pool, sched ScheduleRepository, appt AppointmentRepository, slotSize time.Duration, m *metrics.Metrics) *Service {
	if slotSize <= 0 {
		slotSize = DefaultSlotSize
	}
	return &Service{pool: pool, schedules: sched, appointments: appt, slotSize: slotSize, metrics: m}
}

// SetNotifier enables booking notifications. Optional.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// inTx runs fn inside a transaction when a pool is configured. Unit tests
// inject repositories without a pool and run fn directly.
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.pool == nil {
		return fn(ctx)
	}
	return db.WithTx(ctx, s.pool, fn)
}

// -- Provider schedules --

func (s *Service) validateSchedule(sched *ProviderSchedule) error {
	if sched.ProviderID <= 0 {
		return apperror.NewValidation("provider_id", "provider_id is required")
	}
	if sched.DayOfWeek < 0 || sched.DayOfWeek > 6 {
		return apperror.NewValidation("day_of_week", "day_of_week must be between 0 and 6")
	}
	if !ValidClock(sched.StartTime) {
		return apperror.NewValidation("start_time", "start_time must be in HH:MM format")
	}
	if !ValidClock(sched.EndTime) {
		return apperror.NewValidation("end_time", "end_time must be in HH:MM format")
	}
	if sched.EndTime <= sched.StartTime {
		return apperror.NewValidation("end_time", "end_time must be after start_time")
	}
	return nil
}

func (s *Service) CreateSchedule(ctx context.Context, sched *ProviderSchedule) error {
	if err := s.validateSchedule(sched); err != nil {
		return err
	}
	return s.schedules.Create(ctx, sched)
}

func (s *Service) GetSchedule(ctx context.Context, id int64) (*ProviderSchedule, error) {
	return s.schedules.GetByID(ctx, id)
}

func (s *Service) UpdateSchedule(ctx context.Context, sched *ProviderSchedule) error {
	if err := s.validateSchedule(sched); err != nil {
		return err
	}
	return s.schedules.Update(ctx, sched)
}

func (s *Service) DeleteSchedule(ctx context.Context, id int64) error {
	return s.schedules.Delete(ctx, id)
}

func (s *Service) ListSchedules(ctx context.Context, providerID int64, limit, offset int) ([]*ProviderSchedule, int, error) {
	return s.schedules.List(ctx, providerID, limit, offset)
}

// -- Availability --

// AvailableSlots returns the open slot start times for a provider on a date:
// every candidate slot from the provider's windows on that weekday minus the
// ones already held by a scheduled appointment.
func (s *Service) AvailableSlots(ctx context.Context, providerID int64, date string) ([]string, error) {
	if providerID <= 0 {
		return nil, apperror.NewValidation("provider_id", "provider_id is required")
	}
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, apperror.NewValidation("date", "date must be in YYYY-MM-DD format")
	}

	windows, err := s.schedules.ListAvailable(ctx, providerID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	booked, err := s.appointments.BookedTimes(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	candidates := GenerateSlots(windows, s.slotSize)
	s.metrics.ObserveSlots(len(candidates))
	return FilterConflicts(candidates, booked), nil
}

// -- Booking --

func (s *Service) validateBooking(req *BookingRequest) error {
	if req.PatientID <= 0 {
		return apperror.NewValidation("patient_id", "patient_id is required")
	}
	if req.ProviderID <= 0 {
		return apperror.NewValidation("provider_id", "provider_id is required")
	}
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		return apperror.NewValidation("date", "date must be in YYYY-MM-DD format")
	}
	if !ValidClock(req.Time) {
		return apperror.NewValidation("time", "time must be in HH:MM format")
	}
	if !validTypes[req.Type] {
		return apperror.NewValidation("type", "invalid appointment type: "+req.Type)
	}
	if req.DurationMinutes < 0 {
		return apperror.NewValidation("duration_minutes", "duration_minutes must be positive")
	}
	return nil
}

// Book validates the request, re-checks availability and inserts the
// appointment inside one transaction so the availability check and the
// insert see a single snapshot. A partial unique index on the slot backstops
// concurrent committers; the loser surfaces a conflict.
func (s *Service) Book(ctx context.Context, req *BookingRequest) (*Appointment, error) {
	if err := s.validateBooking(req); err != nil {
		s.metrics.ObserveBooking("invalid")
		return nil, err
	}

	scheduledFor, err := time.Parse(DateLayout+" 15:04", req.Date+" "+req.Time)
	if err != nil {
		s.metrics.ObserveBooking("invalid")
		return nil, apperror.NewValidation("time", "time must be in HH:MM format")
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = int(s.slotSize / time.Minute)
	}

	appt := &Appointment{
		PatientID:       req.PatientID,
		ProviderID:      req.ProviderID,
		ScheduledFor:    scheduledFor,
		DurationMinutes: duration,
		Type:            req.Type,
		Status:          StatusScheduled,
		Symptoms:        req.Symptoms,
	}

	err = s.inTx(ctx, func(txCtx context.Context) error {
		windows, err := s.schedules.ListAvailable(txCtx, req.ProviderID, int(scheduledFor.Weekday()))
		if err != nil {
			return err
		}
		candidates := GenerateSlots(windows, s.slotSize)
		if !contains(candidates, req.Time) {
			return apperror.NewValidation("time", "time is not within the provider's availability")
		}

		booked, err := s.appointments.BookedTimes(txCtx, req.ProviderID, req.Date)
		if err != nil {
			return err
		}
		if contains(booked, req.Time) {
			return apperror.NewConflict("slot is already booked")
		}

		return s.appointments.Create(txCtx, appt)
	})
	if err != nil {
		switch {
		case apperror.IsConflict(err):
			s.metrics.ObserveBooking("conflict")
		case apperror.IsValidation(err):
			s.metrics.ObserveBooking("invalid")
		default:
			s.metrics.ObserveBooking("error")
		}
		return nil, err
	}

	s.metrics.ObserveBooking("committed")
	if s.notifier != nil {
		msg := fmt.Sprintf("New %s appointment on %s at %s", req.Type, req.Date, req.Time)
		// Best effort. A failed notification must not undo the booking.
		_ = s.notifier.Notify(ctx, appt.ProviderID, "appointment", msg)
	}
	return appt, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// -- Appointments --

func (s *Service) GetAppointment(ctx context.Context, id int64) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) SearchAppointments(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	if p, ok := params["date"]; ok {
		if _, err := time.Parse(DateLayout, p); err != nil {
			return nil, 0, apperror.NewValidation("date", "date must be in YYYY-MM-DD format")
		}
	}
	return s.appointments.Search(ctx, params, limit, offset)
}

// UpdateAppointmentStatus advances the status machine. Scheduled is the only
// state that allows a transition; completed, cancelled and no_show are
// terminal.
func (s *Service) UpdateAppointmentStatus(ctx context.Context, id int64, status string) (*Appointment, error) {
	if !validStatuses[status] {
		return nil, apperror.NewValidation("status", "invalid appointment status: "+status)
	}

	var updated *Appointment
	err := s.inTx(ctx, func(txCtx context.Context) error {
		current, err := s.appointments.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if current.Status != StatusScheduled {
			return apperror.NewConflict("appointment is already " + current.Status)
		}
		if status == StatusScheduled {
			return apperror.NewValidation("status", "appointment is already scheduled")
		}
		updated, err = s.appointments.UpdateStatus(txCtx, id, status)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
