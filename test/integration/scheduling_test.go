package integration

import (
	"testing"
	"time"

	"github.com/spito/spito/internal/domain/scheduling"
	"github.com/spito/spito/internal/platform/apperror"
	"github.com/spito/spito/internal/platform/auth"
)

// 2025-03-03 is a Monday.
const bookingDate = "2025-03-03"

func newSchedulingService() *scheduling.Service {
	return scheduling.NewService(
		globalDB.Pool,
		scheduling.NewScheduleRepoPG(globalDB.Pool),
		scheduling.NewAppointmentRepoPG(globalDB.Pool),
		30*time.Minute,
		nil,
	)
}

func TestBookingFlow(t *testing.T) {
	resetDB(t)

	provider := seedUser(t, "dr.keller", auth.RoleDoctor)
	ctx := adminCtx(provider.ID)
	pat := seedPatient(t, ctx, "Heidi", "Brunner")

	svc := newSchedulingService()
	if err := svc.CreateSchedule(ctx, &scheduling.ProviderSchedule{
		ProviderID:  provider.ID,
		DayOfWeek:   int(time.Monday),
		StartTime:   "09:00",
		EndTime:     "11:00",
		IsAvailable: true,
	}); err != nil {
		t.Fatalf("create schedule: %v", err)
	}

	slots, err := svc.AvailableSlots(ctx, provider.ID, bookingDate)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots for a 2h window, got %v", slots)
	}

	appt, err := svc.Book(ctx, &scheduling.BookingRequest{
		PatientID:  pat.ID,
		ProviderID: provider.ID,
		Date:       bookingDate,
		Time:       "09:30",
		Type:       "initial_consultation",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if appt.Status != scheduling.StatusScheduled {
		t.Errorf("expected scheduled status, got %s", appt.Status)
	}

	// The booked slot disappears from the availability listing.
	slots, err = svc.AvailableSlots(ctx, provider.ID, bookingDate)
	if err != nil {
		t.Fatalf("available slots after booking: %v", err)
	}
	for _, s := range slots {
		if s == "09:30" {
			t.Error("booked slot still offered")
		}
	}

	// A second booking for the same slot is rejected.
	_, err = svc.Book(ctx, &scheduling.BookingRequest{
		PatientID:  pat.ID,
		ProviderID: provider.ID,
		Date:       bookingDate,
		Time:       "09:30",
		Type:       "follow_up",
	})
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// Cancelling frees the slot for rebooking.
	if _, err := svc.UpdateAppointmentStatus(ctx, appt.ID, scheduling.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Book(ctx, &scheduling.BookingRequest{
		PatientID:  pat.ID,
		ProviderID: provider.ID,
		Date:       bookingDate,
		Time:       "09:30",
		Type:       "follow_up",
	}); err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
}

func TestBooking_OutsideAvailability(t *testing.T) {
	resetDB(t)

	provider := seedUser(t, "dr.meier", auth.RoleDoctor)
	ctx := adminCtx(provider.ID)
	pat := seedPatient(t, ctx, "Ueli", "Steiner")

	svc := newSchedulingService()
	if err := svc.CreateSchedule(ctx, &scheduling.ProviderSchedule{
		ProviderID:  provider.ID,
		DayOfWeek:   int(time.Monday),
		StartTime:   "09:00",
		EndTime:     "11:00",
		IsAvailable: true,
	}); err != nil {
		t.Fatalf("create schedule: %v", err)
	}

	_, err := svc.Book(ctx, &scheduling.BookingRequest{
		PatientID:  pat.ID,
		ProviderID: provider.ID,
		Date:       bookingDate,
		Time:       "14:00",
		Type:       "routine_checkup",
	})
	if !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
