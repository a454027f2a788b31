package scheduling

import (
	"reflect"
	"testing"
	"time"
)

func window(provider int64, dayOfWeek int, start, end string) *ProviderSchedule {
	return &ProviderSchedule{ProviderID: provider, DayOfWeek: dayOfWeek, StartTime: start, EndTime: end, IsAvailable: true}
}

func TestGenerateSlots_OneHourWindow(t *testing.T) {
	slots := GenerateSlots([]*ProviderSchedule{window(1, 3, "09:00", "10:00")}, 30*time.Minute)
	want := []string{"09:00", "09:30"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("expected %v, got %v", want, slots)
	}
}

func TestGenerateSlots_WindowShorterThanSlot(t *testing.T) {
	slots := GenerateSlots([]*ProviderSchedule{window(1, 3, "09:00", "09:20")}, 30*time.Minute)
	if len(slots) != 0 {
		t.Errorf("expected no slots, got %v", slots)
	}
}

func TestGenerateSlots_FloorsPartialSlot(t *testing.T) {
	// 100 minutes at 30-minute steps fits 3 whole slots.
	slots := GenerateSlots([]*ProviderSchedule{window(1, 3, "09:00", "10:40")}, 30*time.Minute)
	want := []string{"09:00", "09:30", "10:00"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("expected %v, got %v", want, slots)
	}
}

func TestGenerateSlots_MultipleWindowsKeepOrder(t *testing.T) {
	slots := GenerateSlots([]*ProviderSchedule{
		window(1, 3, "14:00", "15:00"),
		window(1, 3, "09:00", "10:00"),
	}, 30*time.Minute)
	want := []string{"14:00", "14:30", "09:00", "09:30"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("expected window order preserved %v, got %v", want, slots)
	}
}

func TestGenerateSlots_SkipsMalformedWindows(t *testing.T) {
	slots := GenerateSlots([]*ProviderSchedule{
		window(1, 3, "9am", "10:00"),
		window(1, 3, "11:00", "12:00"),
	}, 30*time.Minute)
	want := []string{"11:00", "11:30"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("expected %v, got %v", want, slots)
	}
}

func TestGenerateSlots_InvertedWindowYieldsNothing(t *testing.T) {
	slots := GenerateSlots([]*ProviderSchedule{window(1, 3, "15:00", "09:00")}, 30*time.Minute)
	if len(slots) != 0 {
		t.Errorf("expected no slots for inverted window, got %v", slots)
	}
}

func TestGenerateSlots_NoWindows(t *testing.T) {
	slots := GenerateSlots(nil, 30*time.Minute)
	if slots == nil || len(slots) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", slots)
	}
}

func TestGenerateSlots_HourSteps(t *testing.T) {
	slots := GenerateSlots([]*ProviderSchedule{window(1, 3, "08:00", "11:00")}, time.Hour)
	want := []string{"08:00", "09:00", "10:00"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("expected %v, got %v", want, slots)
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	windows := []*ProviderSchedule{window(1, 3, "09:00", "12:00")}
	first := GenerateSlots(windows, 30*time.Minute)
	second := GenerateSlots(windows, 30*time.Minute)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical output for identical input, got %v then %v", first, second)
	}
}

func TestFilterConflicts_SetDifference(t *testing.T) {
	open := FilterConflicts([]string{"09:00", "09:30", "10:00"}, []string{"09:30"})
	want := []string{"09:00", "10:00"}
	if !reflect.DeepEqual(open, want) {
		t.Errorf("expected %v, got %v", want, open)
	}
}

func TestFilterConflicts_NoBookings(t *testing.T) {
	candidates := []string{"09:00", "09:30"}
	open := FilterConflicts(candidates, nil)
	if !reflect.DeepEqual(open, candidates) {
		t.Errorf("expected all candidates open, got %v", open)
	}
}

func TestFilterConflicts_AllBooked(t *testing.T) {
	open := FilterConflicts([]string{"09:00", "09:30"}, []string{"09:00", "09:30"})
	if len(open) != 0 {
		t.Errorf("expected no open slots, got %v", open)
	}
}

func TestFilterConflicts_DropsDuplicates(t *testing.T) {
	open := FilterConflicts([]string{"09:00", "09:30", "09:00"}, nil)
	want := []string{"09:00", "09:30"}
	if !reflect.DeepEqual(open, want) {
		t.Errorf("expected first occurrence kept %v, got %v", want, open)
	}
}

func TestFilterConflicts_Idempotent(t *testing.T) {
	once := FilterConflicts([]string{"09:00", "09:30", "10:00"}, []string{"10:00"})
	twice := FilterConflicts(once, []string{"10:00"})
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("expected idempotent filtering, got %v then %v", once, twice)
	}
}

func TestFilterConflicts_IgnoresUnknownBookedTimes(t *testing.T) {
	// A booked time that is not a candidate must not affect the result.
	open := FilterConflicts([]string{"09:00", "09:30"}, []string{"09:15"})
	want := []string{"09:00", "09:30"}
	if !reflect.DeepEqual(open, want) {
		t.Errorf("expected %v, got %v", want, open)
	}
}

func TestValidClock(t *testing.T) {
	for _, good := range []string{"00:00", "09:30", "23:59"} {
		if !ValidClock(good) {
			t.Errorf("expected %q to be valid", good)
		}
	}
	for _, bad := range []string{"24:00", "12:60", "9:3x", "nine", ""} {
		if ValidClock(bad) {
			t.Errorf("expected %q to be invalid", bad)
		}
	}
}
