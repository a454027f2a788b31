package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DefaultSlotSize is used when no slot size is configured.
const DefaultSlotSize = 30 * time.Minute

// parseClock converts a "HH:MM" clock string to minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidClock reports whether s is a well-formed 24h "HH:MM" string.
func ValidClock(s string) bool {
	_, err := parseClock(s)
	return err == nil
}

// GenerateSlots expands availability windows into candidate slot start times.
// Slots are aligned to the window start and stepped by slotSize; a slot is
// only offered when it fits entirely inside the window, so a window shorter
// than slotSize yields nothing. Windows that fail to parse or run backwards
// contribute no slots. Output order follows the window order, earliest slot
// first within each window.
func GenerateSlots(windows []*ProviderSchedule, slotSize time.Duration) []string {
	step := int(slotSize / time.Minute)
	if step <= 0 {
		step = int(DefaultSlotSize / time.Minute)
	}

	slots := []string{}
	for _, w := range windows {
		start, err := parseClock(w.StartTime)
		if err != nil {
			continue
		}
		end, err := parseClock(w.EndTime)
		if err != nil {
			continue
		}
		for t := start; t+step <= end; t += step {
			slots = append(slots, formatClock(t))
		}
	}
	return slots
}

// FilterConflicts removes already-booked slot times from the candidate list.
// Matching is exact on the "HH:MM" key. Candidate order is preserved and
// duplicates are dropped, keeping the first occurrence.
func FilterConflicts(candidates, booked []string) []string {
	taken := make(map[string]bool, len(booked))
	for _, b := range booked {
		taken[b] = true
	}

	open := []string{}
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if taken[c] || seen[c] {
			continue
		}
		seen[c] = true
		open = append(open, c)
	}
	return open
}
