// Package core provides the record types and date handling shared by the
// storage, sync and reporting layers.
//
// Dates are carried as plain "YYYY-MM-DD" strings in stored records, matching
// the persisted layout; this file holds the parsing and calendar arithmetic
// around them.
package core

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// ParseDate parses a stored YYYY-MM-DD value into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t in the stored YYYY-MM-DD layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatClock renders t in the stored HH:MM:SS layout.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// ValidateClock checks a stored HH:MM:SS value.
func ValidateClock(s string) error {
	if _, err := time.Parse(ClockLayout, s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return nil
}

// DateInRange reports whether date falls within [from, to] inclusive,
// comparing as calendar dates. Malformed inputs are never in range.
func DateInRange(date, from, to string) bool {
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	f, err := ParseDate(from)
	if err != nil {
		return false
	}
	t, err := ParseDate(to)
	if err != nil {
		return false
	}
	return !d.Before(f) && !d.After(t)
}

// DaysBetween returns the number of calendar days from a to b inclusive.
// Returns 0 when b precedes a.
func DaysBetween(a, b time.Time) int {
	a = a.Truncate(24 * time.Hour)
	b = b.Truncate(24 * time.Hour)
	if b.Before(a) {
		return 0
	}
	return int(b.Sub(a).Hours()/24) + 1
}
