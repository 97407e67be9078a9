// Package timeutil handles the date and time-of-day wire formats of the
// scheduling collaborator. Exam requests carry a calendar date and a
// separate hour-of-day string, so the two are parsed and formatted
// independently. No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Wire formats used by the collaborator.
const (
	// FormatDate is the exam date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatHour is the exam hour format with seconds (HH:MM:SS).
	FormatHour = "15:04:05"
	// FormatHourShort is the exam hour format without seconds (HH:MM).
	FormatHourShort = "15:04"
)

// ParseDate parses an exam date. Dates are calendar days with no
// timezone on the wire; they are anchored in UTC so a round trip through
// FormatDateStr is stable regardless of the host timezone.
func ParseDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if t, err := time.ParseInLocation(FormatDate, v, time.UTC); err == nil {
		return t, nil
	}
	// Some collaborator responses serialize dates as full timestamps.
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC().Truncate(24 * time.Hour), nil
	}
	return time.Time{}, fmt.Errorf("parse date %q: want %s", value, FormatDate)
}

// FormatDateStr formats a time as a wire date string.
func FormatDateStr(t time.Time) string {
	return t.UTC().Format(FormatDate)
}

// NormalizeHour validates an hour-of-day string and returns it in the
// canonical HH:MM:SS wire form. Both HH:MM and HH:MM:SS inputs are
// accepted; anything else is rejected.
func NormalizeHour(value string) (string, error) {
	v := strings.TrimSpace(value)
	if t, err := time.Parse(FormatHour, v); err == nil {
		return t.Format(FormatHour), nil
	}
	if t, err := time.Parse(FormatHourShort, v); err == nil {
		return t.Format(FormatHour), nil
	}
	return "", fmt.Errorf("parse hour %q: want %s or %s", value, FormatHourShort, FormatHour)
}

// DisplayHour shortens a wire hour to HH:MM for rendering. Invalid
// input is returned as-is; display never fails.
func DisplayHour(value string) string {
	if t, err := time.Parse(FormatHour, strings.TrimSpace(value)); err == nil {
		return t.Format(FormatHourShort)
	}
	return value
}
