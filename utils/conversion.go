package utils

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-date format used across the API,
// storage and cache keys.
const DateLayout = "2006-01-02"

// ParseDate strictly parses a "2006-01-02" date in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatMinutes renders minutes-from-midnight as a 24h clock label, e.g.
// 540 -> "09:00".
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseClock converts a "15:04" clock string into minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q (want HH:MM): %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// IntervalLabel renders a booking/slot interval for client display, e.g.
// "09:00 - 10:30".
func IntervalLabel(start, end int) string {
	return fmt.Sprintf("%s - %s", FormatMinutes(start), FormatMinutes(end))
}
