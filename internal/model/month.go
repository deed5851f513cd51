package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

// MonthKey is a YYYY-MM calendar month identifier.
type MonthKey string

// MonthOf returns the month key for t in t's location.
func MonthOf(t time.Time) MonthKey {
	return MonthKey(t.Format(monthLayout))
}

// ParseMonthKey validates a YYYY-MM string.
func ParseMonthKey(raw string) (MonthKey, error) {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse(monthLayout, raw); err != nil {
		return "", fmt.Errorf("%w: invalid month %q, want YYYY-MM", ErrValidation, raw)
	}
	return MonthKey(raw), nil
}

func (m MonthKey) String() string {
	return string(m)
}

// IsZero reports whether the key is unset.
func (m MonthKey) IsZero() bool {
	return m == ""
}

// Contains reports whether a YYYY-MM-DD date falls inside the month.
func (m MonthKey) Contains(date string) bool {
	if m == "" {
		return false
	}
	return strings.HasPrefix(date, string(m)+"-")
}

// Start returns midnight of the first day of the month in loc.
func (m MonthKey) Start(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(monthLayout, string(m), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse month %q: %w", string(m), err)
	}
	return t, nil
}

// Add shifts the month by n (negative goes back).
func (m MonthKey) Add(n int) MonthKey {
	start, err := m.Start(time.UTC)
	if err != nil {
		return m
	}
	return MonthOf(start.AddDate(0, n, 0))
}

// Label renders the month as "October 2026".
func (m MonthKey) Label() string {
	start, err := m.Start(time.UTC)
	if err != nil {
		return string(m)
	}
	return fmt.Sprintf("%s %d", start.Month(), start.Year())
}

// RecentMonths returns the n months ending at now's month, newest first.
func RecentMonths(now time.Time, n int) []MonthKey {
	if n <= 0 {
		return nil
	}
	current := MonthOf(now)
	out := make([]MonthKey, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, current.Add(-i))
	}
	return out
}

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", ErrValidation, raw)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DayOfMonth extracts the day from a YYYY-MM-DD date, or 0 when malformed.
func DayOfMonth(date string) int {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0
	}
	return t.Day()
}
