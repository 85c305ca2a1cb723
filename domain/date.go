package domain

import (
	"fmt"
	"time"
)

// DateLayout is ISO 8601 calendar-date format. Lexicographic order of values in
// this layout equals chronological order.
const DateLayout = "2006-01-02"

// Date is a calendar day without time-of-day, stored as YYYY-MM-DD.
type Date string

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate validates s as YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(s), nil
}

func (d Date) Before(other Date) bool {
	return d < other
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

func (d Date) String() string {
	return string(d)
}
