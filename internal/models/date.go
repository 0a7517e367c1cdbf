// ABOUTME: Calendar-date helpers shared by records keyed by day.
// ABOUTME: Normalizes timestamps to midnight and formats the YYYY-MM-DD key.
package models

import "time"

// DateLayout is the storage and display layout for day-granularity keys.
const DateLayout = "2006-01-02"

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateKey returns the YYYY-MM-DD key for t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD key as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
