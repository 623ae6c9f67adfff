// Package dates holds the calendar arithmetic shared by the grid, index and
// layout code. Every helper works in the location of its argument.
package dates

import "time"

// KeyLayout is the layout of day keys ("2025-01-31").
const KeyLayout = "2006-01-02"

// StartOfDay returns 00:00:00 of the given date.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of the given date.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

func AddDays(t time.Time, n int) time.Time   { return t.AddDate(0, 0, n) }
func AddWeeks(t time.Time, n int) time.Time  { return t.AddDate(0, 0, 7*n) }
func AddMonths(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) }
func AddYears(t time.Time, n int) time.Time  { return t.AddDate(n, 0, 0) }

// IsSameDay reports whether a and b fall on the same wall-clock date.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsWeekend returns true on Saturday and Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaysInMonth returns the number of days of the (normalized) month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the 1st of the month.
func FirstWeekday(year int, month time.Month) time.Weekday {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// Key formats the wall-clock date of t as YYYY-MM-DD.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey parses a YYYY-MM-DD key as midnight in loc.
func ParseKey(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(KeyLayout, s, loc)
}
