// Package calendar resolves calendar-day windows against a trading calendar.
package calendar

import "time"

// Day truncates t to midnight UTC of its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ResolveEnd returns the weekend-aware last trading day of a window of
// windowDays calendar days starting on start. A tentative end on Saturday
// moves back to Friday; one on Sunday moves forward to Monday so that
// consecutive weekend ends never collapse onto the same Friday.
func ResolveEnd(start time.Time, windowDays int) time.Time {
	if windowDays < 1 {
		windowDays = 1
	}
	tentative := Day(start).AddDate(0, 0, windowDays-1)

	switch tentative.Weekday() {
	case time.Saturday:
		return tentative.AddDate(0, 0, -1)
	case time.Sunday:
		return tentative.AddDate(0, 0, 1)
	default:
		return tentative
	}
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
