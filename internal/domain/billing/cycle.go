package billing

import (
	"time"

	"github.com/cpg/backend/internal/domain/catalog"
)

// NextCycle returns the next billing date after anchor for the given cadence.
// The day of month is kept when the target month has it and clamped to the
// month's last day otherwise, so 2024-01-31 monthly is 2024-02-29.
// Unrecognized cadences advance by one month.
func NextCycle(anchor time.Time, method catalog.RecurringMethod) time.Time {
	months, ok := method.Months()
	if !ok {
		months = 1
	}
	return addMonthsClamped(anchor, months)
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	// normalize through the first of the month to avoid time.Date overflow
	first := time.Date(year, month+time.Month(months), 1, hour, minute, sec, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
