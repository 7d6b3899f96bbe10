package utils

import "time"

// DateKey formats t the way booking dates are stored, so it can be used in an
// exact-match query. Booking dates are opaque strings; this is the only place a
// calendar date is turned into one.
func DateKey(t time.Time, layout string) string {
	if layout == "" {
		layout = "Jan 2, 2006"
	}
	return t.Format(layout)
}

// Tomorrow returns the same wall-clock time one calendar day after t.
func Tomorrow(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}
