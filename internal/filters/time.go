// Package filters gates the pipeline on session constraints.
package filters

import "time"

// TimeFilter enforces the weekend rule for the FX session: closed all of
// Saturday, Sunday before 22:00 UTC, and Friday from 21:00 UTC.
type TimeFilter struct{}

// IsTradingAllowed reports whether the market is open at t, with a reason
// for the journal when it is not.
func (TimeFilter) IsTradingAllowed(t time.Time) (bool, string) {
	utc := t.UTC()
	day := utc.Weekday()
	hour := utc.Hour()

	switch {
	case day == time.Saturday:
		return false, "Weekend (Saturday)"
	case day == time.Sunday && hour < 22:
		return false, "Weekend (Sunday Pre-Open)"
	case day == time.Friday && hour >= 21:
		return false, "Weekend (Friday Post-Close)"
	}
	return true, "Market Open"
}
