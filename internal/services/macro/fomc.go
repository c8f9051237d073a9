package macro

import "time"

// FOMC schedule and rate context. Maintained by hand when the Fed publishes
// its calendar; the dashboard only needs the next upcoming date plus the
// current target range.
const (
	fedFundsRate       = "3.50% - 3.75%"
	fedLastDecision    = "Rates held steady at the Jan 27-28 meeting; two dissents favoured a cut."
	nextMeetingCutOdds = 0.07 // market-implied, refreshed with the table
)

var fomcMeetings = []time.Time{
	time.Date(2026, time.January, 28, 0, 0, 0, 0, time.UTC),
	time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC),
	time.Date(2026, time.April, 29, 0, 0, 0, 0, time.UTC),
	time.Date(2026, time.June, 17, 0, 0, 0, 0, time.UTC),
	time.Date(2026, time.July, 29, 0, 0, 0, 0, time.UTC),
	time.Date(2026, time.September, 16, 0, 0, 0, 0, time.UTC),
	time.Date(2026, time.October, 28, 0, 0, 0, 0, time.UTC),
	time.Date(2026, time.December, 9, 0, 0, 0, 0, time.UTC),
}

// nextMeeting returns the first scheduled meeting on or after now, or nil
// once the table runs out.
func nextMeeting(now time.Time) *time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, m := range fomcMeetings {
		if !m.Before(day) {
			mm := m
			return &mm
		}
	}
	return nil
}
