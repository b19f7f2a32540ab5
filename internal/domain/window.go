package domain

import "time"

// ReminderWindow is the due-date window for one run. It is recomputed from
// wall clock on every run and never stored.
//
// A record is due when its expiry falls in [LowerBound, UpperBound) or on the
// same calendar day as Milestone. The union is intentional: the range gives a
// rolling "within N days" sweep, the milestone guarantees a fire exactly
// MilestoneDays out even if the sweep was skipped around that date.
type ReminderWindow struct {
	Now        time.Time
	LowerBound time.Time
	UpperBound time.Time
	Milestone  time.Time
}

func NewReminderWindow(now time.Time, horizonDays, milestoneDays int) ReminderWindow {
	now = now.UTC()
	return ReminderWindow{
		Now:        now,
		LowerBound: now,
		UpperBound: now.AddDate(0, 0, horizonDays),
		Milestone:  now.AddDate(0, 0, milestoneDays),
	}
}

func (w ReminderWindow) Contains(expiry time.Time) bool {
	expiry = expiry.UTC()
	inRange := !expiry.Before(w.LowerBound) && expiry.Before(w.UpperBound)
	return inRange || sameCalendarDay(expiry, w.Milestone)
}

// MilestoneDay returns the [start, end) bounds of the milestone's calendar
// day in UTC, for day-granular store queries.
func (w ReminderWindow) MilestoneDay() (time.Time, time.Time) {
	y, m, d := w.Milestone.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
