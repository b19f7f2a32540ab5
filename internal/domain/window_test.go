package domain

import (
	"testing"
	"time"
)

func TestReminderWindowContains(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	window := NewReminderWindow(now, 45, 30)

	testCases := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{name: "inside range", expiry: now.AddDate(0, 0, 10), want: true},
		{name: "lower bound inclusive", expiry: now, want: true},
		{name: "upper bound exclusive", expiry: now.AddDate(0, 0, 45), want: false},
		{name: "just under upper bound", expiry: now.AddDate(0, 0, 45).Add(-time.Hour), want: true},
		{name: "milestone day midnight", expiry: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), want: true},
		{name: "expired yesterday", expiry: now.AddDate(0, 0, -1), want: false},
		{name: "far future", expiry: now.AddDate(0, 0, 50), want: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := window.Contains(tc.expiry); got != tc.want {
				t.Fatalf("Contains(%s) = %v, want %v", tc.expiry, got, tc.want)
			}
		})
	}
}

func TestReminderWindowMilestoneOutsideRange(t *testing.T) {
	t.Parallel()

	// A narrow horizon leaves the milestone day outside the rolling range;
	// the milestone match must still select it.
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	window := NewReminderWindow(now, 7, 30)

	milestone := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if !window.Contains(milestone) {
		t.Fatal("milestone day should be due even outside the rolling range")
	}
	if window.Contains(now.AddDate(0, 0, 10)) {
		t.Fatal("day 10 is outside a 7-day horizon and not the milestone")
	}
}

func TestReminderWindowMilestoneDayBounds(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	window := NewReminderWindow(now, 45, 30)

	start, end := window.MilestoneDay()
	wantStart := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Fatalf("start = %s, want %s", start, wantStart)
	}
	if !end.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Fatalf("end = %s, want %s", end, wantStart.AddDate(0, 0, 1))
	}
}

func TestPassportValidate(t *testing.T) {
	t.Parallel()

	valid := Passport{ID: "p-1", ExpiryDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	missingID := Passport{ExpiryDate: time.Now()}
	if err := missingID.Validate(); err == nil {
		t.Fatal("expected error for missing id")
	}

	missingExpiry := Passport{ID: "p-2"}
	if err := missingExpiry.Validate(); err == nil {
		t.Fatal("expected error for missing expiry date")
	}
}

func TestRunSummaryCounts(t *testing.T) {
	t.Parallel()

	summary := RunSummary{
		RunID:   "r-1",
		Trigger: TriggerScheduled,
		Outcomes: []DeliveryOutcome{
			{PassportID: "a", Status: DeliverySent},
			{PassportID: "b", Status: DeliveryFailed, FailureReason: "invalid recipient"},
			{PassportID: "c", Status: DeliverySent},
		},
	}

	if got := summary.SentCount(); got != 2 {
		t.Fatalf("SentCount() = %d, want 2", got)
	}
	if got := summary.FailedCount(); got != 1 {
		t.Fatalf("FailedCount() = %d, want 1", got)
	}
}
