package notification

import (
	"testing"
	"time"
)

func TestNextNudgeTime(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	// 2026-10-12 is a Monday.
	monday := time.Date(2026, 10, 12, 8, 30, 0, 0, loc)

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{name: "monday to wednesday", now: monday, want: time.Date(2026, 10, 14, 19, 0, 0, 0, loc)},
		{name: "tuesday to wednesday", now: monday.AddDate(0, 0, 1), want: time.Date(2026, 10, 14, 19, 0, 0, 0, loc)},
		{name: "wednesday evening to friday", now: time.Date(2026, 10, 14, 18, 0, 0, 0, loc), want: time.Date(2026, 10, 16, 19, 0, 0, 0, loc)},
		{name: "thursday to friday", now: monday.AddDate(0, 0, 3), want: time.Date(2026, 10, 16, 19, 0, 0, 0, loc)},
		{name: "friday to sunday", now: monday.AddDate(0, 0, 4), want: time.Date(2026, 10, 18, 19, 0, 0, 0, loc)},
		{name: "saturday to sunday", now: monday.AddDate(0, 0, 5), want: time.Date(2026, 10, 18, 19, 0, 0, 0, loc)},
		{name: "sunday to wednesday", now: monday.AddDate(0, 0, 6), want: time.Date(2026, 10, 21, 19, 0, 0, 0, loc)},
		{name: "month rollover", now: time.Date(2026, 10, 31, 12, 0, 0, 0, loc), want: time.Date(2026, 11, 1, 19, 0, 0, 0, loc)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextNudgeTime(tc.now)
			if !got.Equal(tc.want) {
				t.Fatalf("unexpected nudge time: got=%v want=%v", got, tc.want)
			}
			if got.Location() != loc {
				t.Fatalf("nudge time must keep the caller's location")
			}
		})
	}
}
