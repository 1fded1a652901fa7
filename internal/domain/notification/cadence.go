package notification

import "time"

const nudgeHour = 19

// nudgeOffsets maps the current weekday to the days until the next nudge slot.
var nudgeOffsets = map[time.Weekday]int{
	time.Monday:    2, // Wednesday
	time.Tuesday:   1,
	time.Wednesday: 2, // Friday
	time.Thursday:  1,
	time.Friday:    2, // Sunday
	time.Saturday:  1,
	time.Sunday:    3, // Wednesday
}

// NextNudgeTime returns the next Wednesday, Friday or Sunday at 19:00 in now's location.
// The slot is chosen by weekday only, never by the time of day.
func NextNudgeTime(now time.Time) time.Time {
	days := nudgeOffsets[now.Weekday()]
	y, m, d := now.Date()
	return time.Date(y, m, d+days, nudgeHour, 0, 0, 0, now.Location())
}
