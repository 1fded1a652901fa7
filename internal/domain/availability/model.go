package availability

import "time"

type Status string

const (
	StatusPending     Status = "pending"
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAvailable, StatusUnavailable:
		return true
	default:
		return false
	}
}

// Record is one user's RSVP for an event.
type Record struct {
	EventID   string
	UserID    string
	Status    Status
	UpdatedAt time.Time
}

// Summary counts availability rows of an event by status.
type Summary struct {
	Available   int
	Unavailable int
	Pending     int
	Total       int
}

// Add records count rows of status s. Unknown statuses still count toward Total.
func (s *Summary) Add(status Status, count int) {
	switch status {
	case StatusAvailable:
		s.Available += count
	case StatusUnavailable:
		s.Unavailable += count
	case StatusPending:
		s.Pending += count
	}
	s.Total += count
}
