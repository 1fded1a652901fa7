package notification

import "time"

type Type string

const (
	TypeEventReminder       Type = "event_reminder"
	TypeAvailabilityRequest Type = "availability_request"
	TypeManualReminder      Type = "manual_reminder"
	TypeWeeklyNudge         Type = "weekly_nudge"
)

func (t Type) Valid() bool {
	switch t {
	case TypeEventReminder, TypeAvailabilityRequest, TypeManualReminder, TypeWeeklyNudge:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Scheduled is one scheduled_notifications row.
type Scheduled struct {
	ID            string
	EventID       string
	Type          Type
	ScheduledTime time.Time
	TargetUsers   []string
	Data          map[string]string
	Status        Status
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

type LogStatus string

const (
	LogSent   LogStatus = "sent"
	LogFailed LogStatus = "failed"
)

// Log is the per-recipient delivery outcome.
type Log struct {
	ID           string
	ScheduledID  string
	EventID      string
	UserID       string
	Type         Type
	Status       LogStatus
	ErrorMessage string
	SentAt       time.Time
}

type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWeb     Platform = "web"
)

// Profile is the push registration of one user.
type Profile struct {
	UserID      string
	PushToken   string
	Platform    Platform
	Preferences Preferences
}

// DeepLinkGrant is the user and event a quick-action token was issued for.
type DeepLinkGrant struct {
	UserID  string
	EventID string
}
