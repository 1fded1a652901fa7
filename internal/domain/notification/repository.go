package notification

import (
	"context"
	"time"
)

// ScheduledRepository stores queued notifications.
type ScheduledRepository interface {
	// ListDue returns pending rows with scheduled_time <= now, earliest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]Scheduled, error)
	Create(ctx context.Context, item Scheduled) error
	MarkProcessed(ctx context.Context, id string, status Status, processedAt time.Time) error
}

// LogRepository appends per-recipient delivery logs.
type LogRepository interface {
	InsertBatch(ctx context.Context, logs []Log) error
}

// ProfileRepository reads push registrations.
type ProfileRepository interface {
	ListByUserIDs(ctx context.Context, userIDs []string) ([]Profile, error)
}
