package availability

import "context"

// Repository stores per-user RSVP rows.
type Repository interface {
	Summarize(ctx context.Context, eventID string) (Summary, error)
	ListUserIDsByStatus(ctx context.Context, eventID string, status Status) ([]string, error)
	Upsert(ctx context.Context, record Record) error
}
