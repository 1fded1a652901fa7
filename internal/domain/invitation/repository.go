package invitation

import "context"

// Repository persists the invitation set of an event.
type Repository interface {
	ListByEvent(ctx context.Context, eventID string) ([]Invitation, error)
	// ReplaceForEvent deletes every row of the event and inserts rows atomically.
	ReplaceForEvent(ctx context.Context, eventID string, rows []Invitation) error
}
