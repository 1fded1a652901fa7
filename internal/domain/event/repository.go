package event

import (
	"context"
	"time"
)

// Repository exposes event read operations.
type Repository interface {
	GetByID(ctx context.Context, eventID string) (Event, bool, error)
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]Event, error)
}
