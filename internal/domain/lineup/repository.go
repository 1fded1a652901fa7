package lineup

import "context"

// SelectionRepository persists applied event selections.
type SelectionRepository interface {
	GetByEvent(ctx context.Context, eventID string) (Selection, bool, error)
	Upsert(ctx context.Context, selection Selection) error
}
