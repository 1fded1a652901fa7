package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/squad-manager/internal/domain/invitation"
)

type InvitationRepository struct {
	mu    sync.RWMutex
	items map[string][]invitation.Invitation
}

func NewInvitationRepository() *InvitationRepository {
	return &InvitationRepository{items: make(map[string][]invitation.Invitation)}
}

func (r *InvitationRepository) ListByEvent(_ context.Context, eventID string) ([]invitation.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.items[eventID]), nil
}

// ReplaceForEvent swaps the whole set under the write lock.
func (r *InvitationRepository) ReplaceForEvent(_ context.Context, eventID string, rows []invitation.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(rows) == 0 {
		delete(r.items, eventID)
		return nil
	}
	r.items[eventID] = slices.Clone(rows)
	return nil
}
