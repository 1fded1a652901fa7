package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/squad-manager/internal/domain/availability"
)

type AvailabilityRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]availability.Record
}

func NewAvailabilityRepository(seed []availability.Record) *AvailabilityRepository {
	r := &AvailabilityRepository{items: make(map[string]map[string]availability.Record)}
	for _, rec := range seed {
		r.put(rec)
	}
	return r
}

func (r *AvailabilityRepository) Summarize(_ context.Context, eventID string) (availability.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out availability.Summary
	for _, rec := range r.items[eventID] {
		out.Add(rec.Status, 1)
	}
	return out, nil
}

func (r *AvailabilityRepository) ListUserIDsByStatus(_ context.Context, eventID string, status availability.Status) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for userID, rec := range r.items[eventID] {
		if rec.Status == status {
			out = append(out, userID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *AvailabilityRepository) Upsert(_ context.Context, record availability.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(record)
	return nil
}

func (r *AvailabilityRepository) put(record availability.Record) {
	byUser, ok := r.items[record.EventID]
	if !ok {
		byUser = make(map[string]availability.Record)
		r.items[record.EventID] = byUser
	}
	byUser[record.UserID] = record
}
