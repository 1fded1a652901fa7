package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/squad-manager/internal/domain/event"
)

type EventRepository struct {
	mu    sync.RWMutex
	items map[string]event.Event
}

func NewEventRepository(seed []event.Event) *EventRepository {
	items := make(map[string]event.Event, len(seed))
	for _, ev := range seed {
		items[ev.ID] = ev
	}
	return &EventRepository{items: items}
}

func (r *EventRepository) GetByID(_ context.Context, eventID string) (event.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ev, ok := r.items[eventID]
	return ev, ok, nil
}

func (r *EventRepository) ListStartingBetween(_ context.Context, from, to time.Time) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0)
	for _, ev := range r.items {
		if !ev.StartTime.Before(from) && ev.StartTime.Before(to) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *EventRepository) Put(ev event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[ev.ID] = ev
}
