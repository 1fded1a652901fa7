package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/squad-manager/internal/domain/notification"
)

type ScheduledNotificationRepository struct {
	mu    sync.RWMutex
	items map[string]notification.Scheduled
}

func NewScheduledNotificationRepository() *ScheduledNotificationRepository {
	return &ScheduledNotificationRepository{items: make(map[string]notification.Scheduled)}
}

func (r *ScheduledNotificationRepository) ListDue(_ context.Context, now time.Time, limit int) ([]notification.Scheduled, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notification.Scheduled, 0)
	for _, item := range r.items {
		if item.Status == notification.StatusPending && !item.ScheduledTime.After(now) {
			out = append(out, cloneScheduled(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledTime.Before(out[j].ScheduledTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ScheduledNotificationRepository) Create(_ context.Context, item notification.Scheduled) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("scheduled notification %s already exists", item.ID)
	}
	if item.Status == "" {
		item.Status = notification.StatusPending
	}
	r.items[item.ID] = cloneScheduled(item)
	return nil
}

func (r *ScheduledNotificationRepository) MarkProcessed(_ context.Context, id string, status notification.Status, processedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("scheduled notification %s not found", id)
	}
	item.Status = status
	item.ProcessedAt = &processedAt
	r.items[id] = item
	return nil
}

// Get is a test and seeding helper.
func (r *ScheduledNotificationRepository) Get(id string) (notification.Scheduled, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	return cloneScheduled(item), ok
}

func cloneScheduled(item notification.Scheduled) notification.Scheduled {
	copied := item
	copied.TargetUsers = slices.Clone(item.TargetUsers)
	copied.Data = maps.Clone(item.Data)
	return copied
}

type NotificationLogRepository struct {
	mu    sync.RWMutex
	items []notification.Log
	seq   int
}

func NewNotificationLogRepository() *NotificationLogRepository {
	return &NotificationLogRepository{}
}

func (r *NotificationLogRepository) InsertBatch(_ context.Context, logs []notification.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range logs {
		if l.ID == "" {
			r.seq++
			l.ID = fmt.Sprintf("log-%d", r.seq)
		}
		r.items = append(r.items, l)
	}
	return nil
}

func (r *NotificationLogRepository) All() []notification.Log {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items)
}

type ProfileRepository struct {
	mu    sync.RWMutex
	items map[string]notification.Profile
}

func NewProfileRepository(seed []notification.Profile) *ProfileRepository {
	items := make(map[string]notification.Profile, len(seed))
	for _, p := range seed {
		items[p.UserID] = p
	}
	return &ProfileRepository{items: items}
}

func (r *ProfileRepository) ListByUserIDs(_ context.Context, userIDs []string) ([]notification.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notification.Profile, 0, len(userIDs))
	for _, id := range userIDs {
		if p, ok := r.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
