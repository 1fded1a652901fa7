package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/squad-manager/internal/domain/lineup"
)

type SelectionRepository struct {
	mu    sync.RWMutex
	items map[string]lineup.Selection
}

func NewSelectionRepository() *SelectionRepository {
	return &SelectionRepository{items: make(map[string]lineup.Selection)}
}

func (r *SelectionRepository) GetByEvent(_ context.Context, eventID string) (lineup.Selection, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[eventID]
	if !ok {
		return lineup.Selection{}, false, nil
	}
	return cloneSelection(item), true, nil
}

func (r *SelectionRepository) Upsert(_ context.Context, item lineup.Selection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.EventID] = cloneSelection(item)
	return nil
}

func cloneSelection(item lineup.Selection) lineup.Selection {
	copied := item
	copied.Periods = make([]lineup.Period, 0, len(item.Periods))
	for _, p := range item.Periods {
		p.Positions = slices.Clone(p.Positions)
		p.Substitutes = slices.Clone(p.Substitutes)
		copied.Periods = append(copied.Periods, p)
	}
	return copied
}
