package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/squad-manager/internal/domain/roster"
)

type RosterRepository struct {
	mu      sync.RWMutex
	players []roster.Player
	staff   []roster.Staff
}

func NewRosterRepository(players []roster.Player, staff []roster.Staff) *RosterRepository {
	return &RosterRepository{players: slices.Clone(players), staff: slices.Clone(staff)}
}

func (r *RosterRepository) ListPlayersByTeam(_ context.Context, teamID string) ([]roster.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Player, 0)
	for _, p := range r.players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *RosterRepository) ListStaffByTeam(_ context.Context, teamID string) ([]roster.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Staff, 0)
	for _, s := range r.staff {
		if s.TeamID == teamID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *RosterRepository) AddPlayer(p roster.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players = append(r.players, p)
}
