package cache

import (
	"context"
	"slices"

	"github.com/riskibarqy/squad-manager/internal/domain/roster"
	basecache "github.com/riskibarqy/squad-manager/internal/platform/cache"
)

// RosterRepository is a read-through cache over team roster reads.
type RosterRepository struct {
	next    roster.Repository
	players *basecache.Store[[]roster.Player]
	staff   *basecache.Store[[]roster.Staff]
}

func NewRosterRepository(next roster.Repository, players *basecache.Store[[]roster.Player], staff *basecache.Store[[]roster.Staff]) *RosterRepository {
	return &RosterRepository{next: next, players: players, staff: staff}
}

func (r *RosterRepository) ListPlayersByTeam(ctx context.Context, teamID string) ([]roster.Player, error) {
	items, err := r.players.GetOrLoad(ctx, "roster:players:"+teamID, func(ctx context.Context) ([]roster.Player, error) {
		return r.next.ListPlayersByTeam(ctx, teamID)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func (r *RosterRepository) ListStaffByTeam(ctx context.Context, teamID string) ([]roster.Staff, error) {
	items, err := r.staff.GetOrLoad(ctx, "roster:staff:"+teamID, func(ctx context.Context) ([]roster.Staff, error) {
		return r.next.ListStaffByTeam(ctx, teamID)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}
