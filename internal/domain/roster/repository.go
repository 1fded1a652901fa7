package roster

import "context"

// Repository exposes team roster reads.
type Repository interface {
	ListPlayersByTeam(ctx context.Context, teamID string) ([]Player, error)
	ListStaffByTeam(ctx context.Context, teamID string) ([]Staff, error)
}
