package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-manager/internal/domain/roster"
	qb "github.com/riskibarqy/squad-manager/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListPlayersByTeam(ctx context.Context, teamID string) ([]roster.Player, error) {
	query, args, err := qb.Select("id", "team_id", "user_id", "name", "position").
		From("players").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players by team: %w", err)
	}

	out := make([]roster.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, roster.Player{
			ID:       row.ID,
			TeamID:   row.TeamID,
			UserID:   row.UserID.String,
			Name:     row.Name,
			Position: row.Position.String,
		})
	}
	return out, nil
}

func (r *RosterRepository) ListStaffByTeam(ctx context.Context, teamID string) ([]roster.Staff, error) {
	query, args, err := qb.Select("id", "team_id", "user_id", "name", "role").
		From("team_staff").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team staff query: %w", err)
	}

	var rows []staffTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team staff: %w", err)
	}

	out := make([]roster.Staff, 0, len(rows))
	for _, row := range rows {
		out = append(out, roster.Staff{
			ID:     row.ID,
			TeamID: row.TeamID,
			UserID: row.UserID.String,
			Name:   row.Name,
			Role:   row.Role.String,
		})
	}
	return out, nil
}
