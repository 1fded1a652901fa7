package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-manager/internal/domain/lineup"
	qb "github.com/riskibarqy/squad-manager/internal/platform/querybuilder"
)

// periodDocument is the stored shape of one period inside event_selections.periods.
type periodDocument struct {
	ID           string               `json:"id"`
	PeriodNumber int                  `json:"period_number"`
	Formation    string               `json:"formation"`
	Duration     int                  `json:"duration"`
	Positions    []assignmentDocument `json:"positions"`
	Substitutes  []string             `json:"substitutes"`
	CaptainID    string               `json:"captain_id,omitempty"`
}

type assignmentDocument struct {
	ID            string  `json:"id"`
	PositionName  string  `json:"position_name"`
	Abbreviation  string  `json:"abbreviation"`
	PositionGroup string  `json:"position_group"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	PlayerID      string  `json:"player_id,omitempty"`
	Fallback      bool    `json:"fallback,omitempty"`
}

type SelectionRepository struct {
	db *sqlx.DB
}

func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

func (r *SelectionRepository) GetByEvent(ctx context.Context, eventID string) (lineup.Selection, bool, error) {
	query, args, err := qb.Select("event_id", "team_id", "game_format", "periods", "applied_at").
		From("event_selections").
		Where(qb.Eq("event_id", eventID)).
		ToSQL()
	if err != nil {
		return lineup.Selection{}, false, fmt.Errorf("build get selection query: %w", err)
	}

	var row selectionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return lineup.Selection{}, false, nil
		}
		return lineup.Selection{}, false, fmt.Errorf("get selection: %w", err)
	}

	var docs []periodDocument
	if len(row.Periods) > 0 {
		if err := sonic.Unmarshal(row.Periods, &docs); err != nil {
			return lineup.Selection{}, false, fmt.Errorf("decode selection periods: %w", err)
		}
	}

	return lineup.Selection{
		EventID:    row.EventID,
		TeamID:     row.TeamID,
		GameFormat: row.GameFormat,
		Periods:    periodsFromDocuments(docs),
		AppliedAt:  row.AppliedAt,
	}, true, nil
}

func (r *SelectionRepository) Upsert(ctx context.Context, item lineup.Selection) error {
	encoded, err := sonic.MarshalString(periodsToDocuments(item.Periods))
	if err != nil {
		return fmt.Errorf("encode selection periods: %w", err)
	}

	query, args, err := qb.InsertModel("event_selections", selectionInsertModel{
		EventID:    item.EventID,
		TeamID:     item.TeamID,
		GameFormat: item.GameFormat,
		Periods:    encoded,
		AppliedAt:  item.AppliedAt,
	}, `ON CONFLICT (event_id)
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    game_format = EXCLUDED.game_format,
    periods = EXCLUDED.periods,
    applied_at = EXCLUDED.applied_at`)
	if err != nil {
		return fmt.Errorf("build upsert selection query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert selection: %w", err)
	}
	return nil
}

func periodsToDocuments(periods []lineup.Period) []periodDocument {
	out := make([]periodDocument, 0, len(periods))
	for _, p := range periods {
		doc := periodDocument{
			ID:           p.ID,
			PeriodNumber: p.PeriodNumber,
			Formation:    p.Formation,
			Duration:     p.Duration,
			Positions:    make([]assignmentDocument, 0, len(p.Positions)),
			Substitutes:  append([]string{}, p.Substitutes...),
			CaptainID:    p.CaptainID,
		}
		for _, a := range p.Positions {
			doc.Positions = append(doc.Positions, assignmentDocument{
				ID:            a.ID,
				PositionName:  a.PositionName,
				Abbreviation:  a.Abbreviation,
				PositionGroup: a.PositionGroup,
				X:             a.X,
				Y:             a.Y,
				PlayerID:      a.PlayerID,
				Fallback:      a.Fallback,
			})
		}
		out = append(out, doc)
	}
	return out
}

func periodsFromDocuments(docs []periodDocument) []lineup.Period {
	out := make([]lineup.Period, 0, len(docs))
	for _, d := range docs {
		p := lineup.Period{
			ID:           d.ID,
			PeriodNumber: d.PeriodNumber,
			Formation:    d.Formation,
			Duration:     d.Duration,
			Positions:    make([]lineup.Assignment, 0, len(d.Positions)),
			Substitutes:  append([]string(nil), d.Substitutes...),
			CaptainID:    d.CaptainID,
		}
		for _, a := range d.Positions {
			p.Positions = append(p.Positions, lineup.Assignment{
				ID:            a.ID,
				PositionName:  a.PositionName,
				Abbreviation:  a.Abbreviation,
				PositionGroup: a.PositionGroup,
				X:             a.X,
				Y:             a.Y,
				PlayerID:      a.PlayerID,
				Fallback:      a.Fallback,
			})
		}
		out = append(out, p)
	}
	return out
}
