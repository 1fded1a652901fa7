package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-manager/internal/domain/event"
	qb "github.com/riskibarqy/squad-manager/internal/platform/querybuilder"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetByID(ctx context.Context, eventID string) (event.Event, bool, error) {
	query, args, err := eventBaseSelectBuilder().
		Where(qb.Eq("id", eventID)).
		ToSQL()
	if err != nil {
		return event.Event{}, false, fmt.Errorf("build get event query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Event{}, false, nil
		}
		return event.Event{}, false, fmt.Errorf("get event: %w", err)
	}
	return eventFromRow(row), true, nil
}

func (r *EventRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	query, args, err := eventBaseSelectBuilder().
		Where(
			qb.Gte("start_time", from.UTC()),
			qb.Lt("start_time", to.UTC()),
		).
		OrderBy("start_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list upcoming events query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventFromRow(row))
	}
	return out, nil
}

func eventFromRow(row eventTableModel) event.Event {
	return event.Event{
		ID:         row.ID,
		TeamID:     row.TeamID,
		Title:      row.Title,
		Type:       event.ParseType(row.EventType),
		StartTime:  row.StartTime,
		Location:   row.Location.String,
		GameFormat: row.GameFormat.String,
	}
}

func eventBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("id", "team_id", "title", "event_type", "start_time", "location", "game_format").From("events")
}
