package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-manager/internal/domain/availability"
	qb "github.com/riskibarqy/squad-manager/internal/platform/querybuilder"
)

type AvailabilityRepository struct {
	db *sqlx.DB
}

func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) Summarize(ctx context.Context, eventID string) (availability.Summary, error) {
	query, args, err := qb.Select("status", "COUNT(*) AS total").
		From("event_availability").
		Where(qb.Eq("event_id", eventID)).
		GroupBy("status").
		ToSQL()
	if err != nil {
		return availability.Summary{}, fmt.Errorf("build summarize availability query: %w", err)
	}

	var rows []availabilityCountRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return availability.Summary{}, fmt.Errorf("summarize availability: %w", err)
	}

	var out availability.Summary
	for _, row := range rows {
		out.Add(availability.Status(row.Status), row.Total)
	}
	return out, nil
}

func (r *AvailabilityRepository) ListUserIDsByStatus(ctx context.Context, eventID string, status availability.Status) ([]string, error) {
	query, args, err := qb.Select("user_id").
		From("event_availability").
		Where(
			qb.Eq("event_id", eventID),
			qb.Eq("status", string(status)),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list availability users query: %w", err)
	}

	out := make([]string, 0)
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list availability users: %w", err)
	}
	return out, nil
}

func (r *AvailabilityRepository) Upsert(ctx context.Context, record availability.Record) error {
	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	query, args, err := qb.InsertModel("event_availability", availabilityInsertModel{
		EventID:   record.EventID,
		UserID:    record.UserID,
		Status:    string(record.Status),
		UpdatedAt: updatedAt,
	}, `ON CONFLICT (event_id, user_id)
DO UPDATE SET
    status = EXCLUDED.status,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert availability query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert availability: %w", err)
	}
	return nil
}
