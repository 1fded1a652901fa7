package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-manager/internal/domain/invitation"
	qb "github.com/riskibarqy/squad-manager/internal/platform/querybuilder"
)

type InvitationRepository struct {
	db *sqlx.DB
}

func NewInvitationRepository(db *sqlx.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) ListByEvent(ctx context.Context, eventID string) ([]invitation.Invitation, error) {
	query, args, err := qb.Select("event_id", "player_id", "staff_id", "invitee_type", "created_at").
		From("event_invitations").
		Where(qb.Eq("event_id", eventID)).
		OrderBy("invitee_type", "created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list invitations query: %w", err)
	}

	var rows []invitationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	out := make([]invitation.Invitation, 0, len(rows))
	for _, row := range rows {
		out = append(out, invitation.Invitation{
			EventID:     row.EventID,
			PlayerID:    row.PlayerID.String,
			StaffID:     row.StaffID.String,
			InviteeType: invitation.InviteeType(row.InviteeType),
			CreatedAt:   row.CreatedAt,
		})
	}
	return out, nil
}

// ReplaceForEvent swaps the whole invitation set in one transaction. An empty set leaves
// the event with no rows, which reads back as everyone invited.
func (r *InvitationRepository) ReplaceForEvent(ctx context.Context, eventID string, rows []invitation.Invitation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace invitations: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("event_invitations").
		Where(qb.Eq("event_id", eventID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete invitations query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete invitations: %w", err)
	}

	if len(rows) > 0 {
		insert := qb.InsertInto("event_invitations").
			Columns("event_id", "player_id", "staff_id", "invitee_type", "created_at")
		for _, row := range rows {
			createdAt := row.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now().UTC()
			}
			insert.Values(eventID, nullString(row.PlayerID), nullString(row.StaffID), string(row.InviteeType), createdAt)
		}
		insertQuery, insertArgs, err := insert.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert invitations query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert invitations: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace invitations tx: %w", err)
	}
	return nil
}
