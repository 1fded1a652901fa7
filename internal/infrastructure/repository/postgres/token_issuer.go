package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-manager/internal/domain/notification"
)

// redeemDeepLinkTokenSQL marks a live token used and returns its grant in one statement,
// so two concurrent taps cannot both redeem it.
const redeemDeepLinkTokenSQL = `UPDATE deep_link_tokens SET used_at = NOW() ` +
	`WHERE token = $1 AND used_at IS NULL AND expires_at > NOW() ` +
	`RETURNING user_id, event_id`

// DeepLinkTokenIssuer issues tokens through the generate_deep_link_token procedure
// and redeems them against deep_link_tokens.
type DeepLinkTokenIssuer struct {
	db *sqlx.DB
}

func NewDeepLinkTokenIssuer(db *sqlx.DB) *DeepLinkTokenIssuer {
	return &DeepLinkTokenIssuer{db: db}
}

func (i *DeepLinkTokenIssuer) IssueToken(ctx context.Context, userID, eventID string) (string, error) {
	var token string
	if err := i.db.GetContext(ctx, &token, "SELECT generate_deep_link_token($1, $2)", userID, eventID); err != nil {
		return "", fmt.Errorf("generate deep link token: %w", err)
	}
	return token, nil
}

func (i *DeepLinkTokenIssuer) RedeemToken(ctx context.Context, token string) (notification.DeepLinkGrant, bool, error) {
	var row deepLinkGrantTableModel
	if err := i.db.GetContext(ctx, &row, redeemDeepLinkTokenSQL, token); err != nil {
		if isNotFound(err) {
			return notification.DeepLinkGrant{}, false, nil
		}
		return notification.DeepLinkGrant{}, false, fmt.Errorf("redeem deep link token: %w", err)
	}
	return notification.DeepLinkGrant{UserID: row.UserID, EventID: row.EventID}, true, nil
}
