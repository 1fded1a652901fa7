package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/squad-manager/internal/domain/lineup"
	"github.com/riskibarqy/squad-manager/internal/domain/notification"
)

// TeamBuilderRequest is sent to the AI suggestion function.
type TeamBuilderRequest struct {
	Prompt           string
	TeamID           string
	EventID          string
	GameFormat       string
	GameDuration     int
	TeamNumber       int
	SquadPlayerIDs   []string
	CurrentFormation string
}

type TeamBuilderResponse struct {
	Periods   []lineup.AIPeriod
	Reasoning string
}

// SuggestionClient calls the external AI team builder.
type SuggestionClient interface {
	Suggest(ctx context.Context, req TeamBuilderRequest) (TeamBuilderResponse, error)
}

// PushSender delivers one message to the push gateway.
type PushSender interface {
	HasCredentials() bool
	Send(ctx context.Context, msg notification.Message) error
}

// DeepLinkTokenIssuer creates a one-time token embedded in notification quick actions.
type DeepLinkTokenIssuer interface {
	IssueToken(ctx context.Context, userID, eventID string) (string, error)
}

// DeepLinkRedeemer consumes a quick-action token. ok is false for unknown, used and
// expired tokens.
type DeepLinkRedeemer interface {
	RedeemToken(ctx context.Context, token string) (grant notification.DeepLinkGrant, ok bool, err error)
}

// JobQueue schedules a delayed call to an internal job endpoint.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}
