package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/squad-manager/internal/domain/notification"
	"github.com/riskibarqy/squad-manager/internal/platform/id"
)

// deepLinkTTL matches the expiry set by generate_deep_link_token.
const deepLinkTTL = 7 * 24 * time.Hour

type deepLinkGrant struct {
	grant     notification.DeepLinkGrant
	expiresAt time.Time
}

// TokenIssuer keeps issued deep-link tokens in memory when no database is configured.
type TokenIssuer struct {
	mu     sync.Mutex
	grants map[string]deepLinkGrant
	now    func() time.Time
}

func NewTokenIssuer() *TokenIssuer {
	return &TokenIssuer{grants: make(map[string]deepLinkGrant), now: time.Now}
}

func (t *TokenIssuer) IssueToken(_ context.Context, userID, eventID string) (string, error) {
	token, err := id.NewToken(24)
	if err != nil {
		return "", err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.grants[token] = deepLinkGrant{
		grant:     notification.DeepLinkGrant{UserID: userID, EventID: eventID},
		expiresAt: t.now().Add(deepLinkTTL),
	}
	return token, nil
}

// RedeemToken returns the grant of a live token and forgets it.
func (t *TokenIssuer) RedeemToken(_ context.Context, token string) (notification.DeepLinkGrant, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, ok := t.grants[token]
	if !ok {
		return notification.DeepLinkGrant{}, false, nil
	}
	delete(t.grants, token)
	if !g.expiresAt.After(t.now()) {
		return notification.DeepLinkGrant{}, false, nil
	}
	return g.grant, true, nil
}
