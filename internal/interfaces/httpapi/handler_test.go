package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/squad-manager/internal/domain/lineup"
	"github.com/riskibarqy/squad-manager/internal/domain/notification"
	"github.com/riskibarqy/squad-manager/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squad-manager/internal/platform/logging"
	"github.com/riskibarqy/squad-manager/internal/usecase"
)

const testJobToken = "job-secret"

type recordingSender struct {
	mu   sync.Mutex
	key  bool
	sent []string
}

func (s *recordingSender) HasCredentials() bool { return s.key }

func (s *recordingSender) Send(_ context.Context, msg notification.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg.To)
	return nil
}

type cannedSuggester struct {
	resp usecase.TeamBuilderResponse
}

func (c cannedSuggester) Suggest(context.Context, usecase.TeamBuilderRequest) (usecase.TeamBuilderResponse, error) {
	return c.resp, nil
}

func newTestRouter(t *testing.T, sender *recordingSender) http.Handler {
	t.Helper()
	router, _ := newTestRouterWithTokens(t, sender)
	return router
}

func newTestRouterWithTokens(t *testing.T, sender *recordingSender) (http.Handler, *memory.TokenIssuer) {
	t.Helper()

	now := time.Now().UTC()
	eventRepo := memory.NewEventRepository(memory.SeedEvents(now))
	rosterRepo := memory.NewRosterRepository(memory.SeedPlayers(), memory.SeedStaff())
	availabilityRepo := memory.NewAvailabilityRepository(memory.SeedAvailability())
	tokens := memory.NewTokenIssuer()
	logger := logging.NewNop()

	suggester := cannedSuggester{resp: usecase.TeamBuilderResponse{
		Reasoning: "balanced",
		Periods: []lineup.AIPeriod{{
			PeriodNumber: 1,
			Positions: []lineup.Suggestion{
				{PositionName: "GK", PlayerID: "player-Ava"},
				{PositionName: "left back", PlayerID: "player-Ben"},
				{PositionName: "right winger", PlayerID: "player-Chloe"},
			},
			Substitutes: []string{"player-Isla"},
		}},
	}}

	teamBuilder := usecase.NewTeamBuilderService(eventRepo, rosterRepo, memory.NewSelectionRepository(), suggester, nil, logger)
	invitations := usecase.NewInvitationService(eventRepo, rosterRepo, memory.NewInvitationRepository(), availabilityRepo, tokens, logger)
	notifications := usecase.NewNotificationService(
		memory.NewScheduledNotificationRepository(),
		memory.NewNotificationLogRepository(),
		memory.NewProfileRepository(memory.SeedProfiles()),
		eventRepo,
		availabilityRepo,
		sender,
		tokens,
		nil,
		usecase.NotificationConfig{},
		logger,
	)

	return NewRouter(NewHandler(teamBuilder, invitations, notifications, logger), logger, nil, testJobToken), tokens
}

func doRequest(t *testing.T, router http.Handler, method, path, body string, headers ...string) (int, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal %s %s response: %v (body=%s)", method, path, err, rec.Body.String())
	}
	return rec.Code, out
}

func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	return data
}

func TestFormationRoutes(t *testing.T) {
	router := newTestRouter(t, &recordingSender{})

	status, body := doRequest(t, router, http.MethodGet, "/v1/formations", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if items, _ := dataOf(t, body)["items"].([]any); len(items) != 4 {
		t.Fatalf("expected 4 game formats, got %d", len(items))
	}

	status, body = doRequest(t, router, http.MethodGet, "/v1/formations/7-a-side", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if got := dataOf(t, body)["default"]; got != "2-3-1" {
		t.Fatalf("expected default 2-3-1, got %v", got)
	}

	status, body = doRequest(t, router, http.MethodGet, "/v1/formations/7-a-side/2-3-1", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if positions, _ := dataOf(t, body)["positions"].([]any); len(positions) != 7 {
		t.Fatalf("expected 7 positions, got %d", len(positions))
	}

	if status, _ = doRequest(t, router, http.MethodGet, "/v1/formations/7-a-side/4-4-2", ""); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown formation, got %d", status)
	}
	if status, _ = doRequest(t, router, http.MethodGet, "/v1/formations/futsal", ""); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown format, got %d", status)
	}
}

func TestTeamBuilderRoutes(t *testing.T) {
	router := newTestRouter(t, &recordingSender{})
	base := "/v1/teams/" + memory.TeamIDDemo + "/events/" + memory.EventIDDemoMatch

	status, body := doRequest(t, router, http.MethodPost, base+"/team-builder/suggestions",
		`{"prompt":"rotate keepers","gameDuration":60,"squadPlayerIds":["player-Ava","player-Ben","player-Chloe","player-Isla"]}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	data := dataOf(t, body)
	periods, _ := data["periods"].([]any)
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	unresolved, _ := data["unresolvedPositions"].([]any)
	if len(unresolved) != 1 || unresolved[0] != "right winger" {
		t.Fatalf("unexpected unresolved positions %v", unresolved)
	}

	status, _ = doRequest(t, router, http.MethodPost, base+"/team-builder/suggestions", `{"squadPlayerIds":[]}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty squad, got %d", status)
	}

	if status, _ = doRequest(t, router, http.MethodGet, "/v1/events/"+memory.EventIDDemoMatch+"/selection", ""); status != http.StatusNotFound {
		t.Fatalf("expected 404 before apply, got %d", status)
	}

	apply := `{"periods":[{"periodNumber":1,"formation":"2-3-1","duration":30,
		"positions":[{"positionName":"Goalkeeper","x":50,"y":90,"playerId":"player-Ava"}],
		"substitutes":["player-Ben"],"captainId":"player-Ava"}]}`
	status, body = doRequest(t, router, http.MethodPut, base+"/selection", apply)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on apply, got %d (%v)", status, body)
	}

	status, body = doRequest(t, router, http.MethodGet, "/v1/events/"+memory.EventIDDemoMatch+"/selection", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200 after apply, got %d", status)
	}
	if got := dataOf(t, body)["gameFormat"]; got != "7-a-side" {
		t.Fatalf("expected game format from event, got %v", got)
	}

	status, _ = doRequest(t, router, http.MethodPut, base+"/selection", `{"periods":[],"extra":true}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", status)
	}
}

func TestInvitationRoutes(t *testing.T) {
	router := newTestRouter(t, &recordingSender{})
	path := "/v1/teams/" + memory.TeamIDDemo + "/events/" + memory.EventIDDemoMatch + "/invitations"

	status, body := doRequest(t, router, http.MethodGet, path, "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	data := dataOf(t, body)
	if data["policy"] != "everyone" || data["invitedCount"] != float64(11) {
		t.Fatalf("expected everyone with 11 invited, got %v", data)
	}

	status, body = doRequest(t, router, http.MethodPut, path, `{"policy":"players_only"}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	if got := dataOf(t, body)["policy"]; got != "players_only" {
		t.Fatalf("expected players_only, got %v", got)
	}

	if status, _ = doRequest(t, router, http.MethodPut, path, `{"policy":"coaches"}`); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown policy, got %d", status)
	}

	other := "/v1/teams/team-elsewhere/events/" + memory.EventIDDemoMatch + "/invitations"
	if status, _ = doRequest(t, router, http.MethodGet, other, ""); status != http.StatusNotFound {
		t.Fatalf("expected 404 for event of another team, got %d", status)
	}
}

func TestAvailabilityRoutes(t *testing.T) {
	router := newTestRouter(t, &recordingSender{})

	status, body := doRequest(t, router, http.MethodGet, "/v1/events/"+memory.EventIDDemoMatch+"/availability/summary", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	data := dataOf(t, body)
	if data["available"] != float64(2) || data["unavailable"] != float64(1) || data["pending"] != float64(4) || data["total"] != float64(7) {
		t.Fatalf("unexpected summary %v", data)
	}

	status, _ = doRequest(t, router, http.MethodPut, "/v1/events/"+memory.EventIDDemoMatch+"/availability/user-Dev", `{"status":"available"}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on respond, got %d", status)
	}
	_, body = doRequest(t, router, http.MethodGet, "/v1/events/"+memory.EventIDDemoMatch+"/availability/summary", "")
	if got := dataOf(t, body)["available"]; got != float64(3) {
		t.Fatalf("expected 3 available after respond, got %v", got)
	}

	if status, _ = doRequest(t, router, http.MethodPut, "/v1/events/"+memory.EventIDDemoMatch+"/availability/user-Dev", `{"status":"maybe"}`); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", status)
	}
	if status, _ = doRequest(t, router, http.MethodPut, "/v1/events/missing/availability/user-Dev", `{"status":"available"}`); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown event, got %d", status)
	}
}

func TestRSVPRoute(t *testing.T) {
	router, tokens := newTestRouterWithTokens(t, &recordingSender{})

	token, err := tokens.IssueToken(t.Context(), "user-Dev", memory.EventIDDemoMatch)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	status, body := doRequest(t, router, http.MethodPost, "/v1/rsvp/no?token="+token, "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, body)
	}
	data := dataOf(t, body)
	if data["userId"] != "user-Dev" || data["eventId"] != memory.EventIDDemoMatch || data["status"] != "unavailable" {
		t.Fatalf("unexpected record %v", data)
	}

	_, body = doRequest(t, router, http.MethodGet, "/v1/events/"+memory.EventIDDemoMatch+"/availability/summary", "")
	if got := dataOf(t, body)["unavailable"]; got != float64(2) {
		t.Fatalf("expected 2 unavailable after rsvp, got %v", got)
	}

	if status, _ = doRequest(t, router, http.MethodPost, "/v1/rsvp/no?token="+token, ""); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a spent token, got %d", status)
	}
	if status, _ = doRequest(t, router, http.MethodPost, "/v1/rsvp/maybe?token="+token, ""); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown answer, got %d", status)
	}
}

func TestReminderRoute(t *testing.T) {
	path := "/v1/events/" + memory.EventIDDemoMatch + "/reminders"

	status, body := doRequest(t, newTestRouter(t, &recordingSender{}), http.MethodPost, path, "")
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500 without push key, got %d", status)
	}
	errorObj, _ := body["error"].(map[string]any)
	if errorObj["status"] != "FAILED_PRECONDITION" {
		t.Fatalf("expected misconfiguration status, got %v", errorObj)
	}

	sender := &recordingSender{key: true}
	status, body = doRequest(t, newTestRouter(t, sender), http.MethodPost, path, `{"title":"Kit check","body":"Bring shin pads"}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	if got := dataOf(t, body)["sent"]; got != float64(4) {
		t.Fatalf("expected 4 pending users reminded, got %v", got)
	}
	if len(sender.sent) != 4 {
		t.Fatalf("expected 4 pushes, got %v", sender.sent)
	}
}

func TestInternalJobRoutes(t *testing.T) {
	router := newTestRouter(t, &recordingSender{key: true})

	if status, _ := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/dispatch-notifications", ""); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without job token, got %d", status)
	}

	status, body := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/dispatch-notifications",
		`{"scheduled_notification_id":"n-1"}`, "X-Internal-Job-Token", testJobToken)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	if got := dataOf(t, body)["processed"]; got != float64(0) {
		t.Fatalf("expected nothing due, got %v", got)
	}

	status, body = doRequest(t, router, http.MethodPost, "/v1/internal/jobs/weekly-nudges", "", "X-Internal-Job-Token", testJobToken)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	if got := dataOf(t, body)["eventsScanned"]; got != float64(2) {
		t.Fatalf("expected both seeded events scanned, got %v", got)
	}
}
