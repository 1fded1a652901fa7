package teambuilder

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/squad-manager/internal/platform/logging"
	"github.com/riskibarqy/squad-manager/internal/usecase"
)

func TestClient_SuggestDecodesLenientPayload(t *testing.T) {
	t.Parallel()

	var got map[string]any
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(raw, &got)
		_, _ = w.Write([]byte(`{
			"reasoning": "Balanced",
			"periods": [
				{"periodNumber": "1", "formation": " 2-3-1 ", "duration": 25.0,
				 "positions": [{"positionName": "GK", "playerId": "p1"}, {"positionName": "left back", "playerId": "p2"}],
				 "substitutes": ["p3"], "captainId": "p1"},
				{"periodNumber": null, "duration": "n/a", "positions": []}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{URL: srv.URL, Token: "fn-token", Logger: logging.NewNop()})
	resp, err := client.Suggest(context.Background(), usecase.TeamBuilderRequest{
		Prompt:           "attack more",
		TeamID:           "t1",
		EventID:          "e1",
		GameFormat:       "7-a-side",
		GameDuration:     50,
		TeamNumber:       1,
		SquadPlayerIDs:   []string{"p1", "p2", "p3"},
		CurrentFormation: "2-3-1",
	})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}

	if gotAuth != "Bearer fn-token" {
		t.Fatalf("unexpected authorization: %q", gotAuth)
	}
	if got["teamId"] != "t1" || got["currentFormation"] != "2-3-1" || got["gameDuration"] != float64(50) {
		t.Fatalf("unexpected request body: %+v", got)
	}

	if resp.Reasoning != "Balanced" || len(resp.Periods) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	first := resp.Periods[0]
	if first.PeriodNumber != 1 || first.Formation != "2-3-1" || first.Duration != 25 || first.CaptainID != "p1" {
		t.Fatalf("unexpected first period: %+v", first)
	}
	if len(first.Positions) != 2 || first.Positions[1].PositionName != "left back" {
		t.Fatalf("unexpected positions: %+v", first.Positions)
	}
	if resp.Periods[1].PeriodNumber != 0 || resp.Periods[1].Duration != 0 {
		t.Fatalf("null and junk numbers should decode as zero: %+v", resp.Periods[1])
	}
}

func TestClient_SuggestUndecodableBodyDegrades(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`Sorry, I can't help with that`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{URL: srv.URL, Logger: logging.NewNop()})
	resp, err := client.Suggest(context.Background(), usecase.TeamBuilderRequest{EventID: "e1"})
	if err != nil {
		t.Fatalf("expected degraded success, got %v", err)
	}
	if len(resp.Periods) != 0 {
		t.Fatalf("expected no periods, got %+v", resp.Periods)
	}
}

func TestClient_SuggestErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{URL: srv.URL, Logger: logging.NewNop()})
	if _, err := client.Suggest(context.Background(), usecase.TeamBuilderRequest{}); err == nil {
		t.Fatalf("expected error for 502")
	}

	unconfigured := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := unconfigured.Suggest(context.Background(), usecase.TeamBuilderRequest{}); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
