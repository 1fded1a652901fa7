package teambuilder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/squad-manager/internal/domain/lineup"
	"github.com/riskibarqy/squad-manager/internal/platform/logging"
	"github.com/riskibarqy/squad-manager/internal/platform/resilience"
	"github.com/riskibarqy/squad-manager/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultTimeout = 60 * time.Second

var errTeamBuilderTransient = crerr.New("team builder transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

// Client calls the remote AI team builder function.
type Client struct {
	httpClient *http.Client
	url        string
	token      string
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = cfg.Timeout
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	return &Client{
		httpClient: httpClient,
		url:        strings.TrimSpace(cfg.URL),
		token:      strings.TrimSpace(cfg.Token),
		breaker:    resilience.FromConfig(cfg.CircuitBreaker),
		logger:     logger.Named("teambuilder"),
	}
}

type requestBody struct {
	Prompt           string   `json:"prompt"`
	TeamID           string   `json:"teamId"`
	EventID          string   `json:"eventId"`
	GameFormat       string   `json:"gameFormat"`
	GameDuration     int      `json:"gameDuration"`
	TeamNumber       int      `json:"teamNumber"`
	SquadPlayerIDs   []string `json:"squadPlayerIds"`
	CurrentFormation string   `json:"currentFormation"`
}

type responseBody struct {
	Periods   []periodBody `json:"periods"`
	Reasoning string       `json:"reasoning"`
}

type periodBody struct {
	PeriodNumber flexInt        `json:"periodNumber"`
	Formation    string         `json:"formation"`
	Duration     flexInt        `json:"duration"`
	Positions    []positionBody `json:"positions"`
	Substitutes  []string       `json:"substitutes"`
	CaptainID    string         `json:"captainId"`
}

type positionBody struct {
	PositionName string `json:"positionName"`
	PlayerID     string `json:"playerId"`
}

// flexInt accepts numbers, numeric strings and null. Anything else decodes as zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(raw []byte) error {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = flexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt(int(v))
		return nil
	}
	*f = 0
	return nil
}

func (c *Client) Suggest(ctx context.Context, req usecase.TeamBuilderRequest) (usecase.TeamBuilderResponse, error) {
	if c.url == "" {
		return usecase.TeamBuilderResponse{}, fmt.Errorf("%w: team builder url is not configured", usecase.ErrDependencyUnavailable)
	}
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "team builder circuit breaker rejected request", "state", c.breaker.State())
		return usecase.TeamBuilderResponse{}, fmt.Errorf("%w: team builder is temporarily unavailable: %v", usecase.ErrDependencyUnavailable, err)
	}

	squad := req.SquadPlayerIDs
	if squad == nil {
		squad = []string{}
	}
	body, err := sonic.Marshal(requestBody{
		Prompt:           req.Prompt,
		TeamID:           req.TeamID,
		EventID:          req.EventID,
		GameFormat:       req.GameFormat,
		GameDuration:     req.GameDuration,
		TeamNumber:       req.TeamNumber,
		SquadPlayerIDs:   squad,
		CurrentFormation: req.CurrentFormation,
	})
	if err != nil {
		return usecase.TeamBuilderResponse{}, crerr.Wrap(err, "marshal team builder request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return usecase.TeamBuilderResponse{}, crerr.Wrap(err, "create team builder request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		callErr := crerr.Mark(crerr.Wrap(err, "call team builder"), errTeamBuilderTransient)
		c.breaker.Record(callErr, isCircuitFailure)
		return usecase.TeamBuilderResponse{}, callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		callErr := crerr.Mark(crerr.Wrap(err, "read team builder response"), errTeamBuilderTransient)
		c.breaker.Record(callErr, isCircuitFailure)
		return usecase.TeamBuilderResponse{}, callErr
	}

	if resp.StatusCode/100 != 2 {
		callErr := crerr.Newf("team builder status=%d body=%s", resp.StatusCode, truncate(strings.TrimSpace(string(raw)), 512))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			callErr = crerr.Mark(callErr, errTeamBuilderTransient)
		}
		c.breaker.Record(callErr, isCircuitFailure)
		return usecase.TeamBuilderResponse{}, callErr
	}
	c.breaker.RecordSuccess()

	var decoded responseBody
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		// Unparseable output degrades to an empty suggestion rather than an error.
		c.logger.WarnContext(ctx, "team builder returned undecodable body", "error", err, "bytes", len(raw))
		return usecase.TeamBuilderResponse{}, nil
	}

	c.logger.DebugContext(ctx, "team builder responded",
		"event_id", req.EventID,
		"periods", len(decoded.Periods),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return toResponse(decoded), nil
}

func toResponse(in responseBody) usecase.TeamBuilderResponse {
	out := usecase.TeamBuilderResponse{
		Reasoning: in.Reasoning,
		Periods:   make([]lineup.AIPeriod, 0, len(in.Periods)),
	}
	for _, p := range in.Periods {
		period := lineup.AIPeriod{
			PeriodNumber: int(p.PeriodNumber),
			Formation:    strings.TrimSpace(p.Formation),
			Duration:     int(p.Duration),
			Positions:    make([]lineup.Suggestion, 0, len(p.Positions)),
			Substitutes:  append([]string(nil), p.Substitutes...),
			CaptainID:    p.CaptainID,
		}
		for _, pos := range p.Positions {
			period.Positions = append(period.Positions, lineup.Suggestion{
				PositionName: pos.PositionName,
				PlayerID:     pos.PlayerID,
			})
		}
		out.Periods = append(out.Periods, period)
	}
	return out
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errTeamBuilderTransient)
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
