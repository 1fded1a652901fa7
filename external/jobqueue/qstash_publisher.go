package jobqueue

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/squad-manager/internal/platform/logging"
	"github.com/riskibarqy/squad-manager/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBody    = 4096
	maxPreviewBody  = 4096
	jobTokenHeader  = "Upstash-Forward-X-Internal-Job-Token"
	redactedValue   = "***"
	publishEndpoint = "/v2/publish/"
)

var errQStashTransient = crerr.New("qstash transient failure")

type QStashPublisherConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStashPublisher schedules delayed POSTs to this service's internal job endpoints.
// QStash forwards the internal job token so the endpoint guard accepts the call.
type QStashPublisher struct {
	client           *http.Client
	publishBase      string
	targetBase       string
	token            string
	retries          int
	internalJobToken string
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
}

// NewQStashPublisher validates both base URLs up front so a bad deployment fails at startup.
func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) (*QStashPublisher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, crerr.New("qstash token is required")
	}
	publishBase, err := httpBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBase, err := httpBaseURL(cfg.TargetBaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &QStashPublisher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		publishBase:      publishBase,
		targetBase:       targetBase,
		token:            token,
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger.Named("qstash"),
		breaker:          resilience.FromConfig(cfg.CircuitBreaker),
	}, nil
}

// Enqueue asks QStash to POST payload to path after delay. Calls with the same
// deduplication id inside the QStash window are collapsed.
func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	if path == "/" {
		return crerr.New("job path is required")
	}
	if err := p.breaker.Allow(); err != nil {
		p.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "state", p.breaker.State(), "path", path)
		return crerr.Wrap(err, "qstash is temporarily unavailable")
	}

	if payload == nil {
		payload = struct{}{}
	}
	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)
	if err := sonic.ConfigDefault.NewEncoder(body).Encode(payload); err != nil {
		return crerr.Wrap(err, "encode job payload")
	}
	// The encoder terminates with a newline.
	payloadJSON := strings.TrimSuffix(body.String(), "\n")

	targetURL := p.targetBase + path
	publishURL := p.publishBase + publishEndpoint + targetURL
	headers := p.headers(delay, strings.TrimSpace(deduplicationID))

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.target_url", targetURL),
			attribute.String("qstash.delay", headers.Get("Upstash-Delay")),
			attribute.String("qstash.deduplication_id", headers.Get("Upstash-Deduplication-Id")),
		)
	}
	p.logger.DebugContext(ctx, "qstash publish request",
		"target_url", targetURL,
		"curl_preview", curlPreview(publishURL, headers, truncate(payloadJSON, maxPreviewBody)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, strings.NewReader(payloadJSON))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	req.Header = headers

	resp, err := p.client.Do(req)
	if err != nil {
		callErr := crerr.Mark(crerr.Wrapf(err, "publish qstash job target_url=%s", targetURL), errQStashTransient)
		p.breaker.Record(callErr, isQStashCircuitFailure)
		return callErr
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		callErr := crerr.Newf("publish qstash job status=%d target_url=%s body=%s", resp.StatusCode, targetURL, strings.TrimSpace(string(raw)))
		if retryableStatus(resp.StatusCode) {
			callErr = crerr.Mark(callErr, errQStashTransient)
		}
		p.breaker.Record(callErr, isQStashCircuitFailure)
		return callErr
	}

	p.breaker.RecordSuccess()
	p.logger.InfoContext(ctx, "qstash job published",
		"path", path,
		"delay", headers.Get("Upstash-Delay"),
		"deduplication_id", deduplicationID,
	)
	return nil
}

func (p *QStashPublisher) headers(delay time.Duration, deduplicationID string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+p.token)
	h.Set("Content-Type", "application/json")
	h.Set("Upstash-Method", http.MethodPost)
	if p.retries > 0 {
		h.Set("Upstash-Retries", strconv.Itoa(p.retries))
	}
	if delay > 0 {
		h.Set("Upstash-Delay", delaySeconds(delay))
	}
	if deduplicationID != "" {
		h.Set("Upstash-Deduplication-Id", deduplicationID)
	}
	if p.internalJobToken != "" {
		h.Set(jobTokenHeader, p.internalJobToken)
	}
	return h
}

// delaySeconds renders a delay the way Upstash-Delay expects it, rounded to whole seconds.
func delaySeconds(delay time.Duration) string {
	if delay <= 0 {
		return "0s"
	}
	return strconv.FormatInt(int64(delay.Round(time.Second)/time.Second), 10) + "s"
}

func httpBaseURL(raw string) (string, error) {
	candidate := strings.TrimRight(strings.TrimSpace(raw), "/")
	if candidate == "" {
		return "", crerr.New("value is empty")
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme %q", candidate, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return candidate, nil
}

// curlPreview renders the publish call for debug logs with credentials redacted.
func curlPreview(publishURL string, headers http.Header, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -X POST " + shellQuote(publishURL))
	for _, name := range []string{"Authorization", "Content-Type", "Upstash-Method", "Upstash-Retries", "Upstash-Delay", "Upstash-Deduplication-Id", jobTokenHeader} {
		value := headers.Get(name)
		if value == "" {
			continue
		}
		switch name {
		case "Authorization":
			value = "Bearer " + redactedValue
		case jobTokenHeader:
			value = redactedValue
		}
		_, _ = buf.WriteString(" -H " + shellQuote(name+": "+value))
	}
	_, _ = buf.WriteString(" -d " + shellQuote(body))
	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "...(truncated)"
}

func isQStashCircuitFailure(err error) bool {
	return crerr.Is(err, errQStashTransient)
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
