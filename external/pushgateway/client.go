package pushgateway

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/squad-manager/internal/domain/notification"
	"github.com/riskibarqy/squad-manager/internal/platform/logging"
	"github.com/riskibarqy/squad-manager/internal/platform/resilience"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultTimeout = 10 * time.Second

var (
	errPushTransient = crerr.New("push gateway transient failure")
	// ErrMissingServerKey is returned by Send when no server key is configured.
	ErrMissingServerKey = crerr.New("push server key is not configured")
)

type ClientConfig struct {
	URL            string
	ServerKey      string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

// Client posts one message per call to the push gateway endpoint.
type Client struct {
	http      *fasthttp.Client
	url       string
	serverKey string
	timeout   time.Duration
	breaker   *resilience.CircuitBreaker
	logger    *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                "squad-manager-push",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		url:       strings.TrimSpace(cfg.URL),
		serverKey: strings.TrimSpace(cfg.ServerKey),
		timeout:   timeout,
		breaker:   resilience.FromConfig(cfg.CircuitBreaker),
		logger:    logger.Named("pushgateway"),
	}
}

func (c *Client) HasCredentials() bool {
	return c != nil && c.serverKey != "" && c.url != ""
}

// Send delivers msg. Any non-2xx status is a failure for this recipient only.
func (c *Client) Send(ctx context.Context, msg notification.Message) error {
	if !c.HasCredentials() {
		return ErrMissingServerKey
	}
	if err := ctx.Err(); err != nil {
		return crerr.Wrap(err, "push send cancelled")
	}
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "push gateway circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("push gateway is temporarily unavailable: %w", err)
	}

	body, err := sonic.Marshal(msg)
	if err != nil {
		return crerr.Wrap(err, "marshal push message")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+c.serverKey)
	req.SetBody(body)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	span := trace.SpanFromContext(ctx)
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		callErr := crerr.Mark(crerr.Wrapf(err, "post push message url=%s", c.url), errPushTransient)
		c.breaker.Record(callErr, isCircuitFailure)
		return callErr
	}

	status := resp.StatusCode()
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("push.platform_channel", msg.Android.Notification.ChannelID),
			attribute.Int("push.status_code", status),
		)
	}

	if status/100 != 2 {
		raw := truncate(strings.TrimSpace(string(resp.Body())), 512)
		callErr := crerr.Newf("push gateway status=%d body=%s", status, raw)
		if isRetryableStatus(status) {
			callErr = crerr.Mark(callErr, errPushTransient)
		}
		c.breaker.Record(callErr, isCircuitFailure)
		return callErr
	}

	c.breaker.RecordSuccess()
	return nil
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errPushTransient)
}

// IsTransient reports whether err came from a network failure or a retryable status.
func IsTransient(err error) bool {
	return err != nil && (crerr.Is(err, errPushTransient) || stderrors.Is(err, fasthttp.ErrTimeout))
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusRequestTimeout ||
		status == fasthttp.StatusTooManyRequests ||
		status >= fasthttp.StatusInternalServerError
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
