package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// maxBodyBytes caps how much of an upstream response body is read.
const maxBodyBytes = 4 << 20

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrCircuitOpen      = errors.New("circuit breaker open")
	ErrBodyTooLarge     = errors.New("response body too large")
)

// StatusError reports a non-2xx answer. It matches ErrUnexpectedStatus.
type StatusError struct {
	Upstream   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d", ErrUnexpectedStatus, e.Upstream, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// countsAsSuccess keeps per-request outcomes out of the breaker's failure
// count: 4xx answers other than 429 and callers that went away.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		code := statusErr.StatusCode
		return code >= 400 && code < 500 && code != http.StatusTooManyRequests
	}
	return false
}

// Config describes one upstream dependency.
type Config struct {
	// Name labels the breaker and spans, e.g. "nominatim".
	Name      string
	UserAgent string
	Accept    string

	// FailureThreshold is how many consecutive failures open the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before a trial request.
	OpenTimeout time.Duration
}

// Client performs single-attempt GET requests against one upstream.
// Each call is traced and passes through a circuit breaker; nothing is retried.
type Client struct {
	name      string
	userAgent string
	accept    string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker
	tracer    trace.Tracer
}

// New builds a Client. httpClient carries the request timeout and is usually
// shared between upstreams.
func New(cfg Config, httpClient *http.Client) *Client {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: countsAsSuccess,
	})

	return &Client{
		name:      cfg.Name,
		userAgent: cfg.UserAgent,
		accept:    cfg.Accept,
		http:      httpClient,
		breaker:   breaker,
		tracer:    otel.Tracer("github.com/dhima/wx-api/internal/upstream"),
	}
}

// Name returns the upstream label.
func (c *Client) Name() string {
	return c.name
}

// Get fetches rawURL and returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, c.name+".get", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("upstream.name", c.name),
		attribute.String("http.url", rawURL),
	)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, span, rawURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %s: %v", ErrCircuitOpen, c.name, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, span trace.Span, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", c.name, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.accept != "" {
		req.Header.Set("Accept", c.accept)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Upstream: c.name, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", c.name, err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: %s", ErrBodyTooLarge, c.name)
	}
	return body, nil
}
