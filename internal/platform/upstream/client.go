package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/phrazzld/simfleet/internal/platform/logger"
	"github.com/sethvargo/go-retry"
)

// Defaults used when Config leaves a field zero.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 2 * time.Second
	DefaultUserAgent   = "okhttp/4.9.1"
)

// ErrTransport means no HTTP response was obtained: connection failure,
// timeout or an unreadable body.
var ErrTransport = errors.New("upstream transport failure")

// errBadGateway marks a 502 attempt as retryable inside the retry loop.
var errBadGateway = errors.New("upstream returned 502")

// Config configures a Client.
type Config struct {
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
	UserAgent   string
}

// Client sends requests to the upstream API. It keeps no state between calls
// and is safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	maxAttempts int
	retryDelay  time.Duration
	userAgent   string
	logger      *slog.Logger
	onRetry     func(attempt int, delay time.Duration)
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the pooled client built from go-cleanhttp.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetryObserver registers fn to be called before every retry delay.
// attempt is the 1-based number of the attempt that just returned 502.
func WithRetryObserver(fn func(attempt int, delay time.Duration)) Option {
	return func(c *Client) { c.onRetry = fn }
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = cfg.Timeout

	c := &Client{
		httpClient:  hc,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		userAgent:   cfg.UserAgent,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send issues method to url and applies the retry policy:
//   - 200 returns immediately;
//   - 502 waits RetryDelay and tries again until MaxAttempts is used up,
//     then returns the last 502 response;
//   - any other status returns immediately;
//   - a transport fault returns (nil, err) with err wrapping ErrTransport.
//
// body may be nil, []byte (sent as is) or any JSON-encodable value.
func (c *Client) Send(ctx context.Context, method, url string, headers http.Header, body any) (*Response, error) {
	payload, isJSON, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, c.logger)

	attempt := 0
	backoff := retry.WithMaxRetries(uint64(c.maxAttempts-1), retry.NewConstant(c.retryDelay))
	backoff = c.observe(backoff, &attempt)

	var last *Response
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		resp, err := c.do(ctx, method, url, headers, payload, isJSON)
		if err != nil {
			return err
		}
		last = resp
		if resp.StatusCode == http.StatusBadGateway {
			log.Warn("upstream returned 502",
				slog.String("method", method),
				slog.String("url", url),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", c.maxAttempts))
			return retry.RetryableError(errBadGateway)
		}
		if resp.StatusCode != http.StatusOK {
			log.Info("upstream returned non-200 status",
				slog.String("method", method),
				slog.String("url", url),
				slog.Int("status", resp.StatusCode))
		}
		return nil
	})

	switch {
	case err == nil:
		return last, nil
	case errors.Is(err, errBadGateway) && last != nil:
		return last, nil
	case errors.Is(err, ErrTransport):
		log.Warn("upstream transport failure",
			slog.String("method", method),
			slog.String("url", url),
			slog.String("error", err.Error()))
		return nil, err
	default:
		// Context ended while waiting between attempts.
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
}

// observe wraps b so every granted delay is reported to onRetry.
func (c *Client) observe(b retry.Backoff, attempt *int) retry.Backoff {
	return retry.BackoffFunc(func() (time.Duration, bool) {
		delay, stop := b.Next()
		if !stop && c.onRetry != nil {
			c.onRetry(*attempt, delay)
		}
		return delay, stop
	})
}

func (c *Client) do(
	ctx context.Context,
	method, url string,
	headers http.Header,
	payload []byte,
	isJSON bool,
) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrTransport, err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if isJSON && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrTransport, err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func encodeBody(body any) ([]byte, bool, error) {
	switch b := body.(type) {
	case nil:
		return nil, false, nil
	case []byte:
		return b, false, nil
	case json.RawMessage:
		return b, true, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, false, fmt.Errorf("encoding request body: %w", err)
		}
		return data, true, nil
	}
}
