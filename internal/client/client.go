// Package client talks JSON over HTTP to the analytics service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/vesselscope/internal/domain/requestlog"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "http://127.0.0.1:5000"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10.0
	DefaultRateBurst = 5
	DefaultUserAgent = "vesselscope/1.0"

	// RequestIDHeader carries the id the request log records for each call.
	RequestIDHeader = "X-Request-ID"

	DefaultMaxResponseBytes = 64 << 20
)

// ErrResponseTooLarge is returned when a body exceeds the configured limit.
var ErrResponseTooLarge = errors.New("response too large")

// Config configures the client. Zero values select the defaults.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
	UserAgent string
	// MaxResponseBytes caps the size of a response body.
	MaxResponseBytes int64
	// Transport allows injecting a custom round tripper in tests.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Client is a rate-limited HTTP client for the analytics service. It never
// retries; callers decide what a failure means.
type Client struct {
	baseURL    string
	userAgent  string
	maxBody    int64
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a client for cfg.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = DefaultRateBurst
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxResponseBytes,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		logger:  logger,
	}
}

// Fetch issues GET /<endpoint> and returns the raw JSON body.
func (c *Client) Fetch(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

// Submit issues POST /<endpoint> with payload encoded as JSON.
func (c *Client) Submit(ctx context.Context, endpoint string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", endpoint, err)
	}
	return c.do(ctx, http.MethodPost, endpoint, body)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	url := c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	requestID, ok := requestlog.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
	}
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	if int64(len(data)) > c.maxBody {
		return nil, fmt.Errorf("%s: %w: over %d bytes", endpoint, ErrResponseTooLarge, c.maxBody)
	}
	c.logger.Debug("service response",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"bytes", len(data),
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return json.RawMessage(data), nil
}
