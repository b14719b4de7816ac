// Package fetch retrieves remote sources: a single HTTP GET yielding raw
// body bytes plus the declared content type.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for fetch operations.
var (
	fetchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simplifytable_fetch_requests_total",
		Help: "Total fetch requests by status",
	}, []string{"status"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simplifytable_fetch_duration_seconds",
		Help:    "Fetch duration in seconds by status",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"status"})

	fetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simplifytable_fetch_errors_total",
		Help: "Total fetch errors by class",
	}, []string{"class"})
)

// Fetcher fetches one URL. Client implements it directly; Retrier decorates
// another Fetcher with backoff.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Response is the raw result of a fetch.
type Response struct {
	Body        []byte
	ContentType string
	StatusCode  int
	Header      http.Header
}

// Config holds the fetch client configuration.
type Config struct {
	// Timeout bounds one fetch including the body read. Zero means no
	// timeout; callers can still bound individual calls via context.
	Timeout time.Duration

	// UserAgent header sent with every request.
	UserAgent string
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		UserAgent: "simplifytable/1.0",
	}
}

// Client is the HTTP fetch client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

var _ Fetcher = (*Client)(nil)

// New creates a fetch client.
func New(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.With().Str("component", "fetch").Logger(),
	}
}

// Fetch performs a single GET. It fails with *TransportError when the
// request does not complete or the status is >= 400. No retries happen here;
// retry policy is a caller concern (see Retrier).
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json, text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fetchRequestsTotal.WithLabelValues("network_error").Inc()
		fetchErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		c.logger.Error().Err(err).Str("url", url).Msg("Fetch failed")
		return nil, &TransportError{
			URL:     url,
			Class:   ErrorClassNetwork,
			Message: "request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	status := fmt.Sprintf("%d", resp.StatusCode)
	fetchRequestsTotal.WithLabelValues(status).Inc()
	defer func() {
		fetchDuration.WithLabelValues(status).Observe(time.Since(startTime).Seconds())
	}()

	if resp.StatusCode >= 400 {
		class := classifyStatus(resp.StatusCode)
		fetchErrorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Str("url", url).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Fetch returned error status")
		return nil, &TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Class:      class,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fetchErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Class:      ErrorClassNetwork,
			Message:    "read body",
			Err:        err,
		}
	}

	c.logger.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("Fetch completed")

	return &Response{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		Header:      resp.Header,
	}, nil
}

// classifyStatus categorizes an error status for observability and for the
// retry decorator's retryability decision.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
