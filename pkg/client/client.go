// Package client provides the synchronous HTTP adapter used for every Aula
// and emoji dataset call, with structured logging, metrics and error
// classification.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/aula-engage/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for outbound requests.
var (
	httpRequestsTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "engage_http_requests_total",
		Help: "Total outbound requests by method and status",
	}, []string{"method", "status"})

	httpRequestDuration = promauto.With(metrics.Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engage_http_request_duration_seconds",
		Help:    "Outbound request duration in seconds by method",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"method"})

	httpErrorsTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "engage_http_errors_total",
		Help: "Total outbound request errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses and any other non-2xx status.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport failures.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents a response body that does not match the
	// expected shape.
	ErrorClassDecode ErrorClass = "decode"
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "aula-engage/0.1.0"

// Client issues one request at a time and decodes JSON responses.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// User-Agent header sent on every request
	UserAgent string

	// Logger overrides the package logger (optional)
	Logger *zerolog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		UserAgent: DefaultUserAgent,
	}
}

// New creates a new client. The underlying http.Client has no timeout of its
// own; callers bound calls through the request context.
func New(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	logger := log.With().Str("component", "http-client").Logger()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "http-client").Logger()
	}

	return &Client{
		httpClient: &http.Client{},
		config:     cfg,
		logger:     logger,
	}
}

// GetJSON performs a GET against rawURL with the given query parameters and
// headers and decodes the JSON body into out. Unknown fields in the body are
// ignored; anything after the first JSON value is an error.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, header http.Header, out any) error {
	target, err := withQuery(rawURL, query)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	copyHeader(req.Header, header)
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := decodeBody(resp.Body, out); err != nil {
		httpErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		c.logger.Error().Err(err).Str("url", redact(req.URL)).Msg("Failed to decode response")
		return &RequestError{
			Method:     req.Method,
			URL:        redact(req.URL),
			StatusCode: resp.StatusCode,
			Class:      ErrorClassDecode,
			Message:    "decode response body",
			Err:        err,
		}
	}

	return nil
}

// decodeBody decodes exactly one JSON value from r into out.
func decodeBody(r io.Reader, out any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(out); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// PostJSON performs a POST against rawURL with body encoded as JSON. The
// response body is drained and discarded.
func (c *Client) PostJSON(ctx context.Context, rawURL string, header http.Header, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	copyHeader(req.Header, header)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// do executes req and turns transport failures and non-2xx statuses into
// *RequestError. On success the caller owns resp.Body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	method := req.Method

	startTime := time.Now()
	defer func() {
		httpRequestDuration.WithLabelValues(method).Observe(time.Since(startTime).Seconds())
	}()

	req.Header.Set("User-Agent", c.config.UserAgent)

	c.logger.Debug().
		Str("method", method).
		Str("url", redact(req.URL)).
		Msg("Executing request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		class := classifyError(nil, err)
		httpErrorsTotal.WithLabelValues(string(class)).Inc()
		httpRequestsTotal.WithLabelValues(method, "network_error").Inc()
		c.logger.Error().Err(err).Str("method", method).Str("url", redact(req.URL)).Msg("HTTP request failed")
		return nil, &RequestError{
			Method:  method,
			URL:     redact(req.URL),
			Class:   class,
			Message: "transport failure",
			Err:     err,
		}
	}

	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		class := classifyError(resp, nil)
		httpErrorsTotal.WithLabelValues(string(class)).Inc()

		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()

		c.logger.Warn().
			Str("method", method).
			Str("url", redact(req.URL)).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Request rejected")

		return nil, &RequestError{
			Method:     method,
			URL:        redact(req.URL),
			StatusCode: resp.StatusCode,
			Class:      class,
			Message:    statusMessage(resp.Status, snippet),
		}
	}

	return resp, nil
}

// classifyError categorizes a failed request.
func classifyError(resp *http.Response, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return ErrorClassClient
	default:
		return ErrorClassServer
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

func withQuery(rawURL string, query url.Values) (string, error) {
	if len(query) == 0 {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}

	q := u.Query()
	for key, values := range query {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func copyHeader(dst, src http.Header) {
	for key, values := range src {
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

// redact strips the query string from logged URLs.
func redact(u *url.URL) string {
	clone := *u
	clone.RawQuery = ""
	return clone.String()
}

func statusMessage(status string, body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return status
	}
	return status + ": " + string(body)
}
