package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"time"
)

const (
	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 30 * time.Second

	maxBodyBytes = 16 << 20
)

var tokenPattern = regexp.MustCompile(`(TokenID=)[^&]*`)

// Client issues single GET requests against the external data API.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client whose requests are each bounded by timeout.
func NewClient(timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
		logger:     logger.With("component", "upstream_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the per-request bound.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Execute performs exactly one GET and returns the decoded JSON body as-is
// (object, array, scalar or nil). Every failure is a *TransportError; there
// are no retries.
func (c *Client) Execute(ctx context.Context, rawURL string) (any, error) {
	start := time.Now()
	logURL := RedactURL(rawURL)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, networkError(err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.DebugContext(ctx, "upstream_request", "url", logURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		terr := c.classify(err)
		c.logger.WarnContext(ctx, "upstream_failed",
			"url", logURL,
			"kind", terr.Kind,
			"error", terr.Description,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return nil, terr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes)) //nolint:errcheck
		c.logger.WarnContext(ctx, "upstream_failed",
			"url", logURL,
			"kind", KindStatus,
			"status", resp.StatusCode,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return nil, &TransportError{
			Kind:        KindStatus,
			StatusCode:  resp.StatusCode,
			Description: fmt.Sprintf("upstream returned HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.classify(err)
	}

	raw, err := decode(body)
	if err != nil {
		c.logger.WarnContext(ctx, "upstream_failed",
			"url", logURL,
			"kind", KindDecode,
			"error", err,
		)
		return nil, &TransportError{
			Kind:        KindDecode,
			StatusCode:  resp.StatusCode,
			Description: fmt.Sprintf("upstream returned malformed JSON: %v", err),
			Err:         err,
		}
	}

	c.logger.DebugContext(ctx, "upstream_success",
		"url", logURL,
		"status", resp.StatusCode,
		"size_bytes", len(body),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return raw, nil
}

func (c *Client) classify(err error) *TransportError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TransportError{
			Kind:        KindTimeout,
			Description: fmt.Sprintf("upstream request timed out after %s", c.timeout),
			Err:         err,
		}
	}
	return networkError(err)
}

// decode parses exactly one JSON value. Numbers are kept as json.Number so
// they round-trip without float conversion.
func decode(body []byte) (any, error) {
	if len(body) == 0 {
		return nil, errors.New("empty response body")
	}
	if !json.Valid(body) {
		return nil, errors.New("invalid JSON document")
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// RedactURL hides the TokenID value so URLs can be logged.
func RedactURL(rawURL string) string {
	return tokenPattern.ReplaceAllString(rawURL, "${1}REDACTED")
}
