// Package overpassapi provides an overpass.Client implementation backed by
// the public Overpass API HTTP endpoints, with per-endpoint retries and
// priority-order failover.
package overpassapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scout/pkg/logger"
	"scout/pkg/metrics"
	"scout/pkg/overpass"
	"scout/pkg/serrors"

	"go.uber.org/zap"
)

// DefaultEndpoints lists the known public Overpass instances in priority
// order.
//
//nolint: gochecknoglobals
var DefaultEndpoints = []string{
	"https://overpass-api.de/api/interpreter",
	"https://overpass.kumi.systems/api/interpreter",
	"https://maps.mail.ru/osm/tools/overpass/api/interpreter",
}

const (
	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 2 * time.Second
	defaultUserAgent      = "scout-poi-harvester/1.0"
)

// Options configure endpoint selection and retry behavior of the client.
// Endpoints are injected rather than read from globals so tests can point the
// client at fakes.
type Options struct {
	// Endpoints is the ordered list of Overpass instances to try. Defaults to
	// DefaultEndpoints.
	Endpoints []string
	// MaxAttempts is the number of delivery attempts per endpoint before
	// failing over to the next one. Defaults to 3.
	MaxAttempts int
	// RetryBaseDelay is the base of the escalating delay between attempts on
	// the same endpoint (base × attempt number). Defaults to 2s.
	RetryBaseDelay time.Duration
	// UserAgent identifies this client to the Overpass operators.
	UserAgent string
}

// Client talks to the Overpass API and fulfills the overpass.Client
// interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	opts       Options
}

// New constructs a Client using the provided http.Client and options,
// applying defaults for any zero-valued option.
func New(httpClient *http.Client, opts Options) *Client {
	if len(opts.Endpoints) == 0 {
		opts.Endpoints = DefaultEndpoints
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = defaultRetryBaseDelay
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	return &Client{httpClient: httpClient, opts: opts}
}

// Query delivers the query to the first endpoint that answers successfully.
// Each endpoint is tried up to MaxAttempts times with escalating delay before
// failing over to the next one; when every endpoint's retries are exhausted,
// an ENDPOINT_EXHAUSTED error wrapping the last failure is returned.
func (c *Client) Query(ctx context.Context, query string) (*overpass.Response, error) {
	var lastErr error
	for i, endpoint := range c.opts.Endpoints {
		if i > 0 {
			metrics.EndpointFailovers.Inc()
		}

		for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
			start := time.Now()
			resp, err := c.attempt(ctx, endpoint, query)
			if err == nil {
				metrics.QueryAttempts.WithLabelValues(endpoint, "ok").Inc()
				metrics.QueryDuration.Observe(time.Since(start).Seconds())

				return resp, nil
			}
			metrics.QueryAttempts.WithLabelValues(endpoint, "error").Inc()

			lastErr = err
			logger.Warn(ctx, "overpass attempt failed",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Error(err))

			if attempt == c.opts.MaxAttempts {
				break
			}
			if err := sleep(ctx, c.opts.RetryBaseDelay*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}
	}

	return nil, serrors.Wrap(serrors.ErrExhausted, lastErr, "all overpass endpoints exhausted")
}

// attempt performs a single delivery. It fails with a retryable error unless
// the POST completes, the status is 2xx and the response declares JSON.
func (c *Client) attempt(ctx context.Context, endpoint, query string) (*overpass.Response, error) {
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serrors.With(serrors.ErrUnavailable,
			"unexpected status %d: %s", resp.StatusCode, trimBody(b))
	}
	if ct := contentType(resp.Header); ct != "application/json" {
		return nil, serrors.With(serrors.ErrUnavailable, "unexpected content type %q", ct)
	}

	var out overpass.Response
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not decode response")
	}

	return &out, nil
}

// contentType extracts the bare media type from the Content-Type header.
func contentType(h http.Header) string {
	mt, _, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		return ""
	}

	return mt
}

// trimBody shortens an error body for inclusion in error messages.
func trimBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}

	return s
}

// sleep waits for the given duration, returning early when ctx is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("interrupted while waiting to retry: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

// Ensure Client conforms to the overpass.Client interface at compile time.
var _ overpass.Client = (*Client)(nil)
