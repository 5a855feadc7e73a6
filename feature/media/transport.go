package media

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// rateLimitedTransport spaces out requests to an external API.
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

func newHTTPClient(cfg Config) *http.Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &http.Client{
		Timeout: time.Duration(timeout) * time.Second,
		Transport: &rateLimitedTransport{
			transport: http.DefaultTransport,
			limiter:   rate.NewLimiter(limit, 1),
		},
	}
}

// RateLimitedError reports an HTTP 429 from an external API.
type RateLimitedError struct {
	Source Source
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: rate limited", e.Source)
}

// StatusError reports any other non-2xx response.
type StatusError struct {
	Source     Source
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Source, e.StatusCode)
}

func checkStatus(source Source, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitedError{Source: source}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Source: source, StatusCode: resp.StatusCode}
	}
	return nil
}
