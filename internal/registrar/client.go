package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Default configuration values.
const (
	DefaultTimeout     = 15 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 500 * time.Millisecond
	DefaultMaxDelay    = 5 * time.Second
	DefaultBackoffMult = 2.0
	DefaultRate        = 10 // requests per second
)

// HTTPChecker implements Checker against a registrar availability API.
// Requests are capped by a client-side token bucket so bursts from
// concurrent chunks stay inside the provider's rate policy.
type HTTPChecker struct {
	endpoint    string
	apiKey      string
	apiSecret   string
	client      *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// CheckerOption configures HTTPChecker.
type CheckerOption func(*HTTPChecker)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) CheckerOption {
	return func(c *HTTPChecker) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) CheckerOption {
	return func(c *HTTPChecker) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) CheckerOption {
	return func(c *HTTPChecker) {
		c.retryDelay = d
	}
}

// WithRequestRate caps outgoing requests per second.
func WithRequestRate(rps float64) CheckerOption {
	return func(c *HTTPChecker) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) CheckerOption {
	return func(c *HTTPChecker) {
		c.client = client
	}
}

// NewHTTPChecker creates a new registrar API client.
func NewHTTPChecker(endpoint, apiKey, apiSecret string, opts ...CheckerOption) *HTTPChecker {
	c := &HTTPChecker{
		endpoint:    endpoint,
		apiKey:      apiKey,
		apiSecret:   apiSecret,
		client:      &http.Client{Timeout: DefaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(DefaultRate), 1),
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time interface check.
var _ Checker = (*HTTPChecker)(nil)

// availableResponse is the registrar API wire format.
type availableResponse struct {
	Available  bool    `json:"available"`
	Definitive bool    `json:"definitive"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	Period     int     `json:"period"`
}

// CheckAvailability queries the registrar for one domain. Transient
// failures (5xx, 429, network errors) are retried with exponential
// backoff; a definitive 4xx fails immediately.
func (c *HTTPChecker) CheckAvailability(ctx context.Context, name string) (*Availability, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &LookupError{Name: name, Err: err}
	}

	var lastErr error
	delay := c.retryDelay
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &LookupError{Name: name, Err: ctx.Err()}
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		avail, retryable, err := c.doCheck(ctx, name)
		if err == nil {
			return avail, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, &LookupError{Name: name, Err: lastErr}
}

// doCheck performs a single request. The second return reports whether
// the failure is worth retrying.
func (c *HTTPChecker) doCheck(ctx context.Context, name string) (*Availability, bool, error) {
	u := fmt.Sprintf("%s?domain=%s", c.endpoint, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("sso-key %s:%s", c.apiKey, c.apiSecret))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("registrar status %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("registrar status %d: %s", resp.StatusCode, body)
	}

	var parsed availableResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}

	avail := &Availability{
		Available: parsed.Available,
		Currency:  parsed.Currency,
		Period:    parsed.Period,
	}
	if parsed.Price > 0 {
		price := parsed.Price
		avail.Price = &price
	}
	return avail, false, nil
}
