// Package fava provides a client for Fava's JSON report API
package fava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/favalens/internal/common"
	"github.com/bobmcallan/favalens/internal/interfaces"
)

const (
	DefaultBaseURL    = "http://127.0.0.1:5000"
	DefaultLedgerSlug = "example-beancount-file"
	DefaultTimeout    = 15 * time.Second
	DefaultRateLimit  = 10 // requests per second
)

// Client implements the FavaClient interface against a Fava instance.
type Client struct {
	baseURL    string
	ledgerSlug string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the Fava base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLedger sets the ledger slug (the beancount file segment in Fava URLs)
func WithLedger(slug string) ClientOption {
	return func(c *Client) {
		c.ledgerSlug = slug
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Fava API client.
// No API key is required; Fava's report endpoints are unauthenticated.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		ledgerSlug: DefaultLedgerSlug,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// IncomeStatementURL returns the composed upstream URL without query params.
func (c *Client) IncomeStatementURL() string {
	return fmt.Sprintf("%s/%s/api/income_statement", c.baseURL, c.ledgerSlug)
}

// GetIncomeStatement fetches the income statement JSON for the configured
// ledger. One attempt per call, no retries. A non-200 upstream status maps
// to *StatusError; any transport-level failure maps to *UnreachableError.
func (c *Client) GetIncomeStatement(ctx context.Context, params interfaces.IncomeStatementParams) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &UnreachableError{Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	reqURL := c.IncomeStatementURL()

	query := url.Values{}
	for key, val := range map[string]string{
		"time":       params.Time,
		"interval":   params.Interval,
		"conversion": params.Conversion,
		"filter":     params.Filter,
	} {
		if val != "" {
			query.Set(key, val)
		}
	}
	if encoded := query.Encode(); encoded != "" {
		reqURL = reqURL + "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &UnreachableError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")

	c.logger.Info().
		Str("url", c.IncomeStatementURL()).
		Str("time", params.Time).
		Str("interval", params.Interval).
		Str("conversion", params.Conversion).
		Str("filter", params.Filter).
		Msg("Fetching income_statement from Fava")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Error().Err(err).Str("url", reqURL).Dur("elapsed", elapsed).Msg("Fava request failed")
		return nil, &UnreachableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("Fava non-OK response")
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var data any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.logger.Error().Err(err).Dur("elapsed", elapsed).Msg("Fava response decode failed")
		return nil, &UnreachableError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	c.logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("Fava API call")

	return data, nil
}

// Ensure Client implements FavaClient
var _ interfaces.FavaClient = (*Client)(nil)
