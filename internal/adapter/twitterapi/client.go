// Package twitterapi implements the text-search collaborator against the
// Twitter v2 recent-search API.
package twitterapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/pulseworks/marketpulse/internal/errors"
	"github.com/pulseworks/marketpulse/internal/metrics"
	"github.com/pulseworks/marketpulse/internal/platform/retry"
)

const (
	searchPath     = "/2/tweets/search/recent"
	requestTimeout = 10 * time.Second
)

// Client searches recent tweets mentioning a symbol. It satisfies
// domain.TextSearcher and surfaces throttling as a typed rate-limited error
// so the engine can fall back to stale cache entries.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	bearerToken string
	policy      retry.Policy
}

// New creates a client for the given API base URL and bearer token.
func New(baseURL, bearerToken string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		baseURL:     baseURL,
		bearerToken: bearerToken,
		policy: retry.Policy{
			MaxAttempts:      3,
			InitialBackoff:   500 * time.Millisecond,
			RateLimitBackoff: 5 * time.Second,
		},
	}
}

type searchResponse struct {
	Data []struct {
		Text string `json:"text"`
	} `json:"data"`
	Meta struct {
		ResultCount int `json:"result_count"`
	} `json:"meta"`
}

// Search returns the text of up to limit recent tweets about the symbol.
// A symbol nobody tweeted about yields an empty batch, not an error.
func (c *Client) Search(ctx context.Context, symbol string, limit int) ([]string, error) {
	query := fmt.Sprintf("$%s OR #%s lang:en -is:retweet", symbol, symbol)

	texts, err := retry.Do(ctx, c.policy, classify, func() ([]string, error) {
		return c.search(ctx, query, limit)
	})
	if err != nil {
		// Unwrap the retry marker so callers see the typed error directly.
		var perm *retry.PermanentError
		if errors.As(err, &perm) {
			return nil, perm.Err
		}
		return nil, err
	}
	return texts, nil
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]string, error) {
	start := time.Now()

	u, err := url.Parse(c.baseURL + searchPath)
	if err != nil {
		return nil, apperrors.InternalError("invalid search URL", err)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(limit))
	params.Set("tweet.fields", "created_at,public_metrics")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperrors.InternalError("failed to build search request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("twitter", "error").Inc()
		return nil, apperrors.UpstreamError("twitter search request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.UpstreamDuration.WithLabelValues("twitter").Observe(time.Since(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.UpstreamRequests.WithLabelValues("twitter", "rate_limited").Inc()
		return nil, apperrors.RateLimitedError("twitter rate limit exceeded", retryAfterSeconds(resp))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		metrics.UpstreamRequests.WithLabelValues("twitter", "denied").Inc()
		return nil, apperrors.UpstreamError(
			fmt.Sprintf("twitter access denied (status %d), check API credentials", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusNotFound:
		metrics.UpstreamRequests.WithLabelValues("twitter", "not_found").Inc()
		return nil, apperrors.NotFoundError("twitter search endpoint not found")
	case resp.StatusCode >= 500:
		metrics.UpstreamRequests.WithLabelValues("twitter", "error").Inc()
		return nil, apperrors.UpstreamError(
			fmt.Sprintf("twitter returned status %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		metrics.UpstreamRequests.WithLabelValues("twitter", "error").Inc()
		return nil, apperrors.UpstreamError(
			fmt.Sprintf("unexpected twitter status %d", resp.StatusCode), nil)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.UpstreamRequests.WithLabelValues("twitter", "error").Inc()
		return nil, apperrors.UpstreamError("failed to decode twitter response", err)
	}

	metrics.UpstreamRequests.WithLabelValues("twitter", "ok").Inc()
	texts := make([]string, 0, len(body.Data))
	for _, tweet := range body.Data {
		texts = append(texts, tweet.Text)
	}
	return texts, nil
}

// classify maps errors to retry actions. Rate limiting stops immediately so
// the engine can consult the stale cache instead of waiting out a backoff;
// transient upstream failures retry.
func classify(err error) retry.Action {
	if apperrors.IsRateLimited(err) {
		return retry.Stop
	}
	if apperrors.IsType(err, apperrors.TypeUpstream) {
		return retry.Retry
	}
	return retry.Stop
}

func retryAfterSeconds(resp *http.Response) int {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			return seconds
		}
	}
	return 0
}
