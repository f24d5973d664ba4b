// Package newsfeed implements the text-search collaborator over RSS news
// headlines, for deployments without social-media API access.
package newsfeed

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	apperrors "github.com/pulseworks/marketpulse/internal/errors"
	"github.com/pulseworks/marketpulse/internal/metrics"
)

const requestTimeout = 30 * time.Second

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// Fetcher pulls headlines from configured RSS feeds and filters them by
// subject. It satisfies domain.TextSearcher.
type Fetcher struct {
	feeds      []string
	httpClient *http.Client
	parser     *gofeed.Parser
}

// New creates a fetcher over the given feed URLs. Non-HTTP URLs are dropped.
func New(feeds []string) *Fetcher {
	valid := make([]string, 0, len(feeds))
	for _, feed := range feeds {
		if strings.HasPrefix(feed, "http://") || strings.HasPrefix(feed, "https://") {
			valid = append(valid, feed)
		}
	}
	return &Fetcher{
		feeds:      valid,
		httpClient: &http.Client{Timeout: requestTimeout},
		parser:     gofeed.NewParser(),
	}
}

// Search returns up to limit headline texts mentioning the subject. A feed
// that fails to fetch is skipped; the batch fails only when every feed fails.
func (f *Fetcher) Search(ctx context.Context, subject string, limit int) ([]string, error) {
	needle := strings.ToLower(subject)
	var texts []string
	failures := 0
	var lastErr error

	for _, feedURL := range f.feeds {
		items, err := f.fetchFeed(ctx, feedURL)
		if err != nil {
			slog.Warn("Failed to fetch news feed", "feed", feedURL, "error", err)
			failures++
			lastErr = err
			continue
		}
		for _, item := range items {
			if len(texts) >= limit {
				return texts, nil
			}
			if strings.Contains(strings.ToLower(item), needle) {
				texts = append(texts, item)
			}
		}
	}

	if failures == len(f.feeds) && len(f.feeds) > 0 {
		// A typed rate-limit failure must survive aggregation so callers can
		// apply their stale-cache fallback.
		if apperrors.IsRateLimited(lastErr) {
			return nil, lastErr
		}
		return nil, apperrors.UpstreamError("all news feeds failed", lastErr)
	}
	return texts, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, feedURL string) ([]string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, apperrors.InternalError("failed to build feed request", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("newsfeed", "error").Inc()
		return nil, apperrors.UpstreamError("feed request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.UpstreamDuration.WithLabelValues("newsfeed").Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusTooManyRequests {
		metrics.UpstreamRequests.WithLabelValues("newsfeed", "rate_limited").Inc()
		return nil, apperrors.RateLimitedError("news feed rate limit exceeded", 0)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequests.WithLabelValues("newsfeed", "error").Inc()
		return nil, apperrors.UpstreamError("feed returned non-OK status", nil).
			WithContext("status", resp.StatusCode)
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("newsfeed", "error").Inc()
		return nil, apperrors.UpstreamError("failed to parse feed", err)
	}

	metrics.UpstreamRequests.WithLabelValues("newsfeed", "ok").Inc()
	texts := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.TrimSpace(htmlTagPattern.ReplaceAllString(item.Title, ""))
		if title != "" {
			texts = append(texts, title)
		}
	}
	return texts, nil
}
