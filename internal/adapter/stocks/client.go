// Package stocks implements the price-signal collaborator on top of a daily
// close-price history endpoint (Stooq CSV format).
package stocks

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pulseworks/marketpulse/internal/domain"
	apperrors "github.com/pulseworks/marketpulse/internal/errors"
	"github.com/pulseworks/marketpulse/internal/metrics"
)

const (
	historyPath    = "/q/d/l/"
	requestTimeout = 10 * time.Second
	// Trailing window of daily closes used for the signal (~one month).
	historyDays = 22
)

// Client derives trend and volatility from recent daily closes. It satisfies
// domain.PriceProvider.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client for the given history endpoint base URL.
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
	}
}

// PriceSignal fetches recent closes for the symbol. Trend is upward when the
// latest close sits above the window mean; volatility is the coefficient of
// variation as a percentage. A symbol with no history is not found.
func (c *Client) PriceSignal(ctx context.Context, symbol string) (domain.PriceSignal, error) {
	closes, err := c.fetchCloses(ctx, symbol)
	if err != nil {
		return domain.PriceSignal{}, err
	}
	if len(closes) == 0 {
		return domain.PriceSignal{}, apperrors.NotFoundError(
			fmt.Sprintf("no price data found for symbol %s", symbol)).WithContext("symbol", symbol)
	}

	if len(closes) > historyDays {
		closes = closes[len(closes)-historyDays:]
	}

	mean := stat.Mean(closes, nil)
	last := closes[len(closes)-1]

	trend := domain.TrendDownward
	if last > mean {
		trend = domain.TrendUpward
	}

	volatility := 0.0
	if mean != 0 && len(closes) > 1 {
		volatility = stat.StdDev(closes, nil) / mean * 100
	}

	return domain.PriceSignal{Trend: trend, Volatility: volatility}, nil
}

func (c *Client) fetchCloses(ctx context.Context, symbol string) ([]float64, error) {
	start := time.Now()

	u, err := url.Parse(c.baseURL + historyPath)
	if err != nil {
		return nil, apperrors.InternalError("invalid price history URL", err)
	}
	params := url.Values{}
	params.Set("s", strings.ToLower(symbol)+".us")
	params.Set("i", "d")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperrors.InternalError("failed to build price request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("stocks", "error").Inc()
		return nil, apperrors.UpstreamError("price history request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.UpstreamDuration.WithLabelValues("stocks").Observe(time.Since(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.UpstreamRequests.WithLabelValues("stocks", "rate_limited").Inc()
		return nil, apperrors.RateLimitedError("price provider rate limit exceeded", 0)
	case resp.StatusCode == http.StatusNotFound:
		metrics.UpstreamRequests.WithLabelValues("stocks", "not_found").Inc()
		return nil, apperrors.NotFoundError(
			fmt.Sprintf("no price data found for symbol %s", symbol)).WithContext("symbol", symbol)
	case resp.StatusCode != http.StatusOK:
		metrics.UpstreamRequests.WithLabelValues("stocks", "error").Inc()
		return nil, apperrors.UpstreamError(
			fmt.Sprintf("price provider returned status %d", resp.StatusCode), nil)
	}

	closes, err := parseCloses(resp.Body)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("stocks", "error").Inc()
		return nil, err
	}

	metrics.UpstreamRequests.WithLabelValues("stocks", "ok").Inc()
	return closes, nil
}

// parseCloses reads Stooq daily CSV (Date,Open,High,Low,Close,Volume) and
// returns the close column in file order. Unparsable rows are skipped.
func parseCloses(r io.Reader) ([]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.UpstreamError("failed to parse price history CSV", err)
	}

	var closes []float64
	for i, record := range records {
		if i == 0 || len(record) < 5 {
			continue
		}
		close, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			continue
		}
		closes = append(closes, close)
	}
	return closes, nil
}
