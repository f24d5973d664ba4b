// Package engine combines cached text sentiment with price trend signals
// into qualitative market assessments.
package engine

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/pulseworks/marketpulse/internal/cache"
	"github.com/pulseworks/marketpulse/internal/domain"
	apperrors "github.com/pulseworks/marketpulse/internal/errors"
	"github.com/pulseworks/marketpulse/internal/metrics"
	"github.com/pulseworks/marketpulse/internal/sentiment"
	"github.com/pulseworks/marketpulse/internal/textsignal"
)

// Config carries the tunables for assessment classification. It is injected
// at construction so instances are independently testable.
type Config struct {
	// StrongThreshold separates "strong" from "moderate" wording when the
	// average sentiment agrees with the price trend.
	StrongThreshold float64
	// MaxTopics bounds the topic list in each assessment.
	MaxTopics int
	// SearchLimit is the number of text items requested per subject.
	SearchLimit int
	// MonitorSearchLimit is the smaller per-symbol limit used by watchlist
	// monitoring.
	MonitorSearchLimit int
	// Thresholds classifies the aggregate score into a label.
	Thresholds sentiment.Thresholds
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig() Config {
	return Config{
		StrongThreshold:    0.2,
		MaxTopics:          5,
		SearchLimit:        100,
		MonitorSearchLimit: 50,
		Thresholds:         sentiment.DefaultThresholds(),
	}
}

// Engine evaluates market sentiment per subject. The cache and collaborators
// are owned instances passed in by the caller, never package globals.
type Engine struct {
	cache    *cache.TTLCache[domain.MarketAssessment]
	searcher domain.TextSearcher
	prices   domain.PriceProvider
	scorer   domain.Scorer
	clock    clockwork.Clock
	cfg      Config
}

// New creates an engine. All dependencies are required.
func New(c *cache.TTLCache[domain.MarketAssessment], searcher domain.TextSearcher, prices domain.PriceProvider, scorer domain.Scorer, clock clockwork.Clock, cfg Config) *Engine {
	return &Engine{
		cache:    c,
		searcher: searcher,
		prices:   prices,
		scorer:   scorer,
		clock:    clock,
		cfg:      cfg,
	}
}

var symbolPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.\-]{0,9}$`)

// ValidateSymbol rejects malformed subjects before any upstream fetch.
func ValidateSymbol(symbol string) (string, error) {
	symbol = strings.TrimSpace(symbol)
	if !symbolPattern.MatchString(symbol) {
		return "", apperrors.ValidationError("invalid symbol").WithContext("symbol", symbol)
	}
	return strings.ToUpper(symbol), nil
}

// AnalyzeMarketSentiment evaluates one symbol. The returned bool reports
// whether a stale cached assessment was served because an upstream provider
// was rate limited. On a fresh cache hit neither collaborator is invoked.
func (e *Engine) AnalyzeMarketSentiment(ctx context.Context, symbol string) (domain.MarketAssessment, bool, error) {
	symbol, err := ValidateSymbol(symbol)
	if err != nil {
		return domain.MarketAssessment{}, false, err
	}

	if cached, ok := e.cache.Get(symbol); ok {
		metrics.Evaluations.WithLabelValues("cached").Inc()
		return cached, false, nil
	}

	signal, err := e.prices.PriceSignal(ctx, symbol)
	if err != nil {
		return e.fallbackOrFail(symbol, err)
	}

	texts, err := e.searcher.Search(ctx, symbol, e.cfg.SearchLimit)
	if err != nil {
		return e.fallbackOrFail(symbol, err)
	}

	assessment := e.assemble(symbol, signal, texts)
	e.cache.Put(symbol, assessment)
	metrics.Evaluations.WithLabelValues("fresh").Inc()
	slog.Info("Market sentiment evaluated",
		"symbol", symbol,
		"score", assessment.Sentiment.Score,
		"label", assessment.Sentiment.Label,
		"items", assessment.Sentiment.ItemCount,
	)
	return assessment, false, nil
}

// fallbackOrFail serves a stale cached assessment when the failure is a
// rate-limit signal; every other failure propagates unchanged.
func (e *Engine) fallbackOrFail(symbol string, err error) (domain.MarketAssessment, bool, error) {
	if apperrors.IsRateLimited(err) {
		if stale, ok := e.cache.GetStale(symbol); ok {
			metrics.CacheStaleHits.Inc()
			metrics.Evaluations.WithLabelValues("stale_fallback").Inc()
			slog.Warn("Serving stale assessment, upstream rate limited", "symbol", symbol)
			return stale, true, nil
		}
	}
	metrics.Evaluations.WithLabelValues("error").Inc()
	return domain.MarketAssessment{}, false, err
}

// assemble builds the assessment for a symbol from its price signal and text
// batch. An empty batch is a valid outcome and yields the neutral assessment.
func (e *Engine) assemble(symbol string, signal domain.PriceSignal, texts []string) domain.MarketAssessment {
	if len(texts) == 0 {
		return domain.MarketAssessment{
			Symbol: symbol,
			Sentiment: domain.SentimentResult{
				Score:     0,
				Label:     domain.LabelNeutral,
				ItemCount: 0,
			},
			Trend:         signal.Trend,
			Volatility:    signal.Volatility,
			PriceMentions: map[string]int{},
			BullishRatio:  0.5,
			Topics:        []string{},
			Assessment:    assessMixedNeutral,
			ProducedAt:    e.clock.Now(),
		}
	}

	scores := make([]float64, len(texts))
	for i, text := range texts {
		scores[i] = e.scorer.Score(text)
	}
	avg, label := sentiment.Aggregate(scores, e.cfg.Thresholds)

	return domain.MarketAssessment{
		Symbol: symbol,
		Sentiment: domain.SentimentResult{
			Score:     avg,
			Label:     label,
			ItemCount: len(texts),
		},
		Trend:         signal.Trend,
		Volatility:    signal.Volatility,
		PriceMentions: textsignal.ExtractPriceMentions(texts),
		BullishRatio:  textsignal.BullishRatio(texts),
		Topics:        textsignal.ExtractTopics(texts, e.cfg.MaxTopics),
		Assessment:    e.classify(avg, signal.Trend),
		ProducedAt:    e.clock.Now(),
	}
}

const (
	assessStrongBullish   = "Strong bullish sentiment with positive momentum"
	assessModerateBullish = "Moderately bullish sentiment"
	assessStrongBearish   = "Strong bearish sentiment with negative momentum"
	assessModerateBearish = "Moderately bearish sentiment"
	assessMixedNeutral    = "Mixed or neutral market sentiment"
)

// classify combines the average score with the price trend into the
// qualitative wording.
func (e *Engine) classify(avg float64, trend domain.Trend) string {
	switch {
	case avg > e.cfg.StrongThreshold && trend == domain.TrendUpward:
		return assessStrongBullish
	case avg > 0 && trend == domain.TrendUpward:
		return assessModerateBullish
	case avg < -e.cfg.StrongThreshold && trend == domain.TrendDownward:
		return assessStrongBearish
	case avg < 0 && trend == domain.TrendDownward:
		return assessModerateBearish
	default:
		return assessMixedNeutral
	}
}
