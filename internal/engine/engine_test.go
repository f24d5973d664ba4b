package engine

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseworks/marketpulse/internal/cache"
	"github.com/pulseworks/marketpulse/internal/domain"
	apperrors "github.com/pulseworks/marketpulse/internal/errors"
)

type mockSearcher struct {
	texts     []string
	err       error
	calls     int
	lastLimit int
}

func (m *mockSearcher) Search(_ context.Context, _ string, limit int) ([]string, error) {
	m.calls++
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.texts, nil
}

type mockPrices struct {
	signal domain.PriceSignal
	err    error
	calls  int
}

func (m *mockPrices) PriceSignal(_ context.Context, _ string) (domain.PriceSignal, error) {
	m.calls++
	if m.err != nil {
		return domain.PriceSignal{}, m.err
	}
	return m.signal, nil
}

// mockScorer scores texts from a fixed table; unknown texts score fallback.
type mockScorer struct {
	scores   map[string]float64
	fallback float64
}

func (m *mockScorer) Score(text string) float64 {
	if score, ok := m.scores[text]; ok {
		return score
	}
	return m.fallback
}

type fixture struct {
	engine   *Engine
	cache    *cache.TTLCache[domain.MarketAssessment]
	searcher *mockSearcher
	prices   *mockPrices
	scorer   *mockScorer
	clock    clockwork.FakeClock
}

func newFixture() *fixture {
	clock := clockwork.NewFakeClock()
	c := cache.New[domain.MarketAssessment](time.Hour, clock)
	searcher := &mockSearcher{}
	prices := &mockPrices{signal: domain.PriceSignal{Trend: domain.TrendUpward, Volatility: 5.0}}
	scorer := &mockScorer{scores: map[string]float64{}}

	return &fixture{
		engine:   New(c, searcher, prices, scorer, clock, DefaultConfig()),
		cache:    c,
		searcher: searcher,
		prices:   prices,
		scorer:   scorer,
		clock:    clock,
	}
}

func TestValidateSymbol(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "aapl", want: "AAPL"},
		{input: "  TSLA  ", want: "TSLA"},
		{input: "BRK.B", want: "BRK.B"},
		{input: "BTC-USD", want: "BTC-USD"},
		{input: "", wantErr: true},
		{input: "1AAPL", wantErr: true},
		{input: "WAYTOOLONGSYMBOL", wantErr: true},
		{input: "AA PL", wantErr: true},
		{input: "$AAPL", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateSymbol(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzeMarketSentiment_FullAssessment(t *testing.T) {
	f := newFixture()
	f.searcher.texts = []string{
		"AAPL to the moon, buy at $150",
		"time to sell AAPL before the crash at $150",
	}
	f.scorer.scores = map[string]float64{
		f.searcher.texts[0]: 0.8,
		f.searcher.texts[1]: -0.2,
	}

	got, stale, err := f.engine.AnalyzeMarketSentiment(context.Background(), "aapl")
	require.NoError(t, err)
	assert.False(t, stale)

	assert.Equal(t, "AAPL", got.Symbol)
	assert.InDelta(t, 0.3, got.Sentiment.Score, 1e-9)
	assert.Equal(t, domain.LabelPositive, got.Sentiment.Label)
	assert.Equal(t, 2, got.Sentiment.ItemCount)
	assert.Equal(t, domain.TrendUpward, got.Trend)
	assert.InDelta(t, 5.0, got.Volatility, 1e-9)
	assert.Equal(t, map[string]int{"$150": 2}, got.PriceMentions)
	assert.InDelta(t, 0.5, got.BullishRatio, 1e-9, "One bullish and one bearish text")
	assert.Equal(t, "Strong bullish sentiment with positive momentum", got.Assessment)
	assert.Equal(t, f.clock.Now(), got.ProducedAt)

	assert.Equal(t, 1, f.searcher.calls)
	assert.Equal(t, 1, f.prices.calls)
	assert.Equal(t, DefaultConfig().SearchLimit, f.searcher.lastLimit)
}

func TestAnalyzeMarketSentiment_CacheHitSkipsCollaborators(t *testing.T) {
	f := newFixture()
	f.searcher.texts = []string{"great gains"}

	first, _, err := f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
	require.NoError(t, err)

	second, stale, err := f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, first, second)

	assert.Equal(t, 1, f.searcher.calls, "Cache hit must not re-fetch texts")
	assert.Equal(t, 1, f.prices.calls, "Cache hit must not re-fetch prices")
}

func TestAnalyzeMarketSentiment_ExpiredEntryTriggersRefetch(t *testing.T) {
	f := newFixture()
	f.searcher.texts = []string{"great gains"}

	_, _, err := f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)

	_, _, err = f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 2, f.searcher.calls, "Expired entry should fall through to a fresh evaluation")
}

func TestAnalyzeMarketSentiment_EmptyBatchIsNeutral(t *testing.T) {
	f := newFixture()
	f.searcher.texts = nil

	got, stale, err := f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.False(t, stale)

	assert.Zero(t, got.Sentiment.Score)
	assert.Equal(t, domain.LabelNeutral, got.Sentiment.Label)
	assert.Zero(t, got.Sentiment.ItemCount)
	assert.Equal(t, map[string]int{}, got.PriceMentions)
	assert.InDelta(t, 0.5, got.BullishRatio, 1e-9)
	assert.Equal(t, []string{}, got.Topics)
	assert.Equal(t, "Mixed or neutral market sentiment", got.Assessment)

	// The neutral assessment is still a real result and gets cached.
	_, _, err = f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 1, f.searcher.calls)
}

func TestAnalyzeMarketSentiment_InvalidSymbol(t *testing.T) {
	f := newFixture()

	_, _, err := f.engine.AnalyzeMarketSentiment(context.Background(), "not a symbol")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))
	assert.Zero(t, f.searcher.calls, "Validation failures must not reach collaborators")
	assert.Zero(t, f.prices.calls)
}

func TestAnalyzeMarketSentiment_StaleFallbackOnRateLimit(t *testing.T) {
	f := newFixture()
	f.searcher.texts = []string{"great gains"}

	fresh, _, err := f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
	require.NoError(t, err)

	// Entry expires, then the price provider starts throttling.
	f.clock.Advance(time.Hour)
	f.prices.err = apperrors.RateLimitedError("throttled", 60)

	got, stale, err := f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, stale, "Expired entry served under rate limiting must be flagged stale")
	assert.Equal(t, fresh, got)
}

func TestAnalyzeMarketSentiment_SearcherRateLimitAlsoFallsBack(t *testing.T) {
	f := newFixture()
	f.searcher.texts = []string{"great gains"}

	_, _, err := f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	f.searcher.err = apperrors.RateLimitedError("throttled", 60)

	_, stale, err := f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestAnalyzeMarketSentiment_RateLimitWithoutStaleEntryFails(t *testing.T) {
	f := newFixture()
	f.prices.err = apperrors.RateLimitedError("throttled", 60)

	_, stale, err := f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
	require.Error(t, err)
	assert.False(t, stale)
	assert.True(t, apperrors.IsRateLimited(err))
}

func TestAnalyzeMarketSentiment_NonRateLimitErrorsPropagate(t *testing.T) {
	f := newFixture()
	f.searcher.texts = []string{"great gains"}

	// A stale entry exists, but not-found is not a throttling signal so the
	// fallback must not apply.
	_, _, err := f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	f.prices.err = apperrors.NotFoundError("no price data")

	_, stale, err := f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
	require.Error(t, err)
	assert.False(t, stale)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAssessmentWording(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		trend domain.Trend
		want  string
	}{
		{name: "strong bullish", score: 0.5, trend: domain.TrendUpward, want: "Strong bullish sentiment with positive momentum"},
		{name: "moderately bullish", score: 0.1, trend: domain.TrendUpward, want: "Moderately bullish sentiment"},
		{name: "threshold itself is moderate", score: 0.2, trend: domain.TrendUpward, want: "Moderately bullish sentiment"},
		{name: "strong bearish", score: -0.5, trend: domain.TrendDownward, want: "Strong bearish sentiment with negative momentum"},
		{name: "moderately bearish", score: -0.1, trend: domain.TrendDownward, want: "Moderately bearish sentiment"},
		{name: "bullish score against falling prices", score: 0.5, trend: domain.TrendDownward, want: "Mixed or neutral market sentiment"},
		{name: "bearish score against rising prices", score: -0.5, trend: domain.TrendUpward, want: "Mixed or neutral market sentiment"},
		{name: "zero score", score: 0, trend: domain.TrendUpward, want: "Mixed or neutral market sentiment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.searcher.texts = []string{"the text"}
			f.scorer.fallback = tt.score
			f.prices.signal = domain.PriceSignal{Trend: tt.trend, Volatility: 1.0}

			got, _, err := f.engine.AnalyzeMarketSentiment(context.Background(), "AAPL")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Assessment)
		})
	}
}

func TestAnalyzeMarketTrends(t *testing.T) {
	f := newFixture()
	f.searcher.texts = []string{"stock market rally, buy the gains"}
	f.scorer.fallback = 0.4

	analysis, err := f.engine.AnalyzeMarketTrends(context.Background(), []string{"aapl", "TSLA"})
	require.NoError(t, err)

	require.Len(t, analysis.Insights, 2)
	require.Contains(t, analysis.Insights, "AAPL")
	require.Contains(t, analysis.Insights, "TSLA")

	insight := analysis.Insights["AAPL"]
	assert.InDelta(t, 0.4, insight.Score, 1e-9)
	assert.Equal(t, 1, insight.ItemCount)
	assert.InDelta(t, 1.0, insight.BullishRatio, 1e-9)

	assert.Equal(t, domain.MoodBullish, analysis.MarketMood)
	assert.Equal(t, []string{"stock market rally"}, analysis.CorrelatedTopics)

	assert.Equal(t, 2, f.searcher.calls, "One search per symbol")
	assert.Zero(t, f.prices.calls, "Trend scans do not touch the price provider")
}

func TestAnalyzeMarketTrends_EmptyInput(t *testing.T) {
	f := newFixture()

	_, err := f.engine.AnalyzeMarketTrends(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))
}

func TestAnalyzeMarketTrends_InvalidSymbolAborts(t *testing.T) {
	f := newFixture()

	_, err := f.engine.AnalyzeMarketTrends(context.Background(), []string{"AAPL", "!!"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))
}

func TestAnalyzeMarketTrends_SearchErrorPropagates(t *testing.T) {
	f := newFixture()
	f.searcher.err = apperrors.UpstreamError("search failed", nil)

	_, err := f.engine.AnalyzeMarketTrends(context.Background(), []string{"AAPL"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeUpstream))
}

func TestMonitorMarket(t *testing.T) {
	f := newFixture()
	f.searcher.texts = []string{"trading at $100", "now $200, great stock market move"}
	f.scorer.fallback = 0.3

	monitor, err := f.engine.MonitorMarket(context.Background(), []string{"aapl"})
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL"}, monitor.Symbols)
	assert.InDelta(t, 0.3, monitor.SentimentBySymbol["AAPL"], 1e-9)
	assert.Equal(t, domain.MoodBullish, monitor.OverallMood)

	require.Contains(t, monitor.PriceCorrelation, "AAPL")
	corr := monitor.PriceCorrelation["AAPL"]
	assert.InDelta(t, 150.0, corr.AvgMentionedPrice, 1e-9, "Average of $100 and $200")
	assert.InDelta(t, 0.3, corr.Sentiment, 1e-9)

	assert.Equal(t, DefaultConfig().MonitorSearchLimit, f.searcher.lastLimit)
	assert.Zero(t, f.prices.calls)
}

func TestMonitorMarket_NoPricesNoCorrelation(t *testing.T) {
	f := newFixture()
	f.searcher.texts = []string{"no numbers here"}

	monitor, err := f.engine.MonitorMarket(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	assert.Empty(t, monitor.PriceCorrelation)
}

func TestMonitorMarket_EmptyWatchlist(t *testing.T) {
	f := newFixture()

	_, err := f.engine.MonitorMarket(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))
}
