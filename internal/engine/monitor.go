package engine

import (
	"context"
	"strconv"
	"strings"

	"github.com/pulseworks/marketpulse/internal/domain"
	apperrors "github.com/pulseworks/marketpulse/internal/errors"
	"github.com/pulseworks/marketpulse/internal/sentiment"
	"github.com/pulseworks/marketpulse/internal/textsignal"
)

// MonitorMarket computes a sentiment snapshot across a watchlist: per-symbol
// scores, the overall mood, trending topics over the combined batch, and the
// average price mentioned alongside each symbol.
func (e *Engine) MonitorMarket(ctx context.Context, watchlist []string) (domain.MarketMonitor, error) {
	if len(watchlist) == 0 {
		return domain.MarketMonitor{}, apperrors.ValidationError("watchlist must not be empty")
	}

	symbols := make([]string, 0, len(watchlist))
	bySymbol := make(map[string]float64, len(watchlist))
	textsBySymbol := make(map[string][]string, len(watchlist))
	var allTexts []string
	total := 0.0

	for _, raw := range watchlist {
		symbol, err := ValidateSymbol(raw)
		if err != nil {
			return domain.MarketMonitor{}, err
		}
		symbols = append(symbols, symbol)

		texts, err := e.searcher.Search(ctx, symbol, e.cfg.MonitorSearchLimit)
		if err != nil {
			return domain.MarketMonitor{}, err
		}
		textsBySymbol[symbol] = texts
		allTexts = append(allTexts, texts...)

		scores := make([]float64, len(texts))
		for i, text := range texts {
			scores[i] = e.scorer.Score(text)
		}
		avg, _ := sentiment.Aggregate(scores, e.cfg.Thresholds)
		bySymbol[symbol] = avg
		total += avg
	}

	mood := sentiment.Mood(total/float64(len(symbols)), sentiment.MoodThresholds())

	correlation := make(map[string]domain.PriceCorrelation)
	for _, symbol := range symbols {
		mentions := textsignal.ExtractPriceMentions(textsBySymbol[symbol])
		if avgPrice, ok := averageMentionedPrice(mentions); ok {
			correlation[symbol] = domain.PriceCorrelation{
				AvgMentionedPrice: avgPrice,
				Sentiment:         bySymbol[symbol],
			}
		}
	}

	return domain.MarketMonitor{
		Symbols:           symbols,
		SentimentBySymbol: bySymbol,
		OverallMood:       mood,
		TrendingTopics:    textsignal.ExtractTopics(allTexts, e.cfg.MaxTopics),
		PriceCorrelation:  correlation,
	}, nil
}

// averageMentionedPrice averages the distinct price tokens (unweighted by
// occurrence count, matching how mentions are keyed).
func averageMentionedPrice(mentions map[string]int) (float64, bool) {
	if len(mentions) == 0 {
		return 0, false
	}
	sum := 0.0
	parsed := 0
	for token := range mentions {
		value, err := strconv.ParseFloat(strings.Trim(token, "$"), 64)
		if err != nil {
			continue
		}
		sum += value
		parsed++
	}
	if parsed == 0 {
		return 0, false
	}
	return sum / float64(parsed), true
}
