package engine

import (
	"context"
	"sort"

	"github.com/pulseworks/marketpulse/internal/domain"
	apperrors "github.com/pulseworks/marketpulse/internal/errors"
	"github.com/pulseworks/marketpulse/internal/sentiment"
	"github.com/pulseworks/marketpulse/internal/textsignal"
)

const correlatedTopicLimit = 5

// AnalyzeMarketTrends scans several symbols in one pass and summarizes the
// overall market mood. Results are not cached: a trend scan is a fresh
// cross-section, not a per-subject evaluation.
func (e *Engine) AnalyzeMarketTrends(ctx context.Context, symbols []string) (domain.TrendAnalysis, error) {
	if len(symbols) == 0 {
		return domain.TrendAnalysis{}, apperrors.ValidationError("at least one symbol is required")
	}

	insights := make(map[string]domain.SymbolInsight, len(symbols))
	topicCounts := make(map[string]int)
	total := 0.0

	for _, raw := range symbols {
		symbol, err := ValidateSymbol(raw)
		if err != nil {
			return domain.TrendAnalysis{}, err
		}

		texts, err := e.searcher.Search(ctx, symbol, e.cfg.SearchLimit)
		if err != nil {
			return domain.TrendAnalysis{}, err
		}

		scores := make([]float64, len(texts))
		for i, text := range texts {
			scores[i] = e.scorer.Score(text)
		}
		avg, _ := sentiment.Aggregate(scores, e.cfg.Thresholds)

		insights[symbol] = domain.SymbolInsight{
			Score:         avg,
			ItemCount:     len(texts),
			PriceMentions: textsignal.ExtractPriceMentions(texts),
			BullishRatio:  textsignal.BullishRatio(texts),
		}
		for _, topic := range textsignal.ExtractTopics(texts, e.cfg.MaxTopics) {
			topicCounts[topic]++
		}
		total += avg
	}

	mood := sentiment.Mood(total/float64(len(insights)), sentiment.MoodThresholds())

	return domain.TrendAnalysis{
		Insights:         insights,
		MarketMood:       mood,
		CorrelatedTopics: topTopics(topicCounts, correlatedTopicLimit),
	}, nil
}

// topTopics returns the most frequent topics, count descending with a
// lexicographic tie-break for determinism.
func topTopics(counts map[string]int, limit int) []string {
	topics := make([]string, 0, len(counts))
	for topic := range counts {
		topics = append(topics, topic)
	}
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})
	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}
