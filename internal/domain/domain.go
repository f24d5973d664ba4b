package domain

import "time"

// Trend describes the direction of recent price movement.
type Trend string

const (
	TrendUpward   Trend = "upward"
	TrendDownward Trend = "downward"
)

// Label is the three-way classification of an aggregated sentiment score.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// Mood is the market-facing vocabulary used by the trend and monitor
// operations (bullish/bearish instead of positive/negative).
type Mood string

const (
	MoodBullish Mood = "bullish"
	MoodNeutral Mood = "neutral"
	MoodBearish Mood = "bearish"
)

// SentimentResult is the aggregate of per-item polarity scores.
// Immutable once produced.
type SentimentResult struct {
	Score     float64 `json:"score"`
	Label     Label   `json:"label"`
	ItemCount int     `json:"item_count"`
}

// PriceSignal is the trend/volatility pair supplied by the price provider.
type PriceSignal struct {
	Trend      Trend   `json:"trend"`
	Volatility float64 `json:"volatility"`
}

// MarketAssessment is the full evaluation result for one symbol. It is the
// value stored in the assessment cache and is immutable after construction.
type MarketAssessment struct {
	Symbol        string          `json:"symbol"`
	Sentiment     SentimentResult `json:"sentiment"`
	Trend         Trend           `json:"trend"`
	Volatility    float64         `json:"volatility"`
	PriceMentions map[string]int  `json:"price_mentions"`
	BullishRatio  float64         `json:"bullish_ratio"`
	Topics        []string        `json:"topics"`
	Assessment    string          `json:"assessment"`
	ProducedAt    time.Time       `json:"produced_at"`
}

// SymbolInsight is the per-symbol slice of a multi-symbol trend analysis.
type SymbolInsight struct {
	Score         float64        `json:"sentiment_score"`
	ItemCount     int            `json:"item_count"`
	PriceMentions map[string]int `json:"price_mentions"`
	BullishRatio  float64        `json:"bullish_ratio"`
}

// TrendAnalysis is the result of analyzing sentiment across several symbols.
type TrendAnalysis struct {
	Insights         map[string]SymbolInsight `json:"market_insights"`
	MarketMood       Mood                     `json:"market_mood"`
	CorrelatedTopics []string                 `json:"correlated_topics"`
}

// PriceCorrelation pairs the average price mentioned alongside a symbol with
// that symbol's sentiment score.
type PriceCorrelation struct {
	AvgMentionedPrice float64 `json:"avg_mentioned_price"`
	Sentiment         float64 `json:"sentiment_correlation"`
}

// MarketMonitor is the result of a watchlist monitoring pass.
type MarketMonitor struct {
	Symbols           []string                    `json:"symbols"`
	SentimentBySymbol map[string]float64          `json:"sentiment_by_symbol"`
	OverallMood       Mood                        `json:"overall_market_sentiment"`
	TrendingTopics    []string                    `json:"trending_topics"`
	PriceCorrelation  map[string]PriceCorrelation `json:"price_sentiment_correlation"`
}
