package textsignal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPriceMentions(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  map[string]int
	}{
		{
			name:  "counts repeated tokens across texts",
			texts: []string{"price is $10", "$10 again", "$12"},
			want:  map[string]int{"$10": 2, "$12": 1},
		},
		{
			name:  "decimal prices",
			texts: []string{"bought at $150.25, sold at $151.5"},
			want:  map[string]int{"$150.25": 1, "$151.5": 1},
		},
		{
			name:  "trailing dollar sign",
			texts: []string{"worth about 42.1$ now"},
			want:  map[string]int{"42.1$": 1},
		},
		{
			name:  "distinct keys for distinct literals",
			texts: []string{"$10 and $10.00"},
			want:  map[string]int{"$10": 1, "$10.00": 1},
		},
		{
			name:  "no prices",
			texts: []string{"nothing to see here"},
			want:  map[string]int{},
		},
		{
			name:  "empty batch",
			texts: nil,
			want:  map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPriceMentions(tt.texts))
		})
	}
}

func TestBullishRatio(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  float64
	}{
		{name: "empty batch defaults to neutral", texts: nil, want: 0.5},
		{name: "no signal words defaults to neutral", texts: []string{"the weather is nice"}, want: 0.5},
		{name: "purely bullish", texts: []string{"buy now"}, want: 1.0},
		{name: "purely bearish", texts: []string{"sell now"}, want: 0.0},
		{name: "one text can count on both sides", texts: []string{"buy the dip or sell the rip"}, want: 0.5},
		{name: "mixed batch", texts: []string{"going long", "to the moon", "market will crash"}, want: 2.0 / 3.0},
		{name: "matching is case insensitive", texts: []string{"BUY BUY BUY"}, want: 1.0},
		{name: "each text counts once per side", texts: []string{"buy buy buy", "sell"}, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, BullishRatio(tt.texts), 1e-9)
		})
	}
}

func TestExtractTopics_FiltersByRelevance(t *testing.T) {
	texts := []string{
		"The stock market rallied today.",
		"I had a great lunch.",
	}

	topics := ExtractTopics(texts, 5)
	assert.Equal(t, []string{"stock market rallied today"}, topics)
}

func TestExtractTopics_Deduplicates(t *testing.T) {
	texts := []string{
		"stock market rally.",
		"stock market rally!",
		"Stock Market Rally.",
	}

	topics := ExtractTopics(texts, 5)
	assert.Equal(t, []string{"stock market rally"}, topics)
}

func TestExtractTopics_OrdersByLengthThenLexicographically(t *testing.T) {
	texts := []string{
		"stock rally continues. market moves; market gains",
	}

	// "market gains" and "market moves" share a length; lexicographic order
	// breaks the tie.
	topics := ExtractTopics(texts, 5)
	assert.Equal(t, []string{"stock rally continues", "market gains", "market moves"}, topics)
}

func TestExtractTopics_Truncates(t *testing.T) {
	texts := []string{
		"market one. market two. market three. market four.",
	}

	topics := ExtractTopics(texts, 2)
	assert.Len(t, topics, 2)
}

func TestExtractTopics_StopwordsBreakPhrases(t *testing.T) {
	texts := []string{"investors piled into the market frenzy"}

	topics := ExtractTopics(texts, 5)
	assert.Equal(t, []string{"investors piled", "market frenzy"}, topics)
}

func TestExtractTopics_EmptyResultIsNotNil(t *testing.T) {
	topics := ExtractTopics([]string{"nothing relevant here"}, 5)
	assert.NotNil(t, topics)
	assert.Empty(t, topics)

	assert.Equal(t, []string{}, ExtractTopics([]string{"stock market"}, 0))
}
