package sentiment

import (
	"strings"
	"unicode"
)

// LexiconScorer is the default polarity scorer: a weighted word lexicon
// averaged over matched words. Any external scorer can replace it through
// domain.Scorer; this one exists so the binary works without a model.
type LexiconScorer struct {
	weights map[string]float64
}

// NewLexiconScorer creates a scorer with the built-in financial lexicon.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{weights: defaultWeights}
}

var defaultWeights = map[string]float64{
	// optimistic
	"good": 0.5, "great": 0.8, "excellent": 0.9, "strong": 0.5,
	"gain": 0.6, "gains": 0.6, "profit": 0.6, "profits": 0.6,
	"growth": 0.5, "beat": 0.5, "beats": 0.5, "record": 0.4,
	"rally": 0.6, "surge": 0.7, "soar": 0.8, "soaring": 0.8,
	"moon": 0.8, "bullish": 0.8, "buy": 0.4, "upgrade": 0.6,
	"outperform": 0.6, "win": 0.5, "winning": 0.5, "positive": 0.5,
	"calls": 0.3, "breakout": 0.5, "higher": 0.3, "rocket": 0.7,

	// pessimistic
	"bad": -0.5, "terrible": -0.9, "weak": -0.5, "loss": -0.6,
	"losses": -0.6, "miss": -0.5, "missed": -0.5, "decline": -0.5,
	"drop": -0.5, "plunge": -0.8, "crash": -0.9, "crashing": -0.9,
	"tank": -0.7, "tanking": -0.7, "bearish": -0.8, "sell": -0.4,
	"downgrade": -0.6, "underperform": -0.6, "negative": -0.5,
	"puts": -0.3, "dump": -0.6, "dumping": -0.6, "lower": -0.3,
	"bankrupt": -1.0, "bankruptcy": -1.0, "fear": -0.5, "panic": -0.7,
}

// Score returns the average lexicon weight of matched words, in [-1, 1].
// Text with no lexicon words scores 0.
func (s *LexiconScorer) Score(text string) float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	sum := 0.0
	matched := 0
	for _, w := range words {
		if weight, ok := s.weights[w]; ok {
			sum += weight
			matched++
		}
	}
	if matched == 0 {
		return 0
	}

	avg := sum / float64(matched)
	if avg > 1 {
		return 1
	}
	if avg < -1 {
		return -1
	}
	return avg
}
