// Package sentiment reduces per-item polarity scores into an average and a
// three-way label, and provides a default lexicon-based polarity scorer.
package sentiment

import "github.com/pulseworks/marketpulse/internal/domain"

// Thresholds configures label classification. A score strictly above Positive
// labels positive; strictly below Negative labels negative; everything else
// is neutral. The zero value gives strict-sign classification.
type Thresholds struct {
	Positive float64
	Negative float64
}

// DefaultThresholds classifies by strict sign: any positive average is
// positive, any negative average is negative.
func DefaultThresholds() Thresholds {
	return Thresholds{Positive: 0, Negative: 0}
}

// MoodThresholds is the classification used for market mood labels: scores
// within (-0.1, 0.1) read as neutral.
func MoodThresholds() Thresholds {
	return Thresholds{Positive: 0.1, Negative: -0.1}
}

// Aggregate computes the arithmetic mean of scores and classifies it against
// the thresholds. An empty input is not an error: it yields (0, neutral).
func Aggregate(scores []float64, t Thresholds) (float64, domain.Label) {
	if len(scores) == 0 {
		return 0, domain.LabelNeutral
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))

	return avg, Classify(avg, t)
}

// Classify maps a score to a label using the thresholds.
func Classify(score float64, t Thresholds) domain.Label {
	switch {
	case score > t.Positive:
		return domain.LabelPositive
	case score < t.Negative:
		return domain.LabelNegative
	default:
		return domain.LabelNeutral
	}
}

// Mood maps a score to the market-facing vocabulary using the thresholds.
func Mood(score float64, t Thresholds) domain.Mood {
	switch Classify(score, t) {
	case domain.LabelPositive:
		return domain.MoodBullish
	case domain.LabelNegative:
		return domain.MoodBearish
	default:
		return domain.MoodNeutral
	}
}
