package textsignal

import "strings"

var (
	bullishWords = []string{"buy", "bull", "long", "up", "calls", "moon", "higher"}
	bearishWords = []string{"sell", "bear", "short", "down", "puts", "crash", "lower"}
)

// BullishRatio returns bullish hits / (bullish + bearish hits) over the
// batch. Each text counts at most once per side, but a single text may count
// toward both sides. A batch with no hits on either side returns 0.5, the
// defined neutral default.
func BullishRatio(texts []string) float64 {
	bullish, bearish := 0, 0

	for _, text := range texts {
		lower := strings.ToLower(text)
		if containsAny(lower, bullishWords) {
			bullish++
		}
		if containsAny(lower, bearishWords) {
			bearish++
		}
	}

	total := bullish + bearish
	if total == 0 {
		return 0.5
	}
	return float64(bullish) / float64(total)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
