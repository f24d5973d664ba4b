package domain

import "context"

// TextSearcher fetches recent text items mentioning a subject. Implementations
// own their timeouts and surface throttling as a rate-limited error.
type TextSearcher interface {
	Search(ctx context.Context, subject string, limit int) ([]string, error)
}

// PriceProvider derives a trend/volatility signal from recent price history.
// A symbol with no history yields a not-found error.
type PriceProvider interface {
	PriceSignal(ctx context.Context, symbol string) (PriceSignal, error)
}

// Scorer assigns a polarity in [-1, 1] to a single text item.
type Scorer interface {
	Score(text string) float64
}
