package textsignal

import "regexp"

// Matches a decimal number with a leading or trailing dollar sign,
// e.g. "$10", "$10.50", "42.1$".
var pricePattern = regexp.MustCompile(`\$\d+\.?\d*|\d+\.?\d*\$`)

// ExtractPriceMentions counts currency-price tokens across the batch. Tokens
// are keyed by their literal matched string, so "$10" and "$10.00" are
// distinct keys.
func ExtractPriceMentions(texts []string) map[string]int {
	mentions := make(map[string]int)
	for _, text := range texts {
		for _, match := range pricePattern.FindAllString(text, -1) {
			mentions[match]++
		}
	}
	return mentions
}
