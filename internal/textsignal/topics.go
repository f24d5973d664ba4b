package textsignal

import (
	"sort"
	"strings"
	"unicode"
)

// Terms a candidate phrase must contain to count as market-relevant.
var relevanceTerms = []string{"market", "stock", "trade", "price", "investor"}

// Function words excluded from candidate phrases.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "to": true,
	"of": true, "in": true, "on": true, "at": true, "for": true, "and": true,
	"or": true, "but": true, "with": true, "by": true, "from": true,
	"as": true, "it": true, "its": true, "this": true, "that": true,
	"these": true, "those": true, "will": true, "would": true, "has": true,
	"have": true, "had": true, "not": true, "no": true, "so": true,
	"if": true, "then": true, "than": true, "can": true, "could": true,
	"should": true, "just": true, "about": true, "into": true, "over": true,
	"i": true, "you": true, "we": true, "they": true, "my": true, "our": true,
}

// ExtractTopics concatenates the batch, chunks it into candidate phrases
// (maximal runs of non-stopword alphabetic tokens within one clause), keeps
// only phrases containing a market-relevance term, de-duplicates, and returns
// at most max phrases ordered by descending length. Equal-length phrases
// order lexicographically so the result is deterministic.
func ExtractTopics(texts []string, max int) []string {
	if max <= 0 {
		return []string{}
	}

	combined := strings.ToLower(strings.Join(texts, " "))

	seen := make(map[string]bool)
	var topics []string
	for _, phrase := range candidatePhrases(combined) {
		if !isRelevant(phrase) || seen[phrase] {
			continue
		}
		seen[phrase] = true
		topics = append(topics, phrase)
	}

	sort.Slice(topics, func(i, j int) bool {
		if len(topics[i]) != len(topics[j]) {
			return len(topics[i]) > len(topics[j])
		}
		return topics[i] < topics[j]
	})

	if len(topics) > max {
		topics = topics[:max]
	}
	if topics == nil {
		topics = []string{}
	}
	return topics
}

// candidatePhrases splits text into clauses on punctuation, then emits
// maximal runs of consecutive content words within each clause.
func candidatePhrases(text string) []string {
	clauses := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == ',' || r == '!' || r == '?' || r == ';' ||
			r == ':' || r == '(' || r == ')' || r == '"' || r == '\n'
	})

	var phrases []string
	for _, clause := range clauses {
		var run []string
		flush := func() {
			if len(run) > 0 {
				phrases = append(phrases, strings.Join(run, " "))
				run = nil
			}
		}
		for _, token := range strings.Fields(clause) {
			word := strings.TrimFunc(token, func(r rune) bool {
				return !unicode.IsLetter(r)
			})
			if word == "" || stopwords[word] {
				flush()
				continue
			}
			run = append(run, word)
		}
		flush()
	}
	return phrases
}

func isRelevant(phrase string) bool {
	for _, term := range relevanceTerms {
		if strings.Contains(phrase, term) {
			return true
		}
	}
	return false
}
