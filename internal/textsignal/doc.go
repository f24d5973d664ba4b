// Package textsignal derives lightweight market signals from batches of raw
// text: price mentions, a bullish/bearish lexicon ratio, and topic phrases.
// All functions are pure; a batch exists only for one evaluation.
package textsignal
