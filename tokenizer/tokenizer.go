// Package tokenizer implements the default term normaliser: lowercase,
// strip non-letters, collapse runs of three-or-more repeated letters,
// drop stopwords, and bound term length. Indexing callers that need a
// different normalisation (a different stopword list, stemming, a
// different alphabet) provide their own Normalizer; this package is the
// one the CLI wires up by default.
package tokenizer

import (
	"regexp"
	"strings"
)

// Normalizer turns a raw token into a term, or reports it should be
// dropped. Implementations must be pure and deterministic.
type Normalizer interface {
	Normalize(token string) (term string, ok bool)
}

var nonLetter = regexp.MustCompile(`[^a-z]`)

// Default is the standard English-oriented normaliser: lowercase, strip
// anything that isn't a-z, collapse 3+ repeated letters, drop stopwords,
// and require a length in [minLen, maxLen].
type Default struct {
	Stopwords map[string]struct{}
	MinLen    int
	MaxLen    int
}

// NewDefault builds a Default normaliser with the built-in stopword list
// and the original source's length bounds (terms of 3..24 letters).
func NewDefault() *Default {
	return &Default{Stopwords: stopwordSet, MinLen: 3, MaxLen: 24}
}

// Normalize implements Normalizer.
func (d *Default) Normalize(token string) (string, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	token = nonLetter.ReplaceAllString(token, "")
	token = collapseTripleLetters(token)

	if _, stop := d.Stopwords[token]; stop {
		return "", false
	}
	if len(token) < d.MinLen || len(token) > d.MaxLen {
		return "", false
	}
	return token, true
}

// collapseTripleLetters removes runs of the same letter repeated three or
// more times down to two (e.g. "coooool" -> "cool"), matching the heuristic the
// original tokenizer used to fold keyboard-mash / markup noise without
// destroying genuine all-caps-style acronyms of length < 3.
func collapseTripleLetters(token string) string {
	if len(token) < 4 {
		return token
	}
	var b strings.Builder
	b.Grow(len(token))
	run := 0
	var last byte
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c == last {
			run++
		} else {
			run = 1
			last = c
		}
		if run <= 2 {
			b.WriteByte(c)
		}
	}
	return b.String()
}
