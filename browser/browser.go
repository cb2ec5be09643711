// Package browser implements the Boolean AND query surface over a loaded
// index: split the query text into terms, fetch each term's posting, and
// intersect them with a roaring bitmap. Grounded in
// original_source/lib/browser.py's Browser class.
package browser

import (
	"strings"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/agustingonzalez/invidx/index"
	"github.com/agustingonzalez/invidx/roaring"
)

var log = logging.Logger("invidx/browser")

// Browser answers Boolean AND queries against a single loaded index.
type Browser struct {
	idx      *index.Index
	lastTook time.Duration
}

// New wraps idx for querying.
func New(idx *index.Index) *Browser {
	return &Browser{idx: idx}
}

// Browse splits text into whitespace-separated terms, lowercases and
// dedupes them, and returns the sorted docIds containing every term. An
// empty query (zero terms after splitting) yields an empty result; a term
// absent from the vocabulary contributes the empty set, which collapses
// the whole intersection to empty, per spec.md's Boolean AND failure
// semantics.
func (b *Browser) Browse(text string) ([]uint32, error) {
	start := time.Now()
	defer func() { b.lastTook = time.Since(start) }()

	terms := uniqueTerms(text)
	if len(terms) == 0 {
		return nil, nil
	}

	var acc *roaring.Bitmap
	for _, term := range terms {
		postings, err := b.idx.PostingFor(term)
		if err != nil {
			return nil, err
		}
		bm := roaring.New()
		for docID := range postings {
			bm.Add(docID)
		}
		if acc == nil {
			acc = bm
		} else {
			acc = acc.Intersection(bm)
		}
		if acc.Cardinality() == 0 {
			break
		}
	}

	result := acc.DocIDs()
	log.Infow("browse", "terms", terms, "hits", len(result))
	return result, nil
}

// LastDuration returns the wall-clock time the most recent Browse call
// took, mirroring the original's get_benchmark().
func (b *Browser) LastDuration() time.Duration {
	return b.lastTook
}

// uniqueTerms splits text on whitespace, lowercases each token and drops
// duplicates, preserving first-seen order.
func uniqueTerms(text string) []string {
	seen := map[string]bool{}
	var terms []string
	for _, f := range strings.Fields(text) {
		t := strings.ToLower(f)
		if seen[t] {
			continue
		}
		seen[t] = true
		terms = append(terms, t)
	}
	return terms
}
