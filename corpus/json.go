package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// JSONPosting is one pre-tokenized (term, docId, frequency) entry. Feeding
// a corpus through JSONCorpus bypasses the tokenizer and corpus_type
// framing entirely — useful for already-segmented collections, or for
// replaying a prior run's term statistics without re-tokenizing.
type JSONPosting struct {
	Term          string  `json:"term"`
	DocID         uint32  `json:"doc_id"`
	TermFrequency float64 `json:"term_frequency"`
}

type jsonRoot struct {
	Segments [][]JSONPosting `json:"segments"`
}

// JSONCorpus reads a segmented postings document, either from a local
// path or an http(s) URL.
type JSONCorpus struct{}

// PostingHandler receives one already-tokenized posting at a time.
type PostingHandler func(term string, docID uint32, frequency uint32) error

// Fetch loads the raw bytes of path, which may be a local file path or an
// http(s) URL.
func (JSONCorpus) Fetch(path string) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		resp, err := http.Get(path)
		if err != nil {
			return nil, fmt.Errorf("corpus: fetch %s: %w", path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("corpus: fetch %s: non-ok status %s", path, resp.Status)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("corpus: read response body for %s: %w", path, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: read %s: %w", path, err)
	}
	return data, nil
}

// Walk parses data as a segmented postings document and invokes handler
// once per posting, segment by segment, in file order.
func (JSONCorpus) Walk(data []byte, handler PostingHandler) error {
	var root jsonRoot
	if err := json.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("corpus: parse json postings: %w", err)
	}
	for _, segment := range root.Segments {
		for _, p := range segment {
			if err := handler(p.Term, p.DocID, uint32(p.TermFrequency)); err != nil {
				return err
			}
		}
	}
	return nil
}
