package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
)

// DefaultMaxDocsInMemory is the TREC memory-pressure flush threshold,
// matching MAX_TREC_DOCS_IN_MEMORY in the original source.
const DefaultMaxDocsInMemory = 1500000

// TrecCorpus drives a small state machine over `<DOC>` / `<DOCNO>…</DOCNO>`
// / `</DOC>` markers, deriving docIds from the feed itself rather than
// from a pre-assigned file range. Once the number of documents seen since
// the last flush reaches MaxDocsInMemory, Walk calls onFlush and keeps
// reading — the caller is expected to have cleared its accumulated state
// by the time onFlush returns.
type TrecCorpus struct {
	MaxDocsInMemory int
}

func (c TrecCorpus) maxDocs() int {
	if c.MaxDocsInMemory > 0 {
		return c.MaxDocsInMemory
	}
	return DefaultMaxDocsInMemory
}

// Walk processes files in the given order; TREC docIds are authoritative
// (assigned by DOCNO), so file order only affects which subindex a
// document's postings end up in when a flush splits the feed.
func (c TrecCorpus) Walk(paths []string, onDoc DocHandler, onLine LineHandler, onFlush FlushHandler) error {
	docsSinceFlush := 0
	seen := make(map[uint32]bool)

	for _, path := range paths {
		if err := c.walkFile(path, onDoc, onLine, onFlush, &docsSinceFlush, seen); err != nil {
			return err
		}
	}
	return nil
}

func (c TrecCorpus) walkFile(path string, onDoc DocHandler, onLine LineHandler, onFlush FlushHandler, docsSinceFlush *int, seen map[uint32]bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("corpus: open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var docID uint32
	var isStartDoc bool
	var isNewDoc bool

	for sc.Scan() {
		line := sc.Text()
		switch {
		case isStartDoc:
			isStartDoc = false
			id, err := strconv.ParseUint(htmlTagRemover.ReplaceAllString(line, ""), 10, 32)
			if err != nil {
				return fmt.Errorf("corpus: malformed DOCNO %q in %s: %w", line, path, err)
			}
			docID = uint32(id)
			if !seen[docID] {
				seen[docID] = true
				isNewDoc = true
				if err := onDoc(docID, strconv.FormatUint(id, 10)); err != nil {
					return err
				}
			}
		case line == "<DOC>":
			isStartDoc = true
		case line == "</DOC>":
			if isNewDoc {
				*docsSinceFlush++
				isNewDoc = false
			}
			if *docsSinceFlush >= c.maxDocs() {
				if err := onFlush(); err != nil {
					return err
				}
				*docsSinceFlush = 0
				for k := range seen {
					delete(seen, k)
				}
			}
		default:
			if err := onLine(docID, line); err != nil {
				return err
			}
		}
	}
	return sc.Err()
}
