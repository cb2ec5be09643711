// Package indexer implements the SPIMI child worker and the coordinator
// that partitions a corpus across a pool of workers, grounded in
// original_source/lib/index/indexer.py's ChildIndexer/Indexer classes.
// Each worker tokenizes its assigned files into an in-memory
// term -> docId -> frequency map, then flushes one (or, for TREC feeds
// that cross the in-memory document cap, several numbered) subindex
// directories using a fixed Variable-Byte mono-encode — the merger is the
// only place that applies the index's real codec configuration.
package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	logging "github.com/ipfs/go-log/v2"

	"github.com/agustingonzalez/invidx/codec"
	"github.com/agustingonzalez/invidx/corpus"
	"github.com/agustingonzalez/invidx/format"
	"github.com/agustingonzalez/invidx/postingio"
	"github.com/agustingonzalez/invidx/stream"
	"github.com/agustingonzalez/invidx/tokenizer"
)

var log = logging.Logger("invidx/indexer")

// subindexCodec is the fixed mono-encode codec pair every child subindex
// is written with (spec.md §4.E step 5: "child writes optimise for
// speed, not space").
const subindexCodec = codec.VariableByte

// assignment is the set of files one worker is responsible for.
type assignment struct {
	workerID int
	// files holds the docId->path map for Text/HTML corpora, where docIds
	// are pre-assigned by the coordinator's global partition.
	files map[uint32]string
	// paths holds the ordered file list for TREC corpora, which derive
	// docIds from the feed itself rather than from this assignment.
	paths []string
}

// worker runs one SPIMI child indexer: tokenize assigned files into
// in-memory postings, then flush one or more subindex directories.
type worker struct {
	assignment  assignment
	kind        corpus.Kind
	normalizer  tokenizer.Normalizer
	maxTrecDocs int
	tmpRoot     string
}

// run executes the worker and returns the subindex directories it wrote.
func (w *worker) run() ([]string, error) {
	terms := map[string]map[uint32]uint32{}
	docs := map[uint32]string{}
	var subindexDirs []string

	switch w.kind {
	case corpus.Trec:
		tc := corpus.TrecCorpus{MaxDocsInMemory: w.maxTrecDocs}
		flushCount := 0
		onFlush := func() error {
			flushCount++
			dir, err := w.flush(docs, terms, flushCount)
			if err != nil {
				return err
			}
			subindexDirs = append(subindexDirs, dir)
			for k := range docs {
				delete(docs, k)
			}
			for k := range terms {
				delete(terms, k)
			}
			return nil
		}
		err := tc.Walk(w.assignment.paths,
			func(docID uint32, docName string) error {
				docs[docID] = docName
				return nil
			},
			func(docID uint32, line string) error {
				w.index(terms, docID, line)
				return nil
			},
			onFlush,
		)
		if err != nil {
			return nil, err
		}
		if len(docs) > 0 || len(terms) > 0 {
			flushCount++
			dir, err := w.flush(docs, terms, flushCount)
			if err != nil {
				return nil, err
			}
			subindexDirs = append(subindexDirs, dir)
		}

	case corpus.JSON:
		jc := corpus.JSONCorpus{}
		for _, path := range w.assignment.paths {
			data, err := jc.Fetch(path)
			if err != nil {
				return nil, err
			}
			err = jc.Walk(data, func(term string, docID uint32, freq uint32) error {
				if _, ok := docs[docID]; !ok {
					docs[docID] = fmt.Sprintf("doc-%d", docID)
				}
				postings, ok := terms[term]
				if !ok {
					postings = make(map[uint32]uint32)
					terms[term] = postings
				}
				postings[docID] += freq
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
		dir, err := w.flush(docs, terms, 0)
		if err != nil {
			return nil, err
		}
		subindexDirs = append(subindexDirs, dir)

	default:
		fc := corpus.FileCorpus{StripHTML: w.kind == corpus.HTML}
		err := fc.Walk(w.assignment.files,
			func(docID uint32, docName string) error {
				docs[docID] = docName
				return nil
			},
			func(docID uint32, line string) error {
				w.index(terms, docID, line)
				return nil
			},
		)
		if err != nil {
			return nil, err
		}
		dir, err := w.flush(docs, terms, 0)
		if err != nil {
			return nil, err
		}
		subindexDirs = append(subindexDirs, dir)
	}

	log.Infow("worker finished", "worker", w.assignment.workerID, "subindexes", len(subindexDirs))
	return subindexDirs, nil
}

// index tokenizes line and records each surviving term's occurrence
// against docID, implementing SPIMI steps 1-2: a new term gets a fresh
// postings map, and every occurrence increments that term's count for
// docID directly in memory.
func (w *worker) index(terms map[string]map[uint32]uint32, docID uint32, line string) {
	for _, token := range strings.Fields(line) {
		term, ok := w.normalizer.Normalize(token)
		if !ok {
			continue
		}
		postings, ok := terms[term]
		if !ok {
			postings = make(map[uint32]uint32)
			terms[term] = postings
		}
		postings[docID]++
	}
}

// flush serializes docs/terms to a fresh uuid-named subindex directory
// and returns its path.
func (w *worker) flush(docs map[uint32]string, terms map[string]map[uint32]uint32, subindexNumber int) (string, error) {
	name := fmt.Sprintf("worker-%d-%s", w.assignment.workerID, uuid.NewString())
	if subindexNumber > 0 {
		name = fmt.Sprintf("%s-%d", name, subindexNumber)
	}
	dir := filepath.Join(w.tmpRoot, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("indexer: mkdir %s: %w", dir, err)
	}

	log.Infow("flushing subindex", "dir", dir, "docs", len(docs), "terms", len(terms))

	var collEntries []format.CollectionEntry
	for id, name := range docs {
		collEntries = append(collEntries, format.CollectionEntry{DocID: int(id), DocName: name})
	}
	if err := format.WriteCollection(filepath.Join(dir, "collection.txt"), collEntries); err != nil {
		return "", err
	}

	if err := format.WriteHeader(filepath.Join(dir, "chunksinfo.bin"), format.Header{
		ChunkSize: 0, Multiencode: false, DocCodec: subindexCodec, FreqCodec: subindexCodec,
	}); err != nil {
		return "", err
	}

	pw, err := stream.NewWriter(filepath.Join(dir, "postings.bin"))
	if err != nil {
		return "", err
	}
	cw, err := stream.NewWriter(filepath.Join(dir, "chunksinfo.bin"))
	if err != nil {
		return "", err
	}

	cfg := postingio.Config{
		ChunkSize:      0,
		DocCandidates:  []codec.CodecID{subindexCodec},
		FreqCandidates: []codec.CodecID{subindexCodec},
	}

	sortedTerms := make([]string, 0, len(terms))
	for t := range terms {
		sortedTerms = append(sortedTerms, t)
	}
	sort.Strings(sortedTerms)

	var entries []format.VocabularyEntry
	termID := 1
	for _, t := range sortedTerms {
		e, err := postingio.WriteTerm(pw, cw, termID, t, terms[t], cfg)
		if err != nil {
			pw.Close()
			cw.Close()
			return "", err
		}
		entries = append(entries, e)
		termID++
	}

	if err := pw.Close(); err != nil {
		return "", err
	}
	if err := cw.Close(); err != nil {
		return "", err
	}
	if err := format.WriteVocabulary(filepath.Join(dir, "vocabulary.txt"), entries); err != nil {
		return "", err
	}

	return dir, nil
}
