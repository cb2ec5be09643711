// Package index implements the read path over a finalized index
// directory: loading the vocabulary and collection, and decoding a term's
// posting on demand. It mirrors original_source/lib/index/index.py's
// Index class, minus the write-path methods that package merge owns.
package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	logging "github.com/ipfs/go-log/v2"

	"github.com/agustingonzalez/invidx/codec"
	"github.com/agustingonzalez/invidx/format"
	"github.com/agustingonzalez/invidx/invidxerr"
	"github.com/agustingonzalez/invidx/stream"
)

var log = logging.Logger("invidx/index")

// Paths returns the four file paths an index directory is expected to
// contain.
type Paths struct {
	Collection string
	Vocabulary string
	ChunksInfo string
	Postings   string
}

func pathsFor(dir string) Paths {
	return Paths{
		Collection: filepath.Join(dir, "collection.txt"),
		Vocabulary: filepath.Join(dir, "vocabulary.txt"),
		ChunksInfo: filepath.Join(dir, "chunksinfo.bin"),
		Postings:   filepath.Join(dir, "postings.bin"),
	}
}

// Exists reports whether every file of an index directory is present.
func Exists(dir string) bool {
	p := pathsFor(dir)
	for _, path := range []string{p.Collection, p.Vocabulary, p.ChunksInfo, p.Postings} {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

// term is a loaded vocabulary entry plus, when chunksInfoInMemory was
// requested, its eagerly-parsed ChunkInfo sequence.
type term struct {
	entry  format.VocabularyEntry
	parsed *format.PostingPointer // nil unless chunksInfoInMemory
}

// Index is a loaded, immutable view over an index directory.
type Index struct {
	dir    string
	paths  Paths
	header format.Header

	terms      map[string]term
	collection map[uint32]string

	chunksInfoInMemory bool
	cinfoFile          *stream.Reader // kept open for on-demand seeks
}

// Load reads the header, vocabulary and collection of the index directory
// at dir. When chunksInfoInMemory is true, every term's ChunkInfo sequence
// is parsed eagerly and retained in RAM instead of being re-read per
// lookup — see spec.md §9's "budget memory proportional to total chunks
// times 3 small integers" design note.
func Load(dir string, chunksInfoInMemory bool) (*Index, error) {
	if !Exists(dir) {
		return nil, fmt.Errorf("%w: index directory %s is incomplete", invidxerr.ErrCorpusNotFound, dir)
	}
	paths := pathsFor(dir)

	header, err := format.ReadHeader(paths.ChunksInfo)
	if err != nil {
		return nil, err
	}

	entries, err := format.ReadVocabulary(paths.Vocabulary)
	if err != nil {
		return nil, err
	}

	collEntries, err := format.ReadCollection(paths.Collection)
	if err != nil {
		return nil, err
	}
	collection := make(map[uint32]string, len(collEntries))
	for _, e := range collEntries {
		collection[uint32(e.DocID)] = e.DocName
	}

	idx := &Index{
		dir:                dir,
		paths:              paths,
		header:             header,
		terms:              make(map[string]term, len(entries)),
		collection:         collection,
		chunksInfoInMemory: chunksInfoInMemory,
	}

	if chunksInfoInMemory {
		cr, err := stream.NewReader(paths.ChunksInfo)
		if err != nil {
			return nil, err
		}
		defer cr.Close()
		for _, e := range entries {
			if err := cr.Seek(e.CInfoOffset); err != nil {
				return nil, err
			}
			data, err := cr.RawRead(int(e.CInfoLength))
			if err != nil {
				return nil, err
			}
			ptr, err := format.ParseChunkInfoBlock(data, header.Multiencode, header.ChunkSize, e.TermID)
			if err != nil {
				return nil, err
			}
			idx.terms[e.Term] = term{entry: e, parsed: &ptr}
		}
	} else {
		cinfoFile, err := stream.NewReader(paths.ChunksInfo)
		if err != nil {
			return nil, err
		}
		idx.cinfoFile = cinfoFile
		for _, e := range entries {
			idx.terms[e.Term] = term{entry: e}
		}
	}

	log.Infow("index loaded", "dir", dir, "terms", len(idx.terms), "chunksInfoInMemory", chunksInfoInMemory)
	return idx, nil
}

// Close releases the on-disk chunksinfo.bin handle kept for on-demand
// lookups. A no-op when the index was loaded with chunksInfoInMemory.
func (idx *Index) Close() error {
	if idx.cinfoFile != nil {
		return idx.cinfoFile.Close()
	}
	return nil
}

// Collection returns the docId -> docName map loaded at Load time.
func (idx *Index) Collection() map[uint32]string {
	return idx.collection
}

// ChunkSize returns the index's configured chunk size (0 means single
// chunk per term).
func (idx *Index) ChunkSize() int {
	return idx.header.ChunkSize
}

// Terms returns every term in the vocabulary, in ascending literal order.
func (idx *Index) Terms() []string {
	terms := make([]string, 0, len(idx.terms))
	for t := range idx.terms {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

func (idx *Index) pointerFor(t term) (format.PostingPointer, error) {
	if t.parsed != nil {
		return *t.parsed, nil
	}
	if err := idx.cinfoFile.Seek(t.entry.CInfoOffset); err != nil {
		return format.PostingPointer{}, err
	}
	data, err := idx.cinfoFile.RawRead(int(t.entry.CInfoLength))
	if err != nil {
		return format.PostingPointer{}, err
	}
	return format.ParseChunkInfoBlock(data, idx.header.Multiencode, idx.header.ChunkSize, t.entry.TermID)
}

// PostingCount returns how many (docId, frequency) pairs term's posting
// holds without decoding it, or 0 and no error if term is absent.
func (idx *Index) PostingCount(termStr string) (int, error) {
	t, ok := idx.terms[termStr]
	if !ok {
		return 0, nil
	}
	ptr, err := idx.pointerFor(t)
	if err != nil {
		return 0, err
	}
	return ptr.PostingCount, nil
}

// PostingFor decodes and returns the full (docId -> frequency) posting
// for term. An absent term yields an empty, non-nil map and no error, per
// spec.md §4.H's "missing term contributes the empty set" failure
// semantics.
func (idx *Index) PostingFor(termStr string) (map[uint32]uint32, error) {
	t, ok := idx.terms[termStr]
	if !ok {
		return map[uint32]uint32{}, nil
	}
	ptr, err := idx.pointerFor(t)
	if err != nil {
		return nil, err
	}

	pr, err := stream.NewReader(idx.paths.Postings)
	if err != nil {
		return nil, err
	}
	defer pr.Close()
	if err := pr.Seek(ptr.PostingStart); err != nil {
		return nil, err
	}

	result := make(map[uint32]uint32, ptr.PostingCount)
	for _, chunk := range ptr.Chunks {
		docCodec, freqCodec := chunk.DocCodec, chunk.FreqCodec
		if !idx.header.Multiencode {
			docCodec, freqCodec = idx.header.DocCodec, idx.header.FreqCodec
		}

		n := chunkElementCount(ptr.PostingCount, idx.header.ChunkSize, chunk.Number)

		docs, err := pr.Read(chunk.DocsSize, n, docCodec, docCodec != codec.EliasFano)
		if err != nil {
			return nil, err
		}
		freqs, err := pr.Read(chunk.FreqsSize, n, freqCodec, false)
		if err != nil {
			return nil, err
		}
		if len(docs) != len(freqs) {
			return nil, fmt.Errorf("%w: term %q chunk %d: %d docs vs %d freqs", invidxerr.ErrCodecMismatch, termStr, chunk.Number, len(docs), len(freqs))
		}
		for i, d := range docs {
			result[uint32(d)] = uint32(freqs[i])
		}
	}
	return result, nil
}

// chunkElementCount returns how many postings the given chunk number
// holds, per spec.md §4.G step 4: every chunk but the last holds
// chunkSize elements; the last holds the remainder (or a full chunkSize
// if it divides evenly); chunkSize == 0 means a single chunk of the
// whole posting.
func chunkElementCount(postingCount, chunkSize, chunkNumber int) int {
	sizes := format.ComputeChunkSizes(postingCount, chunkSize)
	if chunkNumber < 0 || chunkNumber >= len(sizes) {
		return 0
	}
	return sizes[chunkNumber]
}
