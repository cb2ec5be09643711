// Package corpus implements the three corpus framings a SPIMI worker can
// be pointed at: plain text (one document per file), HTML (same, with a
// tag-stripping pass per line), and TREC (a `<DOC>`/`<DOCNO>`/`</DOC>`
// feed that can span many documents per file and carries its own docId
// assignment). A fourth, `JSON`, lets already-tokenized postings be fed
// straight into the indexer, bypassing corpus_type/tokenizer entirely.
package corpus

// Kind selects which framing a worker applies to its assigned files.
type Kind int

const (
	Text Kind = iota
	HTML
	Trec
	JSON
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case HTML:
		return "html"
	case Trec:
		return "trec"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// DocHandler is invoked once a document's identity is known: for Text/HTML
// this happens before any of its lines are seen (docId is pre-assigned by
// the coordinator); for TREC it happens when a `<DOCNO>` is parsed off the
// feed.
type DocHandler func(docID uint32, docName string) error

// LineHandler is invoked once per line of document text, already
// tag-stripped if the corpus is HTML.
type LineHandler func(docID uint32, line string) error

// FlushHandler is invoked when a TREC feed crosses its in-memory document
// threshold; the caller is expected to serialize and clear its current
// term/doc maps before Walk continues reading.
type FlushHandler func() error
