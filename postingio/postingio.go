// Package postingio writes one term's full posting (doc/freq chunk split,
// codec selection, vocabulary entry) through the stream and format
// packages. It is shared by the SPIMI child worker (which always writes a
// fixed Variable-Byte mono-encode) and the merger (which applies the
// index's real, possibly multi-encode, configuration) — both follow the
// same chunk-then-write-then-record-pointer sequence.
package postingio

import (
	"sort"

	"github.com/agustingonzalez/invidx/codec"
	"github.com/agustingonzalez/invidx/format"
	"github.com/agustingonzalez/invidx/stream"
)

// Config picks the codec(s) a posting is written with. A single-element
// Candidates slice is a mono-encode; more than one makes this field
// multi-encode, so the caller's Multiencode flag (the OR of docs and
// freqs being multi-encode) is derived by the caller, not recomputed here.
type Config struct {
	ChunkSize      int
	DocCandidates  []codec.CodecID
	FreqCandidates []codec.CodecID
	Multiencode    bool
	// OnChunkWritten, if set, is invoked after every chunk's docs and freqs
	// blobs are written, letting a caller record multi-encode statistics
	// without this package depending on how stats get persisted.
	OnChunkWritten func(term string, docCodec, freqCodec codec.CodecID, docs, freqs []uint64)
}

// WriteTerm sorts postings by docId, splits them into chunks per
// cfg.ChunkSize, writes each chunk's docs/freqs blobs to pwriter and its
// ChunkInfo to cwriter, and returns the resulting vocabulary entry.
func WriteTerm(pwriter, cwriter *stream.Writer, termID int, term string, postings map[uint32]uint32, cfg Config) (format.VocabularyEntry, error) {
	docIDs := make([]uint32, 0, len(postings))
	for d := range postings {
		docIDs = append(docIDs, d)
	}
	sort.Slice(docIDs, func(i, j int) bool { return docIDs[i] < docIDs[j] })

	freqs := make([]uint32, len(docIDs))
	for i, d := range docIDs {
		freqs[i] = postings[d]
	}

	cinfoOffset, err := cwriter.BeginBlock(false)
	if err != nil {
		return format.VocabularyEntry{}, err
	}
	postingStart, _ := pwriter.Tell()
	if err := cwriter.Write([]uint64{uint64(postingStart), uint64(len(docIDs) - 1)}, codec.VariableByte); err != nil {
		return format.VocabularyEntry{}, err
	}

	sizes := format.ComputeChunkSizes(len(docIDs), cfg.ChunkSize)
	pos := 0
	for _, n := range sizes {
		docsChunk := toUint64(docIDs[pos : pos+n])
		freqsChunk := toUint64(freqs[pos : pos+n])
		pos += n

		docsSize, docChosen, err := writeBlock(pwriter, true, docsChunk, cfg.DocCandidates)
		if err != nil {
			return format.VocabularyEntry{}, err
		}
		freqsSize, freqChosen, err := writeBlock(pwriter, false, freqsChunk, cfg.FreqCandidates)
		if err != nil {
			return format.VocabularyEntry{}, err
		}

		if cfg.Multiencode {
			if err := cwriter.WriteRawByte(format.PackEncodingByte(docChosen, freqChosen)); err != nil {
				return format.VocabularyEntry{}, err
			}
		}
		if err := cwriter.Write([]uint64{uint64(docsSize), uint64(freqsSize)}, codec.VariableByte); err != nil {
			return format.VocabularyEntry{}, err
		}
		if cfg.OnChunkWritten != nil {
			cfg.OnChunkWritten(term, docChosen, freqChosen, docsChunk, freqsChunk)
		}
	}

	cinfoEnd, _, err := cwriter.CloseBlock()
	if err != nil {
		return format.VocabularyEntry{}, err
	}
	return format.VocabularyEntry{
		TermID:      termID,
		Term:        term,
		CInfoOffset: cinfoOffset,
		CInfoLength: cinfoEnd - cinfoOffset,
	}, nil
}

func writeBlock(w *stream.Writer, useGaps bool, seq []uint64, candidates []codec.CodecID) (size int64, chosen codec.CodecID, err error) {
	start, err := w.BeginBlock(useGaps)
	if err != nil {
		return 0, 0, err
	}
	if len(candidates) == 1 {
		chosen = candidates[0]
		if err = w.Write(seq, chosen); err != nil {
			return 0, 0, err
		}
	} else {
		chosen, err = w.MultiEncodeWrite(seq, candidates)
		if err != nil {
			return 0, 0, err
		}
	}
	end, _, err := w.CloseBlock()
	if err != nil {
		return 0, 0, err
	}
	return end - start, chosen, nil
}

func toUint64(seq []uint32) []uint64 {
	out := make([]uint64, len(seq))
	for i, v := range seq {
		out[i] = uint64(v)
	}
	return out
}
