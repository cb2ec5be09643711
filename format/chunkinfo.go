package format

import (
	"github.com/agustingonzalez/invidx/codec"
	"github.com/agustingonzalez/invidx/stream"
)

// ChunkInfo describes one posting chunk: how many bytes its docs and freqs
// blobs occupy in postings.bin, and (for a multi-encode index) which codec
// pair encoded them.
type ChunkInfo struct {
	Number    int
	DocCodec  codec.CodecID
	FreqCodec codec.CodecID
	DocsSize  int
	FreqsSize int
}

// PostingPointer is a term's entry into the posting list: where its first
// chunk starts in postings.bin, how many postings it has in total, and the
// per-chunk metadata needed to read them back.
type PostingPointer struct {
	TermID       int
	PostingStart int64
	PostingCount int
	Chunks       []ChunkInfo
}

// ComputeChunkSizes splits postingCount postings into chunks of chunkSize
// elements: a chunkSize of 0 means "one chunk holding everything"; otherwise
// every chunk but the last holds exactly chunkSize postings, and the last
// holds the remainder, or a full chunkSize when postingCount divides evenly.
func ComputeChunkSizes(postingCount, chunkSize int) []int {
	if chunkSize == 0 {
		return []int{postingCount}
	}
	n := (postingCount + chunkSize - 1) / chunkSize
	sizes := make([]int, n)
	for i := 0; i < n-1; i++ {
		sizes[i] = chunkSize
	}
	if rem := postingCount % chunkSize; rem == 0 {
		sizes[n-1] = chunkSize
	} else {
		sizes[n-1] = rem
	}
	return sizes
}

// WriteChunkInfoBlock writes one term's ChunkInfo sequence as a single
// byte-aligned block: VarByte(posting_start), VarByte(posting_count-1), then
// per chunk the (optional) packed codec byte followed by VarByte(docs_size)
// and VarByte(freqs_size). None of these fields are gap-transformed. It
// returns the block's start offset and its length in bytes.
func WriteChunkInfoBlock(w *stream.Writer, multiencode bool, ptr PostingPointer) (offset int64, length int64, err error) {
	offset, err = w.BeginBlock(false)
	if err != nil {
		return 0, 0, err
	}
	if err = w.Write([]uint64{uint64(ptr.PostingStart)}, codec.VariableByte); err != nil {
		return 0, 0, err
	}
	if err = w.Write([]uint64{uint64(ptr.PostingCount - 1)}, codec.VariableByte); err != nil {
		return 0, 0, err
	}
	for _, c := range ptr.Chunks {
		if multiencode {
			if err = w.WriteRawByte(PackEncodingByte(c.DocCodec, c.FreqCodec)); err != nil {
				return 0, 0, err
			}
		}
		if err = w.Write([]uint64{uint64(c.DocsSize)}, codec.VariableByte); err != nil {
			return 0, 0, err
		}
		if err = w.Write([]uint64{uint64(c.FreqsSize)}, codec.VariableByte); err != nil {
			return 0, 0, err
		}
	}
	end, _, err := w.CloseBlock()
	if err != nil {
		return 0, 0, err
	}
	return offset, end - offset, nil
}

// ParseChunkInfoBlock parses the bytes of one term's ChunkInfo block. It
// needs chunkSize (from the chunksinfo.bin header) to know how many chunks
// to expect, since that count is only implied once posting_count is known.
func ParseChunkInfoBlock(data []byte, multiencode bool, chunkSize int, termID int) (PostingPointer, error) {
	pos := 0
	postingStart, pos, err := codec.DecodeOneVarByte(data, pos)
	if err != nil {
		return PostingPointer{}, err
	}
	countMinusOne, pos, err := codec.DecodeOneVarByte(data, pos)
	if err != nil {
		return PostingPointer{}, err
	}
	postingCount := int(countMinusOne) + 1

	sizes := ComputeChunkSizes(postingCount, chunkSize)
	chunks := make([]ChunkInfo, len(sizes))
	for i := range sizes {
		ci := ChunkInfo{Number: i}
		if multiencode {
			if pos >= len(data) {
				return PostingPointer{}, errTruncatedChunkInfo(termID, i)
			}
			ci.DocCodec, ci.FreqCodec = UnpackEncodingByte(data[pos])
			pos++
		}
		var docsSize, freqsSize uint64
		docsSize, pos, err = codec.DecodeOneVarByte(data, pos)
		if err != nil {
			return PostingPointer{}, err
		}
		freqsSize, pos, err = codec.DecodeOneVarByte(data, pos)
		if err != nil {
			return PostingPointer{}, err
		}
		ci.DocsSize = int(docsSize)
		ci.FreqsSize = int(freqsSize)
		chunks[i] = ci
	}

	return PostingPointer{
		TermID:       termID,
		PostingStart: int64(postingStart),
		PostingCount: postingCount,
		Chunks:       chunks,
	}, nil
}
