// Package stream implements block-oriented I/O over a posting file: the
// bit/byte buffer (bitbuf) and codec family (codec) are combined here into
// the begin_block/write/multiencode_write/close_block sequence every
// on-disk blob — a ChunkInfo sequence, a docs blob, a freqs blob — is
// written through.
package stream

import (
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"

	"github.com/agustingonzalez/invidx/bitbuf"
	"github.com/agustingonzalez/invidx/codec"
	"github.com/agustingonzalez/invidx/invidxerr"
)

var log = logging.Logger("invidx/stream")

// autoFlushThreshold is the ~5 MiB buffered-write threshold the original
// source computes (and mislabels "GiB" in some of its print statements —
// see DESIGN.md). It is always MiB here.
const autoFlushThreshold = 5 * 1024 * 1024

// Writer appends byte-aligned blocks to a single file. Every block starts
// on a fresh byte (the postings file's layout requires this so a reader
// can seek straight to any chunk's docs or freqs blob); within one open
// block, multiple bit-granular codec writes may still share partial bytes,
// which is what Write/MultiEncodeWrite exist for.
type Writer struct {
	path        string
	file        *os.File
	block       *bitbuf.Buffer
	blockOpen   bool
	useGaps     bool
	bytePointer int64
	sinceFlush  int64
}

// NewWriter opens path for appending, creating it if necessary. It opens
// the file exactly once, in append mode — the original source's flush()
// opens the file in write mode and then immediately re-opens it in append
// mode without closing the first handle; that bug has no equivalent here.
func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("stream: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stream: stat %s: %w", path, err)
	}
	return &Writer{path: path, file: f, block: bitbuf.New(), bytePointer: info.Size()}, nil
}

// BeginBlock opens a new write block using gap-transformed docIds when
// useGaps is true (callers pass false for freqs blobs and ChunkInfo blocks;
// Write and MultiEncodeWrite skip the transform for Elias-Fano on their
// own). It returns the byte offset the block starts at. Exactly one block
// may be open at a time.
func (w *Writer) BeginBlock(useGaps bool) (int64, error) {
	if w.blockOpen {
		return 0, fmt.Errorf("%w: a block is already open on %s", invidxerr.ErrUsage, w.path)
	}
	w.blockOpen = true
	w.useGaps = useGaps
	w.block.Reset()
	return w.bytePointer, nil
}

// Write encodes seq with the given codec into the currently open block,
// applying the gap transform when the block was opened with useGaps=true
// and id is not Elias-Fano. A PForDelta request for fewer than
// codec.PForDeltaMinElements elements silently falls back to Variable-Byte,
// per the write-path half of the PForDelta threshold invariant.
func (w *Writer) Write(seq []uint64, id codec.CodecID) error {
	if !w.blockOpen {
		return fmt.Errorf("%w: write outside an open block", invidxerr.ErrUsage)
	}
	effective := id
	if id == codec.PForDelta && len(seq) < codec.PForDeltaMinElements {
		effective = codec.VariableByte
	}
	data := seq
	if w.useGaps && effective != codec.EliasFano {
		data = codec.EncodeGaps(seq)
	}
	c, err := codec.Get(effective)
	if err != nil {
		return err
	}
	encoded, pad := c.Encode(data)
	w.block.Extend(encoded, pad)
	return nil
}

// WriteRawByte appends a single byte-aligned byte to the currently open
// block without any codec interpretation — used for chunksinfo.bin's
// packed (docCodec<<4)|freqCodec byte, which sits between Variable-Byte
// fields rather than being a codec payload itself.
func (w *Writer) WriteRawByte(b byte) error {
	if !w.blockOpen {
		return fmt.Errorf("%w: write outside an open block", invidxerr.ErrUsage)
	}
	w.block.WriteBits(uint64(b), 8)
	return nil
}

// MultiEncodeWrite picks the smallest of candidates for seq (see
// codec.SelectMultiEncode for the exact ordering and tie-break rules) and
// writes it into the currently open block, returning which codec won.
func (w *Writer) MultiEncodeWrite(seq []uint64, candidates []codec.CodecID) (codec.CodecID, error) {
	if !w.blockOpen {
		return 0, fmt.Errorf("%w: multiencode_write outside an open block", invidxerr.ErrUsage)
	}
	if len(candidates) < 2 {
		return 0, fmt.Errorf("%w: multiencode_write requires at least 2 candidate codecs, got %d", invidxerr.ErrUsage, len(candidates))
	}
	id, data, pad, err := codec.SelectMultiEncode(seq, candidates, w.useGaps)
	if err != nil {
		return 0, err
	}
	w.block.Extend(data, pad)
	return id, nil
}

// CloseBlock pads the block out to a full byte, flushes it to the
// underlying file, and returns the byte offset just past the block plus
// the padding added.
func (w *Writer) CloseBlock() (int64, int, error) {
	if !w.blockOpen {
		return 0, 0, fmt.Errorf("%w: no open block to close", invidxerr.ErrUsage)
	}
	pad := w.block.CloseByte()
	data := w.block.Bytes()
	if len(data) > 0 {
		if _, err := w.file.Write(data); err != nil {
			return 0, 0, fmt.Errorf("stream: write %s: %w", w.path, err)
		}
	}
	w.bytePointer += int64(len(data))
	w.sinceFlush += int64(len(data))
	w.blockOpen = false
	if w.sinceFlush >= autoFlushThreshold {
		if err := w.file.Sync(); err != nil {
			return 0, 0, fmt.Errorf("stream: sync %s: %w", w.path, err)
		}
		log.Debugw("autoflush", "path", w.path, "bytes", w.bytePointer)
		w.sinceFlush = 0
	}
	return w.bytePointer, pad, nil
}

// Tell returns the writer's current byte offset and the bit-padding
// pending in an open block (0 if no block is open).
func (w *Writer) Tell() (int64, int) {
	if !w.blockOpen {
		return w.bytePointer, 0
	}
	return w.bytePointer + int64(w.block.ByteLen()), w.block.Padding()
}

// Flush forces any OS-buffered writes to disk.
func (w *Writer) Flush() error {
	return w.file.Sync()
}

// Close closes the underlying file without syncing it; the bytes of a
// block that is still open are not written.
func (w *Writer) Close() error {
	return w.file.Close()
}
