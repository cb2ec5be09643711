package stream

import (
	"fmt"
	"io"
	"os"

	"github.com/agustingonzalez/invidx/codec"
	"github.com/agustingonzalez/invidx/invidxerr"
)

// Reader decodes byte-aligned blocks written by Writer.
type Reader struct {
	path string
	file *os.File
	pos  int64
}

// NewReader opens path for sequential or seeked reads.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stream: open %s: %w", path, err)
	}
	return &Reader{path: path, file: f}, nil
}

// Seek moves to an absolute byte offset.
func (r *Reader) Seek(offset int64) error {
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("stream: seek %s: %w", r.path, err)
	}
	r.pos = offset
	return nil
}

// Tell returns the current byte offset.
func (r *Reader) Tell() int64 {
	return r.pos
}

// RawRead reads exactly n bytes without any codec interpretation.
func (r *Reader) RawRead(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(r.file, buf)
	r.pos += int64(read)
	if err != nil {
		return nil, fmt.Errorf("stream: read %s: %w", r.path, err)
	}
	return buf, nil
}

// Read reads size bytes and decodes them as n values of the given codec,
// reversing the gap transform unless useGaps is false or id is
// Elias-Fano — the same two rules Writer.Write applies, mirrored exactly
// so a chunk written with Write decodes correctly:
//
//   - a declared codec of Elias-Fano never gets the gap inverse applied,
//     because Elias-Fano never received the gap transform on the write side;
//   - a declared codec of PForDelta for fewer than codec.PForDeltaMinElements
//     elements is decoded as Variable-Byte, because the writer silently
//     substituted Variable-Byte for the same reason.
func (r *Reader) Read(size int, n int, id codec.CodecID, useGaps bool) ([]uint64, error) {
	data, err := r.RawRead(size)
	if err != nil {
		return nil, err
	}
	effective := id
	if id == codec.PForDelta && n < codec.PForDeltaMinElements {
		effective = codec.VariableByte
	}
	c, err := codec.Get(effective)
	if err != nil {
		return nil, err
	}
	values, err := c.Decode(data, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", invidxerr.ErrCodecMismatch, err)
	}
	if useGaps && effective != codec.EliasFano {
		values = codec.DecodeGaps(values)
	}
	return values, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
