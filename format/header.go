// Package format implements the on-disk posting-chunk layout: the
// chunksinfo.bin file header, per-term ChunkInfo blocks, and the
// line-oriented vocabulary.txt/collection.txt files.
//
// chunksinfo.bin layout:
//
//	[4 bytes big-endian chunk_size C][1 byte encoding_header]
//	then, once per term (in vocabulary order), a ChunkInfo block:
//	  VarByte(posting_start) VarByte(posting_count-1)
//	  for each chunk: (if multi-encode) 1 byte (docCodec<<4)|freqCodec
//	                  VarByte(docs_size) VarByte(freqs_size)
//
// encoding_header is 0 for a multi-encode index (each chunk carries its
// own codec pair) or a packed (docCodec<<4)|freqCodec for a mono-encode
// index, in which case no per-chunk codec byte is written.
package format

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/agustingonzalez/invidx/codec"
)

// HeaderSize is the fixed byte length of the chunksinfo.bin header.
const HeaderSize = 5

// Header is the parsed chunksinfo.bin header.
type Header struct {
	ChunkSize   int
	Multiencode bool
	DocCodec    codec.CodecID // meaningful only when !Multiencode
	FreqCodec   codec.CodecID // meaningful only when !Multiencode
}

// PackEncodingByte packs a codec pair into chunksinfo.bin's one-byte
// encoding field: doc codec in the high nibble, freq codec in the low
// nibble.
func PackEncodingByte(doc, freq codec.CodecID) byte {
	return byte(doc)<<4 | byte(freq)&0x0f
}

// UnpackEncodingByte reverses PackEncodingByte.
func UnpackEncodingByte(b byte) (doc, freq codec.CodecID) {
	return codec.CodecID(b >> 4), codec.CodecID(b & 0x0f)
}

// WriteHeader truncates (or creates) path and writes h as the first
// HeaderSize bytes.
func WriteHeader(path string, h Header) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("format: create %s: %w", path, err)
	}
	defer f.Close()
	var buf [HeaderSize]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(h.ChunkSize))
	if h.Multiencode {
		buf[4] = 0
	} else {
		buf[4] = PackEncodingByte(h.DocCodec, h.FreqCodec)
	}
	if _, err := f.Write(buf[:]); err != nil {
		return fmt.Errorf("format: write header %s: %w", path, err)
	}
	return nil
}

// ReadHeader reads and parses the chunksinfo.bin header.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("format: open %s: %w", path, err)
	}
	defer f.Close()
	var buf [HeaderSize]byte
	if _, err := f.Read(buf[:]); err != nil {
		return Header{}, fmt.Errorf("format: read header %s: %w", path, err)
	}
	chunkSize := int(binary.BigEndian.Uint32(buf[0:4]))
	eb := buf[4]
	if eb == 0 {
		return Header{ChunkSize: chunkSize, Multiencode: true}, nil
	}
	doc, freq := UnpackEncodingByte(eb)
	return Header{ChunkSize: chunkSize, Multiencode: false, DocCodec: doc, FreqCodec: freq}, nil
}
