// Package codec implements the pluggable integer-codec family used to
// compress posting-list docId gaps and term frequencies: Variable-Byte,
// Unary, Gamma, Bit-Packing, Simple-16, PForDelta, Elias-Fano and
// Byte-Blocks, plus the gap/delta transform and the adaptive multi-encode
// selector that picks the smallest of a candidate set per chunk.
package codec

import "fmt"

// CodecID identifies an integer codec on disk. Values match the persisted
// codec-id table: a chunk's metadata stores these directly (packed two to
// a byte when multi-encode is active — see format.PackEncodingByte).
type CodecID uint8

const (
	VariableByte CodecID = 1
	Unary        CodecID = 2
	Gamma        CodecID = 3
	BitPacking   CodecID = 4
	Simple16     CodecID = 5
	PForDelta    CodecID = 6
	EliasFano    CodecID = 7
	ByteBlocks   CodecID = 8
)

func (c CodecID) String() string {
	switch c {
	case VariableByte:
		return "VariableByte"
	case Unary:
		return "Unary"
	case Gamma:
		return "Gamma"
	case BitPacking:
		return "BitPacking"
	case Simple16:
		return "Simple16"
	case PForDelta:
		return "PForDelta"
	case EliasFano:
		return "EliasFano"
	case ByteBlocks:
		return "ByteBlocks"
	default:
		return fmt.Sprintf("CodecID(%d)", uint8(c))
	}
}

// PForDeltaMinElements is the minimum sequence length PForDelta will
// encode; shorter sequences fall back to Variable-Byte on both the write
// and read paths (spec invariant: PForDelta requires >= 64 elements).
const PForDeltaMinElements = 64

// Codec encodes and decodes a sequence of non-negative integers. Encode
// returns the encoded bytes and the number of unused low-order bits in the
// final byte (0 for byte-granular codecs). EstimatedBits must return the
// exact number of bits Encode will produce, without doing the encoding
// work, for the multi-encode selector's size comparison. The one exception
// is Simple16 given a value wider than 28 bits: it reports a prohibitive
// fixed cost instead, since it cannot represent that value at all.
type Codec interface {
	ID() CodecID
	Encode(seq []uint64) (data []byte, padBits int)
	Decode(data []byte, n int) ([]uint64, error)
	EstimatedBits(seq []uint64) int
}

// ByWidth is a Codec that additionally needs an explicit element width,
// used only by Byte-Blocks (its width is not self-describing).
type ByWidth interface {
	Codec
	EncodeWidth(seq []uint64, width int) (data []byte, padBits int)
	DecodeWidth(data []byte, n int, width int) ([]uint64, error)
}

// Get returns the Codec implementation for id.
func Get(id CodecID) (Codec, error) {
	switch id {
	case VariableByte:
		return variableByteCodec{}, nil
	case Unary:
		return unaryCodec{}, nil
	case Gamma:
		return gammaCodec{}, nil
	case BitPacking:
		return bitPackingCodec{}, nil
	case Simple16:
		return simple16Codec{}, nil
	case PForDelta:
		return pForDeltaCodec{}, nil
	case EliasFano:
		return eliasFanoCodec{}, nil
	case ByteBlocks:
		return byteBlocksCodec{defaultWidth: 4}, nil
	default:
		return nil, fmt.Errorf("codec: unknown codec id %d", uint8(id))
	}
}
