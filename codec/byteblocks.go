package codec

import "fmt"

// byteBlocksCodec writes every value as a fixed-width big-endian block.
// Unlike the other codecs, its width is not self-describing — callers that
// need an explicit width use EncodeWidth/DecodeWidth directly; Encode/Decode
// fall back to defaultWidth (4 bytes, as set by Get) so byteBlocksCodec
// still satisfies the plain Codec interface. SelectMultiEncode does not
// consider Byte-Blocks, so offering it as a multi-encode candidate has no
// effect.
type byteBlocksCodec struct {
	defaultWidth int
}

func (b byteBlocksCodec) ID() CodecID { return ByteBlocks }

func (b byteBlocksCodec) Encode(seq []uint64) ([]byte, int) {
	return b.EncodeWidth(seq, b.defaultWidth)
}

func (b byteBlocksCodec) Decode(data []byte, n int) ([]uint64, error) {
	return b.DecodeWidth(data, n, b.defaultWidth)
}

func (b byteBlocksCodec) EstimatedBits(seq []uint64) int {
	return len(seq) * b.defaultWidth * 8
}

// EncodeWidth writes seq as n big-endian blocks of width bytes each.
func (b byteBlocksCodec) EncodeWidth(seq []uint64, width int) ([]byte, int) {
	out := make([]byte, len(seq)*width)
	for i, v := range seq {
		for j := 0; j < width; j++ {
			shift := uint((width - 1 - j) * 8)
			out[i*width+j] = byte(v >> shift)
		}
	}
	return out, 0
}

// DecodeWidth reads n big-endian blocks of width bytes each.
func (b byteBlocksCodec) DecodeWidth(data []byte, n int, width int) ([]uint64, error) {
	if len(data) < n*width {
		return nil, fmt.Errorf("codec: byte-blocks data truncated, wanted %d numbers of width %d, got %d bytes", n, width, len(data))
	}
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		var v uint64
		for j := 0; j < width; j++ {
			v = (v << 8) | uint64(data[i*width+j])
		}
		out[i] = v
	}
	return out, nil
}
