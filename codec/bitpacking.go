package codec

import (
	"fmt"
	"math/bits"

	"github.com/agustingonzalez/invidx/bitbuf"
)

// bitPackingCodec packs every value in a sequence into the same fixed bit
// width, sized to the largest value present. The width is self-describing:
// it is stored as a one-byte header ahead of the packed values.
type bitPackingCodec struct{}

func (bitPackingCodec) ID() CodecID { return BitPacking }

func bitPackingWidth(seq []uint64) int {
	w := 1
	for _, v := range seq {
		if n := bits.Len64(v); n > w {
			w = n
		}
	}
	return w
}

func bitPackingBits(seq []uint64) int {
	return 8 + len(seq)*bitPackingWidth(seq)
}

func (bitPackingCodec) Encode(seq []uint64) ([]byte, int) {
	width := bitPackingWidth(seq)
	buf := bitbuf.New()
	buf.WriteBits(uint64(width), 8)
	for _, v := range seq {
		buf.WriteBits(v, width)
	}
	return buf.Bytes(), buf.Padding()
}

func (bitPackingCodec) Decode(data []byte, n int) ([]uint64, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("codec: bit-packing data missing width header")
	}
	r := bitbuf.NewReader(data)
	width := int(r.ReadBits(8))
	if width <= 0 || width > 64 {
		return nil, fmt.Errorf("codec: bit-packing invalid width %d", width)
	}
	out := make([]uint64, 0, n)
	for len(out) < n {
		if r.Pos()+width > len(data)*8 {
			return nil, fmt.Errorf("codec: bit-packing data truncated, wanted %d numbers, got %d", n, len(out))
		}
		out = append(out, r.ReadBits(width))
	}
	return out, nil
}

func (bitPackingCodec) EstimatedBits(seq []uint64) int {
	return bitPackingBits(seq)
}
