package codec

import (
	"fmt"

	"github.com/agustingonzalez/invidx/bitbuf"
)

// unaryCodec encodes each value v >= 1 as (v-1) one-bits followed by a
// terminating zero bit. Values are expected to be gap-transformed (hence
// small), since unary cost is linear in the value itself.
type unaryCodec struct{}

func (unaryCodec) ID() CodecID { return Unary }

func unaryBits(v uint64) int {
	return int(v) // (v-1) ones + 1 terminator = v bits
}

func (unaryCodec) Encode(seq []uint64) ([]byte, int) {
	buf := bitbuf.New()
	for _, v := range seq {
		writeUnary(buf, v)
	}
	return buf.Bytes(), buf.Padding()
}

func writeUnary(buf *bitbuf.Buffer, v uint64) {
	for i := uint64(0); i < v-1; i++ {
		buf.WriteBit(1)
	}
	buf.WriteBit(0)
}

func (unaryCodec) Decode(data []byte, n int) ([]uint64, error) {
	r := bitbuf.NewReader(data)
	out := make([]uint64, 0, n)
	for len(out) < n {
		var ones uint64
		for {
			if !r.Remaining() {
				return nil, fmt.Errorf("codec: unary data truncated, wanted %d numbers, got %d", n, len(out))
			}
			if r.ReadBit() == 0 {
				break
			}
			ones++
		}
		out = append(out, ones+1)
	}
	return out, nil
}

func (unaryCodec) EstimatedBits(seq []uint64) int {
	bits := 0
	for _, v := range seq {
		bits += unaryBits(v)
	}
	return bits
}
