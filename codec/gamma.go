package codec

import (
	"fmt"
	"math/bits"

	"github.com/agustingonzalez/invidx/bitbuf"
)

// gammaCodec implements Elias Gamma: a value v >= 1 is split into its
// exponent e = floor(log2(v)) and mantissa r = v - 2^e; e is written in
// unary (e one-bits then a terminating zero) followed by the e low bits
// of r written as binary.
type gammaCodec struct{}

func (gammaCodec) ID() CodecID { return Gamma }

func gammaExponent(v uint64) int {
	return bits.Len64(v) - 1
}

func gammaBits(v uint64) int {
	e := gammaExponent(v)
	return 2*e + 1
}

func (gammaCodec) Encode(seq []uint64) ([]byte, int) {
	buf := bitbuf.New()
	for _, v := range seq {
		writeGamma(buf, v)
	}
	return buf.Bytes(), buf.Padding()
}

func writeGamma(buf *bitbuf.Buffer, v uint64) {
	e := gammaExponent(v)
	writeUnary(buf, uint64(e)+1)
	if e > 0 {
		mantissa := v - (uint64(1) << uint(e))
		buf.WriteBits(mantissa, e)
	}
}

func (gammaCodec) Decode(data []byte, n int) ([]uint64, error) {
	r := bitbuf.NewReader(data)
	out := make([]uint64, 0, n)
	for len(out) < n {
		var ones uint64
		for {
			if !r.Remaining() {
				return nil, fmt.Errorf("codec: gamma data truncated, wanted %d numbers, got %d", n, len(out))
			}
			if r.ReadBit() == 0 {
				break
			}
			ones++
		}
		e := int(ones)
		var mantissa uint64
		if e > 0 {
			mantissa = r.ReadBits(e)
		}
		out = append(out, (uint64(1)<<uint(e))+mantissa)
	}
	return out, nil
}

func (gammaCodec) EstimatedBits(seq []uint64) int {
	bits := 0
	for _, v := range seq {
		bits += gammaBits(v)
	}
	return bits
}
