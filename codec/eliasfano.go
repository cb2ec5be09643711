package codec

import (
	"fmt"
	"math/bits"

	"github.com/agustingonzalez/invidx/bitbuf"
)

// eliasFanoCodec implements Elias-Fano for a non-decreasing sequence: each
// value is split into a high part and a low part of l bits, where l is
// sized from the sequence's universe and length; low parts are packed
// densely and high parts are represented as a unary bit-vector of their
// gaps. Elias-Fano is the one codec that operates on raw, non-gap-
// transformed values (it needs monotonicity, which the gap transform would
// destroy on the low end and is redundant on the high end).
type eliasFanoCodec struct{}

func (eliasFanoCodec) ID() CodecID { return EliasFano }

func eliasFanoLowWidth(seq []uint64) int {
	n := len(seq)
	if n == 0 {
		return 0
	}
	universe := seq[n-1] + 1
	if universe <= uint64(n) {
		return 0
	}
	l := bits.Len64(universe/uint64(n)) - 1
	if l < 0 {
		l = 0
	}
	return l
}

func (eliasFanoCodec) Encode(seq []uint64) ([]byte, int) {
	l := eliasFanoLowWidth(seq)
	buf := bitbuf.New()
	buf.WriteBits(uint64(l), 8)
	mask := uint64(0)
	if l > 0 {
		mask = (uint64(1) << uint(l)) - 1
	}
	for _, v := range seq {
		buf.WriteBits(v&mask, l)
	}
	buf.CloseByte()
	var prevHigh uint64
	for _, v := range seq {
		high := v >> uint(l)
		gap := high - prevHigh
		for j := uint64(0); j < gap; j++ {
			buf.WriteBit(0)
		}
		buf.WriteBit(1)
		prevHigh = high
	}
	return buf.Bytes(), buf.Padding()
}

func (eliasFanoCodec) Decode(data []byte, n int) ([]uint64, error) {
	if n == 0 {
		return nil, nil
	}
	if len(data) < 1 {
		return nil, fmt.Errorf("codec: elias-fano data missing header")
	}
	r := bitbuf.NewReader(data)
	l := int(r.ReadBits(8))
	lows := make([]uint64, n)
	for i := 0; i < n; i++ {
		lows[i] = r.ReadBits(l)
	}
	r.AlignByte()
	out := make([]uint64, n)
	var high uint64
	var zeros uint64
	idx := 0
	for idx < n {
		if !r.Remaining() {
			return nil, fmt.Errorf("codec: elias-fano high bit-vector truncated, wanted %d numbers, got %d", n, idx)
		}
		if r.ReadBit() == 0 {
			zeros++
			continue
		}
		high += zeros
		out[idx] = (high << uint(l)) | lows[idx]
		idx++
		zeros = 0
	}
	return out, nil
}

func (eliasFanoCodec) EstimatedBits(seq []uint64) int {
	n := len(seq)
	if n == 0 {
		return 8
	}
	l := eliasFanoLowWidth(seq)
	maxHigh := seq[n-1] >> uint(l)
	lowSection := (8 + n*l + 7) / 8 * 8 // header and low parts, padded to a byte
	return lowSection + n + int(maxHigh)
}
