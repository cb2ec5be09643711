package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/agustingonzalez/invidx/bitbuf"
)

// pForDeltaCodec implements a simplified Patched Frame-of-Reference: a
// single bit width b is chosen so most values fit in b bits; values that
// don't ("exceptions") are bit-packed as zero placeholders in the main
// array and patched back in afterwards via explicit (position, value)
// records. Real PForDelta implementations chain exceptions through the
// unused low bits of the frame; this keeps the exception list external and
// explicit, which is easier to reason about at the cost of a little size.
//
// Callers are responsible for the >= 64 element threshold (spec invariant:
// shorter sequences use Variable-Byte instead, on both the write and read
// paths) — this codec itself only implements the encoding.
type pForDeltaCodec struct{}

func (pForDeltaCodec) ID() CodecID { return PForDelta }

const pfdExceptionRecordBits = 32 + 64 // position + value

func choosePFDFrame(seq []uint64) (width int, exceptions []int) {
	bestWidth := 0
	bestCost := -1
	var bestExceptions []int
	for w := 0; w <= 63; w++ {
		var exc []int
		limit := uint64(1) << uint(w)
		for i, v := range seq {
			if v >= limit {
				exc = append(exc, i)
			}
		}
		cost := 8 + 32 + len(seq)*w + len(exc)*pfdExceptionRecordBits
		if bestCost == -1 || cost < bestCost {
			bestCost = cost
			bestWidth = w
			bestExceptions = exc
		}
	}
	return bestWidth, bestExceptions
}

func (pForDeltaCodec) Encode(seq []uint64) ([]byte, int) {
	width, exceptions := choosePFDFrame(seq)
	buf := bitbuf.New()
	buf.WriteBits(uint64(width), 8)
	buf.WriteBits(uint64(len(exceptions)), 32)
	excSet := make(map[int]bool, len(exceptions))
	for _, e := range exceptions {
		excSet[e] = true
	}
	for i, v := range seq {
		if excSet[i] {
			buf.WriteBits(0, width)
		} else {
			buf.WriteBits(v, width)
		}
	}
	buf.CloseByte()
	for _, pos := range exceptions {
		var rec [12]byte
		binary.BigEndian.PutUint32(rec[0:4], uint32(pos))
		binary.BigEndian.PutUint64(rec[4:12], seq[pos])
		buf.WriteByteAligned(rec[:])
	}
	return buf.Bytes(), buf.Padding()
}

func (pForDeltaCodec) Decode(data []byte, n int) ([]uint64, error) {
	r := bitbuf.NewReader(data)
	if len(data) < 5 {
		return nil, fmt.Errorf("codec: pfor data missing header")
	}
	width := int(r.ReadBits(8))
	numExceptions := int(r.ReadBits(32))
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		out[i] = r.ReadBits(width)
	}
	r.AlignByte()
	bytePos := r.Pos() / 8
	for i := 0; i < numExceptions; i++ {
		if bytePos+12 > len(data) {
			return nil, fmt.Errorf("codec: pfor exception records truncated")
		}
		pos := binary.BigEndian.Uint32(data[bytePos : bytePos+4])
		val := binary.BigEndian.Uint64(data[bytePos+4 : bytePos+12])
		bytePos += 12
		if int(pos) < n {
			out[pos] = val
		}
	}
	return out, nil
}

func (pForDeltaCodec) EstimatedBits(seq []uint64) int {
	width, exceptions := choosePFDFrame(seq)
	packed := (8 + 32 + len(seq)*width + 7) / 8 * 8 // header and frame, padded to a byte
	return packed + len(exceptions)*pfdExceptionRecordBits
}
