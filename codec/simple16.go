package codec

import "math"

// simple16Codec packs runs of small values into 32-bit words: 4 selector
// bits choose one of 16 uniform-width layouts for the remaining 28 payload
// bits, and as many values as fit at that width are packed per word. Values
// that do not fit in 28 bits cannot be represented; EstimatedBits reports
// that with a very large (but finite) cost so the multi-encode selector
// never picks Simple16 for such a sequence.
type simple16Codec struct{}

func (simple16Codec) ID() CodecID { return Simple16 }

type s16Selector struct {
	num, width int
}

// 16 selectors, widths 1..28, num = floor(28/width). Ordered by
// descending num so the greedy packer always tries the densest layout
// first.
var s16Selectors = []s16Selector{
	{28, 1}, {14, 2}, {9, 3}, {7, 4}, {5, 5}, {4, 6}, {4, 7},
	{3, 8}, {3, 9}, {2, 10}, {2, 12}, {2, 14}, {1, 16}, {1, 18},
	{1, 21}, {1, 28},
}

const s16Infeasible = math.MaxInt32 / 2

func fitsWidth(v uint64, width int) bool {
	if width >= 64 {
		return true
	}
	return v < (uint64(1) << uint(width))
}

// chooseSelector returns the index into s16Selectors and the number of
// values from seq that selector will consume.
func chooseSelector(seq []uint64) (int, int) {
	for idx, sel := range s16Selectors {
		cnt := sel.num
		if cnt > len(seq) {
			cnt = len(seq)
		}
		ok := true
		for j := 0; j < cnt; j++ {
			if !fitsWidth(seq[j], sel.width) {
				ok = false
				break
			}
		}
		if ok {
			return idx, cnt
		}
	}
	// Last selector has width 28; if even that fails, the value exceeds
	// what Simple16 can represent at all.
	return len(s16Selectors) - 1, 1
}

func (simple16Codec) Encode(seq []uint64) ([]byte, int) {
	var out []byte
	i := 0
	for i < len(seq) {
		selIdx, cnt := chooseSelector(seq[i:])
		sel := s16Selectors[selIdx]
		var word uint32
		for j := 0; j < cnt; j++ {
			word |= uint32(seq[i+j]&((uint64(1)<<uint(sel.width))-1)) << uint(j*sel.width)
		}
		word |= uint32(selIdx) << 28
		out = append(out, byte(word>>24), byte(word>>16), byte(word>>8), byte(word))
		i += cnt
	}
	return out, 0
}

func (simple16Codec) Decode(data []byte, n int) ([]uint64, error) {
	out := make([]uint64, 0, n)
	pos := 0
	for len(out) < n {
		if pos+4 > len(data) {
			return nil, errTruncated(Simple16, n, len(out))
		}
		word := uint32(data[pos])<<24 | uint32(data[pos+1])<<16 | uint32(data[pos+2])<<8 | uint32(data[pos+3])
		pos += 4
		selIdx := int(word >> 28)
		if selIdx >= len(s16Selectors) {
			return nil, errInvalidSelector(selIdx)
		}
		sel := s16Selectors[selIdx]
		cnt := sel.num
		if remaining := n - len(out); cnt > remaining {
			cnt = remaining
		}
		mask := uint32((uint64(1) << uint(sel.width)) - 1)
		for j := 0; j < cnt; j++ {
			out = append(out, uint64((word>>uint(j*sel.width))&mask))
		}
	}
	return out, nil
}

func (simple16Codec) EstimatedBits(seq []uint64) int {
	bits := 0
	i := 0
	for i < len(seq) {
		if !fitsWidth(seq[i], 28) {
			return s16Infeasible
		}
		_, cnt := chooseSelector(seq[i:])
		bits += 32
		i += cnt
	}
	return bits
}
