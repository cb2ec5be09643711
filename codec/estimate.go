package codec

import "fmt"

// SelectMultiEncode picks, encodes and returns the smallest candidate codec
// for seq, following the fixed evaluation order that makes multi-encode
// deterministic:
//
//  1. PForDelta, if offered and len(seq) >= PForDeltaMinElements, is the
//     baseline.
//  2. Simple16, if offered, replaces the baseline only if strictly smaller.
//  3. The deterministic, exactly-sized encoders — Unary, Gamma, BitPacking,
//     VariableByte, in that order — each replace the current best only if
//     strictly smaller.
//  4. Elias-Fano, if offered, is evaluated LAST against the raw
//     (non-gap-transformed) sequence, and replaces the current best only
//     if strictly smaller.
//
// Evaluating Elias-Fano last and requiring a strict improvement means ties
// resolve in favor of whichever candidate was considered earlier —
// in particular, Variable-Byte beats Elias-Fano whenever they tie, since
// Elias-Fano degenerates toward Variable-Byte's cost on short or sparse
// sequences and has no claim to priority there.
//
// Byte-Blocks is not among the codecs evaluated; a Byte-Blocks entry in
// candidates is ignored.
func SelectMultiEncode(seq []uint64, candidates []CodecID, useGaps bool) (CodecID, []byte, int, error) {
	has := func(id CodecID) bool {
		for _, c := range candidates {
			if c == id {
				return true
			}
		}
		return false
	}

	transformed := seq
	if useGaps {
		transformed = EncodeGaps(seq)
	}

	type best struct {
		id   CodecID
		bits int
		seq  []uint64
	}
	var chosen *best

	consider := func(id CodecID, data []uint64) {
		c, err := Get(id)
		if err != nil {
			return
		}
		bits := c.EstimatedBits(data)
		if chosen == nil || bits < chosen.bits {
			chosen = &best{id: id, bits: bits, seq: data}
		}
	}

	if has(PForDelta) && len(seq) >= PForDeltaMinElements {
		consider(PForDelta, transformed)
	}
	if has(Simple16) {
		consider(Simple16, transformed)
	}
	for _, id := range []CodecID{Unary, Gamma, BitPacking, VariableByte} {
		if has(id) {
			consider(id, transformed)
		}
	}
	if has(EliasFano) {
		consider(EliasFano, seq)
	}

	if chosen == nil {
		return 0, nil, 0, fmt.Errorf("codec: multi-encode given no usable candidates for a sequence of length %d", len(seq))
	}
	c, err := Get(chosen.id)
	if err != nil {
		return 0, nil, 0, err
	}
	data, pad := c.Encode(chosen.seq)
	return chosen.id, data, pad, nil
}
