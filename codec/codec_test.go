package codec_test

import (
	"testing"

	"github.com/agustingonzalez/invidx/codec"
	"github.com/stretchr/testify/require"
)

var allCodecIDs = []codec.CodecID{
	codec.VariableByte, codec.Unary, codec.Gamma, codec.BitPacking,
	codec.Simple16, codec.PForDelta, codec.EliasFano, codec.ByteBlocks,
}

func TestRoundTripAllCodecs(t *testing.T) {
	seqs := [][]uint64{
		{1, 2, 3, 4, 5},
		{1, 1, 1, 1},
		{5, 10, 1000, 1000000},
		{1},
	}
	for _, id := range allCodecIDs {
		c, err := codec.Get(id)
		require.NoError(t, err)
		for _, seq := range seqs {
			data, pad := c.Encode(seq)
			_ = pad
			got, err := c.Decode(data, len(seq))
			require.NoError(t, err, "codec %s", id)
			require.Equal(t, seq, got, "codec %s round-trip", id)
		}
	}
}

func TestPForDeltaRoundTripAtThreshold(t *testing.T) {
	c, err := codec.Get(codec.PForDelta)
	require.NoError(t, err)
	seq := make([]uint64, codec.PForDeltaMinElements)
	for i := range seq {
		seq[i] = uint64(i%7) + 1
	}
	seq[10] = 1 << 20 // force an exception
	data, _ := c.Encode(seq)
	got, err := c.Decode(data, len(seq))
	require.NoError(t, err)
	require.Equal(t, seq, got)
}

func TestGapRoundTrip(t *testing.T) {
	seq := []uint64{3, 5, 9, 100, 101}
	gaps := codec.EncodeGaps(seq)
	require.Equal(t, seq, codec.DecodeGaps(gaps))
}

func TestVariableByteEstimateExact(t *testing.T) {
	c, err := codec.Get(codec.VariableByte)
	require.NoError(t, err)
	seq := []uint64{1, 127, 128, 16383, 16384}
	data, _ := c.Encode(seq)
	require.Equal(t, len(data)*8, c.EstimatedBits(seq))
}

func TestUnaryEstimateExact(t *testing.T) {
	c, err := codec.Get(codec.Unary)
	require.NoError(t, err)
	seq := []uint64{1, 2, 3, 10}
	data, pad := c.Encode(seq)
	require.Equal(t, len(data)*8-pad, c.EstimatedBits(seq))
}

func TestGammaEstimateExact(t *testing.T) {
	c, err := codec.Get(codec.Gamma)
	require.NoError(t, err)
	seq := []uint64{1, 2, 3, 10, 1000}
	data, pad := c.Encode(seq)
	require.Equal(t, len(data)*8-pad, c.EstimatedBits(seq))
}

func TestBitPackingEstimateExact(t *testing.T) {
	c, err := codec.Get(codec.BitPacking)
	require.NoError(t, err)
	seq := []uint64{1, 2, 3, 100}
	data, pad := c.Encode(seq)
	require.Equal(t, len(data)*8-pad, c.EstimatedBits(seq))
}

// TestMultiEncodeTieBreakFavorsVariableByte exercises the tie-break
// scenario's candidate pair: for the singleton {42}, Variable-Byte costs 8
// bits and Elias-Fano costs 18 (an 8-bit header and 5 low bits padded to
// 16, then a 2-bit high part), so Variable-Byte must be chosen.
func TestMultiEncodeTieBreakFavorsVariableByte(t *testing.T) {
	seq := []uint64{42}
	id, _, _, err := codec.SelectMultiEncode(seq, []codec.CodecID{codec.VariableByte, codec.EliasFano}, false)
	require.NoError(t, err)
	require.Equal(t, codec.VariableByte, id)
}

func TestMultiEncodePicksSmallest(t *testing.T) {
	// A long run of 1s is near-free under Unary but costly under
	// Variable-Byte; Unary must be chosen.
	seq := make([]uint64, 50)
	for i := range seq {
		seq[i] = 1
	}
	id, _, _, err := codec.SelectMultiEncode(seq, []codec.CodecID{codec.Unary, codec.VariableByte}, false)
	require.NoError(t, err)
	require.Equal(t, codec.Unary, id)
}

func TestMultiEncodePForDeltaBaselineRequiresThreshold(t *testing.T) {
	seq := []uint64{1, 2, 3}
	id, _, _, err := codec.SelectMultiEncode(seq, []codec.CodecID{codec.PForDelta, codec.VariableByte}, false)
	require.NoError(t, err)
	require.NotEqual(t, codec.PForDelta, id, "PForDelta must not be usable below the 64-element threshold")
}

func TestByteBlocksExplicitWidthRoundTrip(t *testing.T) {
	c, err := codec.Get(codec.ByteBlocks)
	require.NoError(t, err)
	wc := c.(interface {
		EncodeWidth([]uint64, int) ([]byte, int)
		DecodeWidth([]byte, int, int) ([]uint64, error)
	})
	seq := []uint64{0, 255, 65535, 5}
	data, _ := wc.EncodeWidth(seq, 4)
	require.Len(t, data, len(seq)*4)
	got, err := wc.DecodeWidth(data, len(seq), 4)
	require.NoError(t, err)
	require.Equal(t, seq, got)
}
