package stream_test

import (
	"path/filepath"
	"testing"

	"github.com/agustingonzalez/invidx/codec"
	"github.com/agustingonzalez/invidx/stream"
	"github.com/stretchr/testify/require"
)

func writeOneBlock(t *testing.T, path string, seq []uint64, id codec.CodecID, useGaps bool) {
	t.Helper()
	w, err := stream.NewWriter(path)
	require.NoError(t, err)
	_, err = w.BeginBlock(useGaps)
	require.NoError(t, err)
	require.NoError(t, w.Write(seq, id))
	_, _, err = w.CloseBlock()
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestWriterReaderRoundTripVariableByte(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postings.bin")
	seq := []uint64{1, 3, 7, 20, 21}
	writeOneBlock(t, path, seq, codec.VariableByte, true)

	r, err := stream.NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	c, _ := codec.Get(codec.VariableByte)
	size := len(mustEncode(t, codec.EncodeGaps(seq), c))
	got, err := r.Read(size, len(seq), codec.VariableByte, true)
	require.NoError(t, err)
	require.Equal(t, seq, got)
}

func mustEncode(t *testing.T, seq []uint64, c codec.Codec) []byte {
	t.Helper()
	data, _ := c.Encode(seq)
	return data
}

// TestPForDeltaBelowThresholdFallsBackToVariableByte implements spec
// scenario 4: a 40-element docId sequence requested as PForDelta must be
// written (and read back) as Variable-Byte.
func TestPForDeltaBelowThresholdFallsBackToVariableByte(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postings.bin")
	seq := make([]uint64, 40)
	for i := range seq {
		seq[i] = uint64(i + 1)
	}
	w, err := stream.NewWriter(path)
	require.NoError(t, err)
	_, err = w.BeginBlock(true)
	require.NoError(t, err)
	require.NoError(t, w.Write(seq, codec.PForDelta))
	end, _, err := w.CloseBlock()
	require.NoError(t, err)
	require.NoError(t, w.Close())

	vb, _ := codec.Get(codec.VariableByte)
	expectedSize := len(mustEncode(t, codec.EncodeGaps(seq), vb))
	require.EqualValues(t, expectedSize, end)

	r, err := stream.NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	got, err := r.Read(expectedSize, len(seq), codec.PForDelta, true)
	require.NoError(t, err)
	require.Equal(t, seq, got)
}

// TestMultiEncodeWriteTieBreak implements spec scenario 5 end to end
// through the Writer, not just codec.SelectMultiEncode directly.
func TestMultiEncodeWriteTieBreak(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postings.bin")
	w, err := stream.NewWriter(path)
	require.NoError(t, err)
	_, err = w.BeginBlock(true)
	require.NoError(t, err)
	chosen, err := w.MultiEncodeWrite([]uint64{1}, []codec.CodecID{codec.VariableByte, codec.EliasFano})
	require.NoError(t, err)
	require.Equal(t, codec.VariableByte, chosen)
	_, _, err = w.CloseBlock()
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestMultiEncodeWriteRequiresTwoCandidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postings.bin")
	w, err := stream.NewWriter(path)
	require.NoError(t, err)
	_, err = w.BeginBlock(true)
	require.NoError(t, err)
	_, err = w.MultiEncodeWrite([]uint64{1}, []codec.CodecID{codec.VariableByte})
	require.Error(t, err)
}

func TestBeginBlockTwiceIsUsageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postings.bin")
	w, err := stream.NewWriter(path)
	require.NoError(t, err)
	_, err = w.BeginBlock(true)
	require.NoError(t, err)
	_, err = w.BeginBlock(true)
	require.Error(t, err)
}
