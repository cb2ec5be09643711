package postingio_test

import (
	"path/filepath"
	"testing"

	"github.com/agustingonzalez/invidx/codec"
	"github.com/agustingonzalez/invidx/format"
	"github.com/agustingonzalez/invidx/postingio"
	"github.com/agustingonzalez/invidx/stream"
	"github.com/stretchr/testify/require"
)

func TestWriteTermMonoEncodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	pwriter, err := stream.NewWriter(filepath.Join(dir, "postings.bin"))
	require.NoError(t, err)
	cwriter, err := stream.NewWriter(filepath.Join(dir, "chunksinfo.bin"))
	require.NoError(t, err)

	postings := map[uint32]uint32{1: 2, 2: 1, 5: 3}
	cfg := postingio.Config{
		ChunkSize:      0,
		DocCandidates:  []codec.CodecID{codec.VariableByte},
		FreqCandidates: []codec.CodecID{codec.VariableByte},
	}
	entry, err := postingio.WriteTerm(pwriter, cwriter, 1, "fox", postings, cfg)
	require.NoError(t, err)
	require.NoError(t, pwriter.Close())
	require.NoError(t, cwriter.Close())

	r, err := stream.NewReader(filepath.Join(dir, "chunksinfo.bin"))
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Seek(entry.CInfoOffset))
	data, err := r.RawRead(int(entry.CInfoLength))
	require.NoError(t, err)

	ptr, err := format.ParseChunkInfoBlock(data, false, 0, 1)
	require.NoError(t, err)
	require.Equal(t, 3, ptr.PostingCount)
	require.Len(t, ptr.Chunks, 1)

	pr, err := stream.NewReader(filepath.Join(dir, "postings.bin"))
	require.NoError(t, err)
	defer pr.Close()
	require.NoError(t, pr.Seek(ptr.PostingStart))
	docs, err := pr.Read(ptr.Chunks[0].DocsSize, ptr.PostingCount, codec.VariableByte, true)
	require.NoError(t, err)
	freqs, err := pr.Read(ptr.Chunks[0].FreqsSize, ptr.PostingCount, codec.VariableByte, false)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 5}, docs)
	require.Equal(t, []uint64{2, 1, 3}, freqs)
}

func TestWriteTermChunksAtBoundary(t *testing.T) {
	dir := t.TempDir()
	pwriter, err := stream.NewWriter(filepath.Join(dir, "postings.bin"))
	require.NoError(t, err)
	cwriter, err := stream.NewWriter(filepath.Join(dir, "chunksinfo.bin"))
	require.NoError(t, err)

	postings := map[uint32]uint32{1: 1, 2: 1, 3: 1, 4: 1, 5: 1}
	cfg := postingio.Config{
		ChunkSize:      2,
		DocCandidates:  []codec.CodecID{codec.VariableByte},
		FreqCandidates: []codec.CodecID{codec.VariableByte},
	}
	entry, err := postingio.WriteTerm(pwriter, cwriter, 1, "t", postings, cfg)
	require.NoError(t, err)
	require.NoError(t, pwriter.Close())
	require.NoError(t, cwriter.Close())

	r, err := stream.NewReader(filepath.Join(dir, "chunksinfo.bin"))
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Seek(entry.CInfoOffset))
	data, err := r.RawRead(int(entry.CInfoLength))
	require.NoError(t, err)
	ptr, err := format.ParseChunkInfoBlock(data, false, 2, 1)
	require.NoError(t, err)
	require.Len(t, ptr.Chunks, 3)
}

func TestWriteTermMultiencodeRecordsCodecPerChunk(t *testing.T) {
	dir := t.TempDir()
	pwriter, err := stream.NewWriter(filepath.Join(dir, "postings.bin"))
	require.NoError(t, err)
	cwriter, err := stream.NewWriter(filepath.Join(dir, "chunksinfo.bin"))
	require.NoError(t, err)

	postings := map[uint32]uint32{1: 1}
	cfg := postingio.Config{
		ChunkSize:      0,
		DocCandidates:  []codec.CodecID{codec.VariableByte, codec.EliasFano},
		FreqCandidates: []codec.CodecID{codec.VariableByte},
		Multiencode:    true,
	}
	entry, err := postingio.WriteTerm(pwriter, cwriter, 1, "t", postings, cfg)
	require.NoError(t, err)
	require.NoError(t, pwriter.Close())
	require.NoError(t, cwriter.Close())

	r, err := stream.NewReader(filepath.Join(dir, "chunksinfo.bin"))
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Seek(entry.CInfoOffset))
	data, err := r.RawRead(int(entry.CInfoLength))
	require.NoError(t, err)
	ptr, err := format.ParseChunkInfoBlock(data, true, 0, 1)
	require.NoError(t, err)
	require.Equal(t, codec.VariableByte, ptr.Chunks[0].DocCodec)
}
