package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agustingonzalez/invidx/corpus"
	"github.com/agustingonzalez/invidx/index"
	"github.com/agustingonzalez/invidx/tokenizer"
	"github.com/stretchr/testify/require"
)

func TestWorkerFlushesJSONCorpusSummingDuplicateDocFreqs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "postings.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"segments":[[{"term":"fox","doc_id":1,"term_frequency":2}],`+
			`[{"term":"fox","doc_id":1,"term_frequency":3},{"term":"red","doc_id":2,"term_frequency":1}]]}`,
	), 0o644))

	w := &worker{
		assignment: assignment{workerID: 1, paths: []string{path}},
		kind:       corpus.JSON,
		normalizer: tokenizer.NewDefault(),
		tmpRoot:    t.TempDir(),
	}
	dirs, err := w.run()
	require.NoError(t, err)
	require.Len(t, dirs, 1)

	idx, err := index.Load(dirs[0], false)
	require.NoError(t, err)
	defer idx.Close()

	fox, err := idx.PostingFor("fox")
	require.NoError(t, err)
	require.Equal(t, uint32(5), fox[1])

	red, err := idx.PostingFor("red")
	require.NoError(t, err)
	require.Equal(t, uint32(1), red[2])
}

func TestWorkerFlushesTextCorpus(t *testing.T) {
	root := t.TempDir()
	p1 := filepath.Join(root, "d1.txt")
	require.NoError(t, os.WriteFile(p1, []byte("red fox"), 0o644))

	w := &worker{
		assignment: assignment{workerID: 1, files: map[uint32]string{1: p1}},
		kind:       corpus.Text,
		normalizer: tokenizer.NewDefault(),
		tmpRoot:    t.TempDir(),
	}
	dirs, err := w.run()
	require.NoError(t, err)
	require.Len(t, dirs, 1)

	idx, err := index.Load(dirs[0], false)
	require.NoError(t, err)
	defer idx.Close()
	require.Equal(t, "d1.txt", idx.Collection()[1])

	red, err := idx.PostingFor("red")
	require.NoError(t, err)
	require.Equal(t, uint32(1), red[1])
}
