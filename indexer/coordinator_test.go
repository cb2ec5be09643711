package indexer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/agustingonzalez/invidx/corpus"
	"github.com/agustingonzalez/invidx/index"
	"github.com/agustingonzalez/invidx/indexer"
	"github.com/agustingonzalez/invidx/tokenizer"
	"github.com/stretchr/testify/require"
)

func writeTextFiles(t *testing.T, dir string, docs map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, body := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

// TestBuildSubindexesPartitionsDisjointDocIDs verifies each worker's
// subindex is a complete, independently loadable index and that the docId
// ranges assigned across workers never collide.
func TestBuildSubindexesPartitionsDisjointDocIDs(t *testing.T) {
	root := t.TempDir()
	corpusDir := filepath.Join(root, "corpus")
	writeTextFiles(t, corpusDir, map[string]string{
		"a.txt": "red fox",
		"b.txt": "blue fox",
		"c.txt": "red dog",
		"d.txt": "green cat",
	})
	tmpRoot := filepath.Join(root, "tmp")

	c := indexer.NewCoordinator(indexer.Config{
		CorpusType:      corpus.Text,
		MaxWorkers:      2,
		ResourcesFactor: 1,
	}, tokenizer.NewDefault())

	dirs, err := c.BuildSubindexes(context.Background(), corpusDir, tmpRoot)
	require.NoError(t, err)
	require.Len(t, dirs, 2)

	seen := map[uint32]bool{}
	for _, dir := range dirs {
		require.True(t, index.Exists(dir))
		idx, err := index.Load(dir, false)
		require.NoError(t, err)
		for id := range idx.Collection() {
			require.False(t, seen[id], "docId %d assigned by more than one worker", id)
			seen[id] = true
		}
		idx.Close()
	}
	require.Len(t, seen, 4)
}

// TestBuildSubindexesReuseTmp confirms a second call with ReuseTmp set
// returns the same subindex directories without re-indexing.
func TestBuildSubindexesReuseTmp(t *testing.T) {
	root := t.TempDir()
	corpusDir := filepath.Join(root, "corpus")
	writeTextFiles(t, corpusDir, map[string]string{"a.txt": "red fox"})
	tmpRoot := filepath.Join(root, "tmp")

	cfg := indexer.Config{CorpusType: corpus.Text, MaxWorkers: 1, ResourcesFactor: 1}
	c := indexer.NewCoordinator(cfg, tokenizer.NewDefault())
	first, err := c.BuildSubindexes(context.Background(), corpusDir, tmpRoot)
	require.NoError(t, err)
	require.Len(t, first, 1)

	cfg.ReuseTmp = true
	c2 := indexer.NewCoordinator(cfg, tokenizer.NewDefault())
	second, err := c2.BuildSubindexes(context.Background(), corpusDir, tmpRoot)
	require.NoError(t, err)
	require.ElementsMatch(t, first, second)
}

func TestBuildSubindexesMissingCorpus(t *testing.T) {
	root := t.TempDir()
	c := indexer.NewCoordinator(indexer.Config{CorpusType: corpus.Text}, tokenizer.NewDefault())
	_, err := c.BuildSubindexes(context.Background(), filepath.Join(root, "nope"), filepath.Join(root, "tmp"))
	require.Error(t, err)
}
