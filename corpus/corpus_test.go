package corpus_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agustingonzalez/invidx/corpus"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileCorpusText(t *testing.T) {
	dir := t.TempDir()
	p1 := writeTempFile(t, dir, "d1.txt", "the red fox\n")
	p2 := writeTempFile(t, dir, "d2.txt", "red car\n")

	var docs []uint32
	var lines []string
	fc := corpus.FileCorpus{}
	err := fc.Walk(map[uint32]string{1: p1, 2: p2}, func(docID uint32, docName string) error {
		docs = append(docs, docID)
		return nil
	}, func(docID uint32, line string) error {
		lines = append(lines, line)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2}, docs)
	require.Equal(t, []string{"the red fox", "red car"}, lines)
}

func TestFileCorpusHTMLStripsTags(t *testing.T) {
	dir := t.TempDir()
	p1 := writeTempFile(t, dir, "d1.html", "<p>red <b>fox</b></p>\n")

	var lines []string
	fc := corpus.FileCorpus{StripHTML: true}
	err := fc.Walk(map[uint32]string{1: p1}, func(uint32, string) error { return nil },
		func(_ uint32, line string) error {
			lines = append(lines, line)
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, []string{"red fox"}, lines)
}

func TestTrecCorpusParsesDocBoundaries(t *testing.T) {
	dir := t.TempDir()
	content := "<DOC>\n<DOCNO>10</DOCNO>\nred fox\n</DOC>\n<DOC>\n<DOCNO>11</DOCNO>\nred car\n</DOC>\n"
	p := writeTempFile(t, dir, "feed.trec", content)

	var docs []uint32
	var lines []string
	tc := corpus.TrecCorpus{}
	err := tc.Walk([]string{p}, func(docID uint32, docName string) error {
		docs = append(docs, docID)
		return nil
	}, func(docID uint32, line string) error {
		lines = append(lines, line)
		return nil
	}, func() error { return nil })
	require.NoError(t, err)
	require.Equal(t, []uint32{10, 11}, docs)
	require.Equal(t, []string{"red fox", "red car"}, lines)
}

func TestTrecCorpusFlushesAtThreshold(t *testing.T) {
	dir := t.TempDir()
	content := "<DOC>\n<DOCNO>1</DOCNO>\na\n</DOC>\n<DOC>\n<DOCNO>2</DOCNO>\nb\n</DOC>\n"
	p := writeTempFile(t, dir, "feed.trec", content)

	flushes := 0
	tc := corpus.TrecCorpus{MaxDocsInMemory: 1}
	err := tc.Walk([]string{p}, func(uint32, string) error { return nil },
		func(uint32, string) error { return nil },
		func() error {
			flushes++
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, 2, flushes)
}

func TestJSONCorpusWalksSegments(t *testing.T) {
	data := []byte(`{"segments":[[{"term":"fox","doc_id":1,"term_frequency":2}],[{"term":"red","doc_id":1,"term_frequency":1}]]}`)
	var terms []string
	jc := corpus.JSONCorpus{}
	err := jc.Walk(data, func(term string, docID uint32, freq uint32) error {
		terms = append(terms, term)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"fox", "red"}, terms)
}
