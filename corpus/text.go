package corpus

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

var htmlTagRemover = regexp.MustCompile(`<[^>]+>`)

// FileCorpus walks a coordinator-assigned docId->path map, one document
// per file, emitting its basename as the document name. When StripHTML is
// set, each line has HTML tags removed before LineHandler sees it —
// this is the difference between corpus.Text and corpus.HTML.
type FileCorpus struct {
	StripHTML bool
}

// Walk processes files in ascending docId order so a worker's progress
// log reads sequentially; order has no effect on the resulting index.
func (c FileCorpus) Walk(files map[uint32]string, onDoc DocHandler, onLine LineHandler) error {
	ids := sortedKeys(files)
	for _, docID := range ids {
		path := files[docID]
		if err := onDoc(docID, filepath.Base(path)); err != nil {
			return err
		}
		if err := c.walkFile(docID, path, onLine); err != nil {
			return err
		}
	}
	return nil
}

func (c FileCorpus) walkFile(docID uint32, path string, onLine LineHandler) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("corpus: open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if c.StripHTML {
			line = htmlTagRemover.ReplaceAllString(line, "")
		}
		if err := onLine(docID, line); err != nil {
			return err
		}
	}
	return sc.Err()
}

func sortedKeys(m map[uint32]string) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
