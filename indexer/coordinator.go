package indexer

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/agustingonzalez/invidx/corpus"
	"github.com/agustingonzalez/invidx/index"
	"github.com/agustingonzalez/invidx/invidxerr"
	"github.com/agustingonzalez/invidx/tokenizer"
)

// Config holds the indexer-facing options of spec.md §6: corpus framing,
// worker-pool sizing, and the TREC in-memory document cap. Codec choice
// and final chunk size belong to package merge, not here — children
// always write a fixed Variable-Byte mono-encode.
type Config struct {
	CorpusType          corpus.Kind
	MaxWorkers          int
	ResourcesFactor     float64
	MaxTrecDocsInMemory int
	ReuseTmp            bool
}

// DefaultMaxWorkers matches MAX_CHILD_INDEXERS in the original source.
const DefaultMaxWorkers = 4

// DefaultResourcesFactor matches RESOURCES_FACTOR in the original source.
const DefaultResourcesFactor = 0.5

func (c Config) maxWorkers() int {
	if c.MaxWorkers > 0 {
		return c.MaxWorkers
	}
	return DefaultMaxWorkers
}

func (c Config) resourcesFactor() float64 {
	if c.ResourcesFactor > 0 {
		return c.ResourcesFactor
	}
	return DefaultResourcesFactor
}

// Coordinator partitions a corpus across a pool of workers with no shared
// mutable state between them (spec.md §5), then waits for every worker to
// complete before a caller may merge the resulting subindexes.
type Coordinator struct {
	cfg        Config
	normalizer tokenizer.Normalizer
}

// NewCoordinator returns a Coordinator that normalises tokens with
// normalizer (the CLI wires up tokenizer.NewDefault() unless the caller
// supplies their own).
func NewCoordinator(cfg Config, normalizer tokenizer.Normalizer) *Coordinator {
	return &Coordinator{cfg: cfg, normalizer: normalizer}
}

// BuildSubindexes partitions the files under dirin across a worker pool
// and returns the subindex directories produced under tmpRoot, one (or,
// for a TREC corpus that crosses the in-memory document cap, several) per
// worker. When cfg.ReuseTmp is set and tmpRoot already contains complete
// subindex directories, indexing is skipped entirely and those directories
// are returned as-is (spec.md §5's "reuse_tmp ... go straight to merge").
func (c *Coordinator) BuildSubindexes(ctx context.Context, dirin, tmpRoot string) ([]string, error) {
	if _, err := os.Stat(dirin); err != nil {
		return nil, fmt.Errorf("%w: %s", invidxerr.ErrCorpusNotFound, dirin)
	}

	if c.cfg.ReuseTmp {
		if dirs, ok := c.existingSubindexes(tmpRoot); ok {
			log.Infow("reusing existing subindexes", "tmpRoot", tmpRoot, "count", len(dirs))
			return dirs, nil
		}
	}

	files, err := walkFiles(dirin)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files under %s", invidxerr.ErrCorpusNotFound, dirin)
	}

	if err := os.MkdirAll(tmpRoot, 0o755); err != nil {
		return nil, fmt.Errorf("indexer: mkdir %s: %w", tmpRoot, err)
	}

	assignments := partition(files, c.cfg.maxWorkers())
	poolSize := int(math.Round(float64(len(assignments)) * c.cfg.resourcesFactor()))
	if poolSize < 1 {
		poolSize = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(poolSize)

	results := make([][]string, len(assignments))
	for i, a := range assignments {
		i, a := i, a
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			w := &worker{
				assignment:  a,
				kind:        c.cfg.CorpusType,
				normalizer:  c.normalizer,
				maxTrecDocs: c.cfg.MaxTrecDocsInMemory,
				tmpRoot:     tmpRoot,
			}
			dirs, err := w.run()
			if err != nil {
				return err
			}
			results[i] = dirs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []string
	for _, dirs := range results {
		all = append(all, dirs...)
	}
	return all, nil
}

// existingSubindexes globs tmpRoot for already-materialised subindex
// directories, returning ok=false if tmpRoot doesn't exist or is empty.
func (c *Coordinator) existingSubindexes(tmpRoot string) ([]string, bool) {
	entries, err := os.ReadDir(tmpRoot)
	if err != nil || len(entries) == 0 {
		return nil, false
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(tmpRoot, e.Name())
		if index.Exists(dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs, len(dirs) > 0
}

// walkFiles recursively collects every regular file under dir, sorted for
// deterministic docId assignment.
func walkFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("indexer: walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// partition splits files into contiguous groups of
// ceil(len(files)/min(len(files), maxWorkers)) files each — at most
// min(len(files), maxWorkers) groups, fewer when the division leaves the
// last workers nothing (5 files, 4 workers: groups of 2, 2, 1) — and
// pre-assigns a globally unique, 1-based docId to each file in
// file order — the coordination-free mechanism spec.md §3 relies on to
// keep docId ranges disjoint across workers for Text/HTML corpora. A TREC
// worker still receives its group's file paths, but derives docIds from
// the feed itself rather than from this assignment (spec.md §4.E).
func partition(files []string, maxWorkers int) []assignment {
	workerCount := len(files)
	if maxWorkers < workerCount {
		workerCount = maxWorkers
	}
	if workerCount < 1 {
		workerCount = 1
	}
	chunkSize := int(math.Ceil(float64(len(files)) / float64(workerCount)))

	var assignments []assignment
	docID := uint32(1)
	workerID := 1
	for i := 0; i < len(files); i += chunkSize {
		end := i + chunkSize
		if end > len(files) {
			end = len(files)
		}
		group := files[i:end]

		a := assignment{workerID: workerID, paths: group}
		a.files = make(map[uint32]string, len(group))
		for _, f := range group {
			a.files[docID] = f
			docID++
		}
		assignments = append(assignments, a)
		workerID++
	}
	return assignments
}
