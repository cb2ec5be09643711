package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/agustingonzalez/invidx/corpus"
	"github.com/agustingonzalez/invidx/index"
	"github.com/agustingonzalez/invidx/indexer"
	"github.com/agustingonzalez/invidx/invidxerr"
	"github.com/agustingonzalez/invidx/merge"
	"github.com/agustingonzalez/invidx/tokenizer"
)

func newBuildCmd() *cobra.Command {
	var (
		in, out               string
		corpusType            string
		docEncode, freqEncode string
		chunkSize             int
		maxWorkers            int
		resourcesFactor       float64
		maxTrecDocsInMemory   int
		reuseTmp, overwrite   bool
		writeCodecStats       bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Index a text/html/trec corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseCorpusKind(corpusType)
			if err != nil {
				return err
			}
			docCodecs, err := parseCodecList(docEncode)
			if err != nil {
				return fmt.Errorf("--doc-encode: %w", err)
			}
			freqCodecs, err := parseCodecList(freqEncode)
			if err != nil {
				return fmt.Errorf("--freq-encode: %w", err)
			}

			if index.Exists(out) && !overwrite {
				fmt.Fprintf(cmd.OutOrStdout(), "%v: %s\n", invidxerr.ErrAlreadyIndexed, out)
				return nil
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}

			coordinator := indexer.NewCoordinator(indexer.Config{
				CorpusType:          kind,
				MaxWorkers:          maxWorkers,
				ResourcesFactor:     resourcesFactor,
				MaxTrecDocsInMemory: maxTrecDocsInMemory,
				ReuseTmp:            reuseTmp,
			}, tokenizer.NewDefault())

			tmpRoot := out + ".tmp"
			subindexDirs, err := coordinator.BuildSubindexes(cmd.Context(), in, tmpRoot)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d subindexes, merging...\n", len(subindexDirs))

			stats, err := merge.Merge(subindexDirs, out, merge.Config{
				ChunkSize:       chunkSize,
				DocCandidates:   docCodecs,
				FreqCandidates:  freqCodecs,
				WriteCodecStats: writeCodecStats,
			})
			if err != nil {
				return err
			}
			if stats != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "codec choices written to codecstats.txt")
			}

			if !reuseTmp {
				os.RemoveAll(tmpRoot)
			}

			size := dirSize(out)
			fmt.Fprintf(cmd.OutOrStdout(), "index built at %s (%s)\n", out, humanize.IBytes(uint64(size)))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in, "in", "", "input corpus directory (required)")
	flags.StringVar(&out, "out", "", "output index directory (required)")
	flags.StringVar(&corpusType, "corpus", "text", "corpus framing: text|html|trec")
	flags.StringVar(&docEncode, "doc-encode", "variablebyte", "docId codec(s), comma-separated for multi-encode")
	flags.StringVar(&freqEncode, "freq-encode", "variablebyte", "frequency codec(s), comma-separated for multi-encode")
	flags.IntVar(&chunkSize, "chunk-size", 0, "postings per chunk (0 = single chunk per term)")
	flags.IntVar(&maxWorkers, "max-workers", indexer.DefaultMaxWorkers, "maximum SPIMI worker count")
	flags.Float64Var(&resourcesFactor, "resources-factor", indexer.DefaultResourcesFactor, "fraction of workers to run concurrently")
	flags.IntVar(&maxTrecDocsInMemory, "max-trec-docs-in-memory", corpus.DefaultMaxDocsInMemory, "TREC documents held in memory before a subindex flush")
	flags.BoolVar(&reuseTmp, "reuse-tmp", false, "reuse existing subindexes under <out>.tmp instead of re-indexing")
	flags.BoolVar(&overwrite, "overwrite", false, "overwrite an existing index at --out")
	flags.BoolVar(&writeCodecStats, "write-codec-stats", false, "dump per-codec chunk counts to codecstats.txt")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")

	return cmd
}

func parseCorpusKind(s string) (corpus.Kind, error) {
	switch s {
	case "text":
		return corpus.Text, nil
	case "html":
		return corpus.HTML, nil
	case "trec":
		return corpus.Trec, nil
	case "json":
		return corpus.JSON, nil
	default:
		return 0, fmt.Errorf("--corpus: unknown kind %q (want text|html|trec|json)", s)
	}
}

func dirSize(dir string) int64 {
	var total int64
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total
}
