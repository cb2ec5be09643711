package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/agustingonzalez/invidx/index"
)

func newStatsCmd() *cobra.Command {
	var indexDir string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report term/posting/file-size statistics for a built index",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := index.Load(indexDir, false)
			if err != nil {
				return err
			}
			defer idx.Close()

			terms := idx.Terms()
			var totalPostings int64
			for _, t := range terms {
				n, err := idx.PostingCount(t)
				if err != nil {
					return err
				}
				totalPostings += int64(n)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "documents:     %d\n", len(idx.Collection()))
			fmt.Fprintf(out, "terms:         %d\n", len(terms))
			fmt.Fprintf(out, "total postings: %d\n", totalPostings)
			fmt.Fprintf(out, "chunk size:    %d\n", idx.ChunkSize())
			for _, name := range []string{"collection.txt", "vocabulary.txt", "chunksinfo.bin", "postings.bin"} {
				if info, err := os.Stat(filepath.Join(indexDir, name)); err == nil {
					fmt.Fprintf(out, "%-14s %s\n", name+":", humanize.IBytes(uint64(info.Size())))
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&indexDir, "index", "", "index directory (required)")
	cmd.MarkFlagRequired("index")

	return cmd
}
