package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agustingonzalez/invidx/browser"
	"github.com/agustingonzalez/invidx/index"
)

func newQueryCmd() *cobra.Command {
	var indexDir string
	var chunksInfoInMemory bool

	cmd := &cobra.Command{
		Use:   "query <term> [term...]",
		Short: "Run a Boolean AND query against a built index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := index.Load(indexDir, chunksInfoInMemory)
			if err != nil {
				return err
			}
			defer idx.Close()

			b := browser.New(idx)
			hits, err := b.Browse(strings.Join(args, " "))
			if err != nil {
				return err
			}

			names := idx.Collection()
			for _, docID := range hits {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", docID, names[docID])
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d hits in %s\n", len(hits), b.LastDuration())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&indexDir, "index", "", "index directory (required)")
	flags.BoolVar(&chunksInfoInMemory, "chunks-info-in-memory", false, "keep every term's chunk metadata resident for faster repeated queries")
	cmd.MarkFlagRequired("index")

	return cmd
}
