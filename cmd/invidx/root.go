package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "invidx",
		Short: "Chunked, codec-compressed inverted index engine",
		Long: `invidx builds and queries an inverted index whose posting lists are
split into fixed-size chunks, each independently compressed with a
pluggable integer codec (Variable-Byte, Unary, Gamma, Bit-Packing,
Simple-16, PForDelta, Elias-Fano or Byte-Blocks).

  invidx build    Index a text/html/trec corpus
  invidx query    Run a Boolean AND query against a built index
  invidx stats    Report term/posting/file-size statistics for a built index
  invidx gendata  Generate a synthetic text corpus`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newBuildCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newGendataCmd())
	return root
}
