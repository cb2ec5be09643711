package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// gendataVocabulary seeds the synthetic corpus's token pool; when
// --vocab-size exceeds its length it is extended with numbered filler
// terms, the way weaviate/cmd/datagen/main.go's fixed vocabulary was
// never meant to describe a realistic language model, only to exercise
// the pipeline end to end.
var gendataVocabulary = []string{
	"jedi", "force", "skywalker", "sith", "lightsaber", "empire", "rebellion", "droid",
	"blaster", "starship", "yoda", "clone", "trooper", "battle", "padawan", "hologram",
	"bounty", "hunter", "coruscant", "tatooine", "deathstar", "vader", "han", "chewbacca",
	"leia", "luke", "anakin", "grievous", "obiwan", "naboo", "geonosis",
	"kamino", "mustafar", "dagobah", "endor", "hoth", "alderaan", "kashyyyk", "lando",
	"carbonite", "lightspeed", "hyperdrive", "holocron", "starfighter", "speeder", "cantina",
	"protocol", "gungan", "wookiee",
}

const (
	gendataMinWordsPerDoc = 20
	gendataMaxWordsPerDoc = 200
)

func newGendataCmd() *cobra.Command {
	var (
		out       string
		docs      int
		vocabSize int
	)

	cmd := &cobra.Command{
		Use:   "gendata",
		Short: "Generate a synthetic text corpus for smoke-testing build/query",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("gendata: mkdir %s: %w", out, err)
			}
			vocab := gendataVocab(vocabSize)
			for i := 0; i < docs; i++ {
				body := gendataDocument(vocab)
				path := filepath.Join(out, fmt.Sprintf("doc-%06d.txt", i+1))
				if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
					return fmt.Errorf("gendata: write %s: %w", path, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d documents to %s\n", docs, out)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&out, "out", "", "output directory (required)")
	flags.IntVar(&docs, "docs", 1000, "number of documents to generate")
	flags.IntVar(&vocabSize, "vocab-size", len(gendataVocabulary), "distinct terms available to documents")
	cmd.MarkFlagRequired("out")

	return cmd
}

func gendataVocab(size int) []string {
	if size <= 0 || size >= len(gendataVocabulary) {
		if size <= len(gendataVocabulary) {
			return gendataVocabulary
		}
		vocab := append([]string{}, gendataVocabulary...)
		for i := len(vocab); i < size; i++ {
			vocab = append(vocab, "term"+strconv.Itoa(i))
		}
		return vocab
	}
	return gendataVocabulary[:size]
}

func gendataDocument(vocab []string) string {
	n := gendataMinWordsPerDoc + rand.Intn(gendataMaxWordsPerDoc-gendataMinWordsPerDoc+1)
	words := make([]string, n)
	for i := range words {
		words[i] = vocab[rand.Intn(len(vocab))]
	}
	return strings.Join(words, " ") + "\n"
}
