package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommandWiresSubcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"build", "query", "stats", "gendata"} {
		require.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestParseCodecList(t *testing.T) {
	ids, err := parseCodecList("gamma,Simple16, 7")
	require.NoError(t, err)
	require.Len(t, ids, 3)

	_, err = parseCodecList("nonsense")
	require.Error(t, err)
}

func TestParseCorpusKind(t *testing.T) {
	_, err := parseCorpusKind("trec")
	require.NoError(t, err)
	_, err = parseCorpusKind("xml")
	require.Error(t, err)
}
