// Command invidx builds and queries chunked, codec-compressed inverted
// indexes: invidx build indexes a corpus, invidx query runs a Boolean AND
// lookup, invidx stats reports on a finished index, and invidx gendata
// emits a synthetic corpus for smoke-testing the pipeline end to end.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
