package format

import "fmt"

func errTruncatedChunkInfo(termID, chunkNumber int) error {
	return fmt.Errorf("format: chunkinfo block for term %d truncated at chunk %d", termID, chunkNumber)
}
