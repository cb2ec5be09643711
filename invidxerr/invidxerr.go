// Package invidxerr defines the sentinel errors callers can match against
// with errors.Is, corresponding to the error kinds recognised by the core:
// CorpusNotFound, AlreadyIndexed, CodecMismatch and UsageError. IoFailure
// has no sentinel of its own — I/O errors propagate wrapped as-is via
// fmt.Errorf("...: %w", err) from whichever os/bufio call produced them.
package invidxerr

import "errors"

var (
	// ErrCorpusNotFound is returned when the input corpus directory does
	// not exist.
	ErrCorpusNotFound = errors.New("invidx: corpus not found")

	// ErrAlreadyIndexed is a recoverable, non-fatal status: the
	// destination index already exists and overwrite was not requested.
	ErrAlreadyIndexed = errors.New("invidx: already indexed")

	// ErrCodecMismatch is returned when a chunk's declared size disagrees
	// with what its codec actually decodes; the index is considered
	// corrupt for the current query.
	ErrCodecMismatch = errors.New("invidx: codec mismatch")

	// ErrUsage marks a programmer error: opening a second block before
	// closing the first, calling multiencode_write with fewer than two
	// candidates, or writing outside an open block.
	ErrUsage = errors.New("invidx: usage error")
)
