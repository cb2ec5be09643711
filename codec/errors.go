package codec

import "fmt"

func errTruncated(id CodecID, want, got int) error {
	return fmt.Errorf("codec: %s data truncated, wanted %d numbers, got %d", id, want, got)
}

func errInvalidSelector(idx int) error {
	return fmt.Errorf("codec: simple16 invalid selector %d", idx)
}
