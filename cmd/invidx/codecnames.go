package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agustingonzalez/invidx/codec"
)

var codecNames = map[string]codec.CodecID{
	"variablebyte": codec.VariableByte,
	"vb":           codec.VariableByte,
	"unary":        codec.Unary,
	"gamma":        codec.Gamma,
	"bitpacking":   codec.BitPacking,
	"simple16":     codec.Simple16,
	"pfordelta":    codec.PForDelta,
	"pfor":         codec.PForDelta,
	"eliasfano":    codec.EliasFano,
	"ef":           codec.EliasFano,
	"byteblocks":   codec.ByteBlocks,
}

// parseCodecList parses a comma-separated list of codec names or numeric
// ids (e.g. "gamma,simple16" or "3,5") into CodecIDs. A single element is
// a mono-encode; more than one requests multi-encode for that field.
func parseCodecList(s string) ([]codec.CodecID, error) {
	var ids []codec.CodecID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, ok := codecNames[strings.ToLower(part)]; ok {
			ids = append(ids, id)
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			ids = append(ids, codec.CodecID(n))
			continue
		}
		return nil, fmt.Errorf("unknown codec %q", part)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("empty codec list")
	}
	return ids, nil
}
