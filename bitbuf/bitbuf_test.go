package bitbuf_test

import (
	"testing"

	"github.com/agustingonzalez/invidx/bitbuf"
	"github.com/stretchr/testify/require"
)

func TestWriteBitsRoundTrip(t *testing.T) {
	buf := bitbuf.New()
	buf.WriteBits(0b101, 3)
	buf.WriteBits(0b1, 1)
	buf.WriteBits(0b11110000, 8)
	pad := buf.CloseByte()

	r := bitbuf.NewReader(buf.Bytes())
	require.Equal(t, uint64(0b101), r.ReadBits(3))
	require.Equal(t, uint64(0b1), r.ReadBits(1))
	require.Equal(t, uint64(0b11110000), r.ReadBits(8))
	require.Equal(t, 4, pad)
	require.Equal(t, 2, buf.ByteLen())
}

func TestExtendAcrossByteBoundary(t *testing.T) {
	buf := bitbuf.New()
	buf.WriteBits(0b1, 1) // leaves buffer at bit offset 1, mid-byte

	// Simulate a codec that produced 5 bits of payload packed into a
	// single byte with 3 bits of trailing padding.
	payload := []byte{0b10110000}
	buf.Extend(payload, 3)

	buf.CloseByte()
	r := bitbuf.NewReader(buf.Bytes())
	require.Equal(t, uint64(0b1), r.ReadBits(1))
	require.Equal(t, uint64(0b10110), r.ReadBits(5))
}

func TestPaddingZeroWhenAligned(t *testing.T) {
	buf := bitbuf.New()
	buf.WriteByteAligned([]byte{1, 2, 3})
	require.Equal(t, 0, buf.Padding())
	require.Equal(t, 0, buf.CloseByte())
}

func TestResetClearsState(t *testing.T) {
	buf := bitbuf.New()
	buf.WriteBits(0xFF, 8)
	buf.Reset()
	require.Equal(t, 0, buf.Len())
	require.Equal(t, 0, buf.ByteLen())
}
