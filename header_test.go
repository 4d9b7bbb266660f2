package gcf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcfkit/gcf/internal/wire"
)

// encodeTestHeader serializes h for decode tests.
func encodeTestHeader(t *testing.T, h header) []byte {
	t.Helper()
	w := wire.NewWriter(headerSize)
	encodeHeader(w, h)
	require.Len(t, w.Buffer(), headerSize)
	return w.Buffer()
}

func TestHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	buf := encodeTestHeader(t, header{
		flags:           FlagUnpadded,
		resourceCount:   7,
		directoryOffset: headerSize,
		directorySize:   280,
	})

	h, err := decodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, VersionMajor, h.versionMajor)
	assert.Equal(t, VersionMinor, h.versionMinor)
	assert.Equal(t, FlagUnpadded, h.flags)
	assert.Equal(t, uint32(7), h.resourceCount)
	assert.Equal(t, uint64(headerSize), h.directoryOffset)
	assert.Equal(t, uint64(280), h.directorySize)
}

func TestHeaderInvalidMagic(t *testing.T) {
	t.Parallel()

	buf := encodeTestHeader(t, header{directoryOffset: headerSize})
	buf[0] ^= 0xFF

	_, err := decodeHeader(buf)
	require.ErrorIs(t, err, ErrInvalidMagic)
}

func TestHeaderVersionGate(t *testing.T) {
	t.Parallel()

	buf := encodeTestHeader(t, header{directoryOffset: headerSize})

	// Higher major is rejected.
	binary.LittleEndian.PutUint16(buf[4:], VersionMajor+1)
	_, err := decodeHeader(buf)
	require.ErrorIs(t, err, ErrUnsupportedVersion)

	// Higher minor within the same major is accepted.
	binary.LittleEndian.PutUint16(buf[4:], VersionMajor)
	binary.LittleEndian.PutUint16(buf[6:], VersionMinor+5)
	h, err := decodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, VersionMinor+5, h.versionMinor)
}

func TestHeaderTruncated(t *testing.T) {
	t.Parallel()

	buf := encodeTestHeader(t, header{directoryOffset: headerSize})
	_, err := decodeHeader(buf[:headerSize-1])
	require.ErrorIs(t, err, ErrTruncatedData)

	_, err = decodeHeader(nil)
	require.ErrorIs(t, err, ErrTruncatedData)
}

func TestHeaderDirectoryOffsetInsideHeader(t *testing.T) {
	t.Parallel()

	buf := encodeTestHeader(t, header{directoryOffset: headerSize})
	binary.LittleEndian.PutUint64(buf[16:], headerSize-1)

	_, err := decodeHeader(buf)
	require.ErrorIs(t, err, ErrOutOfBounds)
}
