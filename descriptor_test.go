package gcf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcfkit/gcf/internal/wire"
)

func encodeTestDescriptor(t *testing.T, d descriptor) []byte {
	t.Helper()
	w := wire.NewWriter(d.encodedSize())
	encodeDescriptor(w, d)
	require.Len(t, w.Buffer(), d.encodedSize())
	return w.Buffer()
}

func TestDescriptorBlobRoundTrip(t *testing.T) {
	t.Parallel()

	in := descriptor{
		typeID:     TypeBlob,
		flags:      FlagCompressed,
		scheme:     SchemeZlib,
		dataOffset: 128,
		dataSize:   42,
		typeDesc:   BlobDescriptor{UncompressedSize: 100},
	}
	buf := encodeTestDescriptor(t, in)
	assert.Len(t, buf, commonDescriptorSize+blobExtensionSize)

	out, err := decodeDescriptor(wire.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDescriptorTextureRoundTrip(t *testing.T) {
	t.Parallel()

	in := descriptor{
		typeID:     TypeTexture,
		flags:      FlagCompressed | FlagHasMipmaps,
		format:     37, // caller-defined pixel format tag
		scheme:     SchemeZstd,
		dataOffset: 4096,
		dataSize:   900,
		typeDesc: TextureDescriptor{
			Width:         256,
			Height:        128,
			Depth:         1,
			LayerCount:    6,
			MipLevelCount: 9,
			Flags:         Texture2D,
			TextureGroup:  3,
		},
	}
	buf := encodeTestDescriptor(t, in)
	assert.Len(t, buf, commonDescriptorSize+textureExtensionSize)

	out, err := decodeDescriptor(wire.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDescriptorUnknownType(t *testing.T) {
	t.Parallel()

	buf := encodeTestDescriptor(t, descriptor{
		typeID:   TypeBlob,
		scheme:   SchemeNone,
		typeDesc: BlobDescriptor{},
	})
	binary.LittleEndian.PutUint32(buf[0:], 0xFFFF)

	_, err := decodeDescriptor(wire.NewReader(buf))
	require.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestDescriptorUnknownScheme(t *testing.T) {
	t.Parallel()

	buf := encodeTestDescriptor(t, descriptor{
		typeID:   TypeBlob,
		scheme:   SchemeNone,
		typeDesc: BlobDescriptor{},
	})
	binary.LittleEndian.PutUint16(buf[12:], 0x7F7F)

	_, err := decodeDescriptor(wire.NewReader(buf))
	require.ErrorIs(t, err, ErrUnknownTag)
}

func TestDescriptorZeroTextureDimensions(t *testing.T) {
	t.Parallel()

	buf := encodeTestDescriptor(t, descriptor{
		typeID: TypeTexture,
		scheme: SchemeNone,
		typeDesc: TextureDescriptor{
			Width: 16, Height: 16, Depth: 1,
			LayerCount: 1, MipLevelCount: 1,
		},
	})
	// Zero out the height field (extension starts after the common part).
	binary.LittleEndian.PutUint16(buf[commonDescriptorSize+2:], 0)

	_, err := decodeDescriptor(wire.NewReader(buf))
	require.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestDescriptorShortExtension(t *testing.T) {
	t.Parallel()

	buf := encodeTestDescriptor(t, descriptor{
		typeID:   TypeBlob,
		scheme:   SchemeNone,
		typeDesc: BlobDescriptor{UncompressedSize: 9},
	})
	// Declare a 4-byte extension: too small for the blob shape. Truncate
	// the buffer to match so the record itself is well-formed.
	binary.LittleEndian.PutUint16(buf[14:], 4)

	_, err := decodeDescriptor(wire.NewReader(buf[:commonDescriptorSize+4]))
	require.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestDescriptorOversizedExtensionSkipped(t *testing.T) {
	t.Parallel()

	// A later minor revision may append fields to an extension. The reader
	// must parse the known prefix and skip the rest, leaving the cursor on
	// the next record.
	first := encodeTestDescriptor(t, descriptor{
		typeID:   TypeBlob,
		scheme:   SchemeNone,
		dataSize: 5,
		typeDesc: BlobDescriptor{UncompressedSize: 5},
	})
	binary.LittleEndian.PutUint16(first[14:], blobExtensionSize+4)
	first = append(first, 0xDE, 0xAD, 0xBE, 0xEF)

	second := encodeTestDescriptor(t, descriptor{
		typeID:   TypeBlob,
		scheme:   SchemeNone,
		dataSize: 7,
		typeDesc: BlobDescriptor{UncompressedSize: 7},
	})

	r := wire.NewReader(append(first, second...))
	d1, err := decodeDescriptor(r)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), d1.dataSize)

	d2, err := decodeDescriptor(r)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), d2.dataSize)
	assert.Equal(t, 0, r.Remaining())
}
