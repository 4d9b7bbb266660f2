package gcf

import (
	"fmt"

	"github.com/gcfkit/gcf/internal/wire"
)

// TypeDescriptor is the type-specific portion of a resource descriptor.
//
// The set of implementations is closed and keyed by ResourceType:
// BlobDescriptor for TypeBlob and TextureDescriptor for TypeTexture.
// The codec dispatches on the wire tag, never on runtime type inspection
// of payload content.
type TypeDescriptor interface {
	// Type returns the resource type this descriptor shape belongs to.
	Type() ResourceType

	extensionSize() int
	encodeExtension(w *wire.Writer)
}

// BlobDescriptor carries metadata for an opaque byte payload.
type BlobDescriptor struct {
	// UncompressedSize is the payload size before supercompression framing.
	UncompressedSize uint64
}

// Type implements TypeDescriptor.
func (BlobDescriptor) Type() ResourceType { return TypeBlob }

func (BlobDescriptor) extensionSize() int { return blobExtensionSize }

func (d BlobDescriptor) encodeExtension(w *wire.Writer) {
	w.Uint64(d.UncompressedSize)
}

// TextureDescriptor carries metadata for an image payload.
type TextureDescriptor struct {
	Width         uint16
	Height        uint16
	Depth         uint16
	LayerCount    uint8
	MipLevelCount uint8
	Flags         TextureFlags
	TextureGroup  uint32
}

// Type implements TypeDescriptor.
func (TextureDescriptor) Type() ResourceType { return TypeTexture }

func (TextureDescriptor) extensionSize() int { return textureExtensionSize }

func (d TextureDescriptor) encodeExtension(w *wire.Writer) {
	w.Uint16(d.Width)
	w.Uint16(d.Height)
	w.Uint16(d.Depth)
	w.Bytes([]byte{d.LayerCount, d.MipLevelCount})
	w.Uint16(uint16(d.Flags))
	w.Uint32(d.TextureGroup)
	w.Uint16(0) // reserved
}

// descriptor is one directory record: the fixed common part plus the
// type-specific extension.
type descriptor struct {
	typeID     ResourceType
	flags      ResourceFlags
	format     uint32
	scheme     SupercompressionScheme
	dataOffset uint64
	dataSize   uint64
	typeDesc   TypeDescriptor
}

// decodeDescriptor reads one record at the reader's cursor and advances it
// past the record's extension, even when the extension is longer than this
// implementation's shape for the type (fields added by later minor
// revisions are skipped).
func decodeDescriptor(r *wire.Reader) (descriptor, error) {
	start := r.Offset()
	d := descriptor{
		typeID: ResourceType(r.Uint32()),
		flags:  ResourceFlags(r.Uint32()),
		format: r.Uint32(),
		scheme: SupercompressionScheme(r.Uint16()),
	}
	extSize := int(r.Uint16())
	d.dataOffset = r.Uint64()
	d.dataSize = r.Uint64()
	ext := r.Bytes(extSize)
	if err := r.Err(); err != nil {
		return descriptor{}, err
	}

	if !d.typeID.valid() {
		return descriptor{}, fmt.Errorf("%w: unrecognized resource type %d at offset %d",
			ErrInvalidDescriptor, uint32(d.typeID), start)
	}
	if !d.scheme.valid() {
		return descriptor{}, fmt.Errorf("%w: supercompression scheme %d at offset %d",
			ErrUnknownTag, uint16(d.scheme), start)
	}

	td, err := decodeExtension(d.typeID, ext)
	if err != nil {
		return descriptor{}, fmt.Errorf("%w at offset %d", err, start)
	}
	d.typeDesc = td
	return d, nil
}

// decodeExtension parses the type-specific fields for typeID from ext.
func decodeExtension(typeID ResourceType, ext []byte) (TypeDescriptor, error) {
	r := wire.NewReader(ext)
	switch typeID {
	case TypeBlob:
		d := BlobDescriptor{UncompressedSize: r.Uint64()}
		if r.Err() != nil {
			return nil, fmt.Errorf("%w: blob extension needs %d bytes, have %d",
				ErrInvalidDescriptor, blobExtensionSize, len(ext))
		}
		return d, nil
	case TypeTexture:
		d := TextureDescriptor{
			Width:  r.Uint16(),
			Height: r.Uint16(),
			Depth:  r.Uint16(),
		}
		counts := r.Bytes(2)
		if r.Err() == nil {
			d.LayerCount = counts[0]
			d.MipLevelCount = counts[1]
		}
		d.Flags = TextureFlags(r.Uint16())
		d.TextureGroup = r.Uint32()
		r.Skip(2) // reserved
		if r.Err() != nil {
			return nil, fmt.Errorf("%w: texture extension needs %d bytes, have %d",
				ErrInvalidDescriptor, textureExtensionSize, len(ext))
		}
		if d.Width == 0 || d.Height == 0 || d.Depth == 0 {
			return nil, fmt.Errorf("%w: texture dimensions %dx%dx%d must be non-zero",
				ErrInvalidDescriptor, d.Width, d.Height, d.Depth)
		}
		if d.LayerCount == 0 || d.MipLevelCount == 0 {
			return nil, fmt.Errorf("%w: texture layer count %d and mip count %d must be non-zero",
				ErrInvalidDescriptor, d.LayerCount, d.MipLevelCount)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: unrecognized resource type %d", ErrInvalidDescriptor, uint32(typeID))
	}
}

// encodeDescriptor writes one record in container order.
func encodeDescriptor(w *wire.Writer, d descriptor) {
	w.Uint32(uint32(d.typeID))
	w.Uint32(uint32(d.flags))
	w.Uint32(d.format)
	w.Uint16(uint16(d.scheme))
	w.Uint16(uint16(d.typeDesc.extensionSize())) //nolint:gosec // extension sizes are small constants
	w.Uint64(d.dataOffset)
	w.Uint64(d.dataSize)
	d.typeDesc.encodeExtension(w)
}

// encodedSize returns the record's full on-wire size.
func (d descriptor) encodedSize() int {
	return commonDescriptorSize + d.typeDesc.extensionSize()
}
