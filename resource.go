package gcf

import (
	"fmt"

	"github.com/opencontainers/go-digest"
)

// ResourceID identifies a resource within one Container.
//
// IDs are in-memory handles: the wire format addresses resources by
// directory position, so IDs are assigned sequentially by the container
// (by Add, or in directory order on load) and are not persisted.
type ResourceID uint32

// Resource is one packaged asset.
//
// The payload is held in its stored form, after supercompression framing;
// Content undoes the framing. Construct resources with NewBlobResource or
// NewTextureResource so sizes and flags stay consistent.
type Resource struct {
	// Type selects which TypeDescriptor shape applies. It must match
	// Descriptor.Type().
	Type ResourceType

	// Flags is the resource flag bit set.
	Flags ResourceFlags

	// Format is a caller-defined payload format tag (e.g. a pixel format).
	// The codec carries it opaquely.
	Format uint32

	// Supercompression is the payload framing scheme.
	Supercompression SupercompressionScheme

	// Descriptor is the type-specific metadata variant.
	Descriptor TypeDescriptor

	id   ResourceID
	data []byte
}

// NewBlobResource builds a blob resource, framing content with scheme.
func NewBlobResource(content []byte, scheme SupercompressionScheme) (*Resource, error) {
	data, err := supercompress(content, scheme)
	if err != nil {
		return nil, err
	}
	var flags ResourceFlags
	if scheme != SchemeNone {
		flags |= FlagCompressed
	}
	return &Resource{
		Type:             TypeBlob,
		Flags:            flags,
		Supercompression: scheme,
		Descriptor:       BlobDescriptor{UncompressedSize: uint64(len(content))},
		data:             data,
	}, nil
}

// NewTextureResource builds a texture resource, framing content with scheme.
// The descriptor's size fields must describe content; they are validated on
// save and on any subsequent load.
func NewTextureResource(content []byte, scheme SupercompressionScheme, desc TextureDescriptor, format uint32) (*Resource, error) {
	if desc.Width == 0 || desc.Height == 0 || desc.Depth == 0 {
		return nil, fmt.Errorf("%w: texture dimensions %dx%dx%d must be non-zero",
			ErrInvalidDescriptor, desc.Width, desc.Height, desc.Depth)
	}
	if desc.LayerCount == 0 || desc.MipLevelCount == 0 {
		return nil, fmt.Errorf("%w: texture layer count %d and mip count %d must be non-zero",
			ErrInvalidDescriptor, desc.LayerCount, desc.MipLevelCount)
	}
	data, err := supercompress(content, scheme)
	if err != nil {
		return nil, err
	}
	var flags ResourceFlags
	if scheme != SchemeNone {
		flags |= FlagCompressed
	}
	if desc.MipLevelCount > 1 {
		flags |= FlagHasMipmaps
	}
	return &Resource{
		Type:             TypeTexture,
		Flags:            flags,
		Format:           format,
		Supercompression: scheme,
		Descriptor:       desc,
		data:             data,
	}, nil
}

// ID returns the resource's container-assigned handle.
// It is zero until the resource is added to a container.
func (r *Resource) ID() ResourceID { return r.id }

// Data returns the stored payload bytes, post supercompression framing.
// The returned slice must be treated as read-only.
func (r *Resource) Data() []byte { return r.data }

// DataSize returns the stored payload size in bytes.
func (r *Resource) DataSize() uint64 { return uint64(len(r.data)) }

// Content returns the payload with supercompression framing removed.
// For SchemeNone resources the stored bytes are returned directly.
func (r *Resource) Content() ([]byte, error) {
	return r.content(DefaultMaxResourceSize, DefaultMaxDecoderMemory)
}

func (r *Resource) content(maxSize, maxMemory uint64) ([]byte, error) {
	out, err := superdecompress(r.data, r.Supercompression, maxSize, maxMemory)
	if err != nil {
		return nil, err
	}
	if bd, ok := r.Descriptor.(BlobDescriptor); ok && uint64(len(out)) != bd.UncompressedSize {
		return nil, fmt.Errorf("%w: blob declared %d uncompressed bytes, decoded %d",
			ErrDecompression, bd.UncompressedSize, len(out))
	}
	return out, nil
}

// ContentDigest returns the SHA-256 digest of the unframed payload.
func (r *Resource) ContentDigest() (digest.Digest, error) {
	content, err := r.Content()
	if err != nil {
		return "", err
	}
	return digest.FromBytes(content), nil
}

// descriptorFor projects the resource into a directory record with the
// given resolved data location.
func (r *Resource) descriptorFor(offset uint64) descriptor {
	return descriptor{
		typeID:     r.Type,
		flags:      r.Flags,
		format:     r.Format,
		scheme:     r.Supercompression,
		dataOffset: offset,
		dataSize:   r.DataSize(),
		typeDesc:   r.Descriptor,
	}
}

// resourceFrom builds an in-memory resource from a decoded record and its
// extracted payload bytes.
func resourceFrom(d descriptor, data []byte) *Resource {
	return &Resource{
		Type:             d.typeID,
		Flags:            d.flags,
		Format:           d.format,
		Supercompression: d.scheme,
		Descriptor:       d.typeDesc,
		data:             data,
	}
}
