package gcf

import "fmt"

// Format version written by Encode. Containers with a higher major version
// are rejected on load; higher minor versions within the same major load
// fine, with unknown trailing optional fields skipped.
const (
	VersionMajor uint16 = 3
	VersionMinor uint16 = 0
)

// DataAlignment is the boundary data blocks are aligned to, unless the
// container carries FlagUnpadded. Padding bytes are always zero.
const DataAlignment = 8

// magic is the fixed signature at the start of every container.
var magic = [4]byte{'G', 'C', 'F', '1'}

// Fixed structure sizes on the wire, in bytes.
const (
	headerSize           = 32
	commonDescriptorSize = 32
	blobExtensionSize    = 8
	textureExtensionSize = 16
)

// ResourceType identifies which type-specific descriptor shape a resource
// carries. The set is closed; decoding an unrecognized value fails.
type ResourceType uint32

const (
	// TypeBlob is an opaque byte payload.
	TypeBlob ResourceType = 0

	// TypeTexture is an image payload with dimension and mip metadata.
	TypeTexture ResourceType = 1
)

func (t ResourceType) String() string {
	switch t {
	case TypeBlob:
		return "blob"
	case TypeTexture:
		return "texture"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}

func (t ResourceType) valid() bool {
	return t == TypeBlob || t == TypeTexture
}

// ContainerFlags is the header-level flag bit set.
type ContainerFlags uint32

// FlagUnpadded disables data-region alignment; blocks are packed
// back-to-back with no padding.
const FlagUnpadded ContainerFlags = 1 << 0

// Has reports whether all bits in f2 are set.
func (f ContainerFlags) Has(f2 ContainerFlags) bool {
	return f&f2 == f2
}

// ResourceFlags is the per-resource flag bit set.
type ResourceFlags uint32

const (
	// FlagCompressed marks a resource whose payload is supercompressed.
	// It must agree with the resource's supercompression scheme.
	FlagCompressed ResourceFlags = 1 << 0

	// FlagHasMipmaps marks a texture carrying more than one mip level.
	// It is invalid on non-texture resources.
	FlagHasMipmaps ResourceFlags = 1 << 1
)

// Has reports whether all bits in f2 are set.
func (f ResourceFlags) Has(f2 ResourceFlags) bool {
	return f&f2 == f2
}

// TextureFlags describes texture dimensionality. Higher-dimension values
// include the lower bits, so a 3D texture also matches Texture1D.
type TextureFlags uint16

const (
	Texture1D TextureFlags = 0x0001
	Texture2D TextureFlags = 0x0003
	Texture3D TextureFlags = 0x0007
)
