package gcf

import (
	"bytes"
	"fmt"

	"github.com/gcfkit/gcf/internal/wire"
)

// header is the fixed 32-byte structure at the start of every container.
// It is derived from container state on save and never persisted stale.
type header struct {
	versionMajor    uint16
	versionMinor    uint16
	flags           ContainerFlags
	resourceCount   uint32
	directoryOffset uint64
	directorySize   uint64
}

// decodeHeader reads and gates the container header.
//
// The magic check is the primary "is this even a container" gate. A major
// version above VersionMajor is rejected; a higher minor version is
// accepted, and any gap between the fixed header and directoryOffset is
// treated as unknown optional trailing fields and skipped by the caller.
func decodeHeader(buf []byte) (header, error) {
	if len(buf) < headerSize {
		return header{}, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncatedData, headerSize, len(buf))
	}
	if !bytes.Equal(buf[:4], magic[:]) {
		return header{}, fmt.Errorf("%w: expected % x, found % x", ErrInvalidMagic, magic[:], buf[:4])
	}

	r := wire.NewReader(buf[4:headerSize])
	h := header{
		versionMajor:    r.Uint16(),
		versionMinor:    r.Uint16(),
		flags:           ContainerFlags(r.Uint32()),
		resourceCount:   r.Uint32(),
		directoryOffset: r.Uint64(),
		directorySize:   r.Uint64(),
	}
	if err := r.Err(); err != nil {
		return header{}, fmt.Errorf("%w: header: %v", ErrTruncatedData, err)
	}

	if h.versionMajor > VersionMajor {
		return header{}, fmt.Errorf("%w: container is %d.%d, supported major is %d",
			ErrUnsupportedVersion, h.versionMajor, h.versionMinor, VersionMajor)
	}
	if h.directoryOffset < headerSize {
		return header{}, fmt.Errorf("%w: directory offset %d inside header", ErrOutOfBounds, h.directoryOffset)
	}
	return h, nil
}

// encodeHeader writes the header. The implementation's current version is
// always written, regardless of the version a container was loaded with.
func encodeHeader(w *wire.Writer, h header) {
	w.Bytes(magic[:])
	w.Uint16(VersionMajor)
	w.Uint16(VersionMinor)
	w.Uint32(uint32(h.flags))
	w.Uint32(h.resourceCount)
	w.Uint64(h.directoryOffset)
	w.Uint64(h.directorySize)
}
