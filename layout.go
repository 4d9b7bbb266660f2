package gcf

import (
	"fmt"
	"math"

	"github.com/gcfkit/gcf/internal/wire"
)

// containerLayout is the fully resolved byte placement of a save: every
// offset is known before the first byte is emitted, so the encoder runs in
// a single forward pass and never rewinds to patch earlier bytes.
type containerLayout struct {
	directorySize uint64
	dataStart     uint64
	offsets       []uint64
	totalSize     uint64
}

// computeLayout places the directory and every data block. Blocks follow
// container order, each aligned to DataAlignment unless the container is
// unpadded. The data region itself starts at the aligned end of the
// directory.
func (c *Container) computeLayout() (containerLayout, error) {
	unpadded := c.flags.Has(FlagUnpadded)

	var lay containerLayout
	for _, r := range c.resources {
		lay.directorySize += uint64(commonDescriptorSize + r.Descriptor.extensionSize()) //nolint:gosec // small constants
	}

	cursor := headerSize + lay.directorySize
	if !unpadded {
		cursor = wire.Align(cursor, DataAlignment)
	}
	lay.dataStart = cursor

	lay.offsets = make([]uint64, len(c.resources))
	for i, r := range c.resources {
		if !unpadded {
			cursor = wire.Align(cursor, DataAlignment)
		}
		size := r.DataSize()
		if size > math.MaxUint64-cursor {
			return containerLayout{}, fmt.Errorf("%w: container exceeds addressable size", ErrSizeOverflow)
		}
		lay.offsets[i] = cursor
		cursor += size
	}
	lay.totalSize = cursor
	return lay, nil
}
