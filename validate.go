package gcf

import (
	"fmt"
	"math/bits"
	"sort"
)

// validateDescriptors runs the structural and semantic checks shared by
// load (after decode) and save (before any byte is emitted). Checks run in
// a fixed order and the first violation wins.
//
// dataStart is the first byte past the directory; totalSize is the full
// container length.
func validateDescriptors(descs []descriptor, dataStart, totalSize uint64) error {
	// Bounds: every region inside the container, past header and directory.
	for i, d := range descs {
		if d.dataOffset < dataStart && d.dataSize > 0 {
			return fmt.Errorf("%w: resource %d data offset %d overlaps header/directory (data starts at %d)",
				ErrOutOfBounds, i, d.dataOffset, dataStart)
		}
		if d.dataOffset > totalSize || d.dataSize > totalSize-d.dataOffset {
			return fmt.Errorf("%w: resource %d region [%d, %d+%d) exceeds container size %d",
				ErrOutOfBounds, i, d.dataOffset, d.dataOffset, d.dataSize, totalSize)
		}
	}

	// Overlap: regions may touch but never intersect.
	if err := checkOverlap(descs); err != nil {
		return err
	}

	// Type-specific semantics.
	for i, d := range descs {
		if err := validateSemantics(d, i); err != nil {
			return err
		}
	}
	return nil
}

// checkOverlap rejects intersecting data regions via an offset-sorted sweep.
// Zero-size regions cannot intersect anything.
func checkOverlap(descs []descriptor) error {
	order := make([]int, 0, len(descs))
	for i, d := range descs {
		if d.dataSize > 0 {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(a, b int) bool {
		return descs[order[a]].dataOffset < descs[order[b]].dataOffset
	})
	for k := 1; k < len(order); k++ {
		prev, cur := descs[order[k-1]], descs[order[k]]
		if prev.dataOffset+prev.dataSize > cur.dataOffset {
			return fmt.Errorf("%w: resources %d and %d share bytes ([%d,%d) vs [%d,%d))",
				ErrOverlappingData, order[k-1], order[k],
				prev.dataOffset, prev.dataOffset+prev.dataSize,
				cur.dataOffset, cur.dataOffset+cur.dataSize)
		}
	}
	return nil
}

// validateSemantics applies the per-type rules to one record.
func validateSemantics(d descriptor, index int) error {
	if d.typeDesc == nil {
		return fmt.Errorf("%w: resource %d has no type descriptor", ErrInvalidDescriptor, index)
	}
	if d.typeDesc.Type() != d.typeID {
		return fmt.Errorf("%w: resource %d descriptor variant %s does not match type %s",
			ErrInvalidDescriptor, index, d.typeDesc.Type(), d.typeID)
	}
	if !d.scheme.valid() {
		return fmt.Errorf("%w: resource %d supercompression scheme %d", ErrUnknownTag, index, uint16(d.scheme))
	}
	if d.flags.Has(FlagCompressed) != (d.scheme != SchemeNone) {
		return fmt.Errorf("%w: resource %d compressed flag %v inconsistent with scheme %s",
			ErrInvalidDescriptor, index, d.flags.Has(FlagCompressed), d.scheme)
	}

	switch td := d.typeDesc.(type) {
	case BlobDescriptor:
		if d.flags.Has(FlagHasMipmaps) {
			return fmt.Errorf("%w: resource %d is a blob but carries the mipmap flag", ErrInvalidDescriptor, index)
		}
		if d.scheme == SchemeNone && td.UncompressedSize != d.dataSize {
			return fmt.Errorf("%w: resource %d declares %d uncompressed bytes but stores %d unframed",
				ErrInvalidDescriptor, index, td.UncompressedSize, d.dataSize)
		}
	case TextureDescriptor:
		if td.Width == 0 || td.Height == 0 || td.Depth == 0 {
			return fmt.Errorf("%w: resource %d texture dimensions %dx%dx%d must be non-zero",
				ErrInvalidDescriptor, index, td.Width, td.Height, td.Depth)
		}
		if td.LayerCount == 0 || td.MipLevelCount == 0 {
			return fmt.Errorf("%w: resource %d texture layer count %d and mip count %d must be non-zero",
				ErrInvalidDescriptor, index, td.LayerCount, td.MipLevelCount)
		}
		if maxMips := maxMipCount(td.Width, td.Height, td.Depth); int(td.MipLevelCount) > maxMips {
			return fmt.Errorf("%w: resource %d declares %d mip levels, %dx%dx%d allows at most %d",
				ErrInvalidDescriptor, index, td.MipLevelCount, td.Width, td.Height, td.Depth, maxMips)
		}
		if td.MipLevelCount > 1 && !d.flags.Has(FlagHasMipmaps) {
			return fmt.Errorf("%w: resource %d has %d mip levels but no mipmap flag",
				ErrInvalidDescriptor, index, td.MipLevelCount)
		}
	}
	return nil
}

// maxMipCount returns the longest valid mip chain for the dimensions:
// one level per halving of the largest dimension, down to 1x1x1.
func maxMipCount(w, h, d uint16) int {
	m := max(w, h, d)
	return bits.Len16(m)
}
