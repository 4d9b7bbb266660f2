package gcf

import (
	"errors"
	"fmt"

	"github.com/gcfkit/gcf/internal/wire"
)

// decodeDirectory reads count descriptor records from dir.
//
// The directory is not self-delimited; count comes from the header. If the
// buffer holds fewer records than declared the decode fails with
// ErrDirectoryTruncated. Record order is preserved as container insertion
// order.
func decodeDirectory(dir []byte, count int) ([]descriptor, error) {
	descs := make([]descriptor, 0, count)
	r := wire.NewReader(dir)
	for i := range count {
		d, err := decodeDescriptor(r)
		if err != nil {
			if errors.Is(err, wire.ErrShortBuffer) {
				return nil, fmt.Errorf("%w: %d records declared, buffer ends inside record %d",
					ErrDirectoryTruncated, count, i)
			}
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// encodeDirectory writes the records in the order given, with no
// reordering or deduplication.
func encodeDirectory(w *wire.Writer, descs []descriptor) {
	for _, d := range descs {
		encodeDescriptor(w, d)
	}
}

// directorySize returns the total on-wire size of the records.
func directorySize(descs []descriptor) uint64 {
	var size uint64
	for _, d := range descs {
		size += uint64(d.encodedSize()) //nolint:gosec // encodedSize is a small positive constant sum
	}
	return size
}
