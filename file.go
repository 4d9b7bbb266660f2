package gcf

import (
	"fmt"
	"os"
	"path/filepath"
)

// OpenFile reads a container file into memory and decodes it.
//
// The codec core is path-agnostic; this helper lives at the package edge
// for callers that work with plain files. Use Load with a ByteSource for
// other seekable inputs.
func OpenFile(path string, opts ...Option) (*Container, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("gcf: read container file: %w", err)
	}
	return LoadBytes(data, opts...)
}

// SaveFile writes the container to path atomically via a temp file and
// rename, so a failed save never leaves a partially written container at
// the destination. Parent directories are created as needed.
func (c *Container) SaveFile(path string) error {
	buf, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("gcf: create container directory: %w", err)
	}
	return writeFileAtomic(path, buf)
}

// writeFileAtomic writes data to a temp file then renames to target,
// ensuring atomic replacement of the target file.
func writeFileAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".gcf-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
