// Package gcf implements the GCF binary asset container format.
//
// A container packages heterogeneous resources (textures, opaque blobs)
// into a single seekable byte stream:
//   - Header: magic, format version, global flags, directory location
//   - Directory: one fixed-layout descriptor per resource, in container order
//   - Data region: aligned, optionally supercompressed payload blocks
//
// The codec is strict: malformed or incompatible containers are rejected
// with a typed error, and a failed load never yields a partially populated
// Container. Saving is a pure projection of the in-memory resource set and
// is byte-for-byte deterministic, so saving an unmodified container twice
// produces identical output.
//
// A Container is safe for concurrent reads but not for concurrent
// mutation; callers needing concurrent writes must serialize access.
package gcf
