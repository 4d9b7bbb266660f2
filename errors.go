package gcf

import "errors"

// Sentinel errors returned by the codec. Decode and validation failures
// wrap these with offset and expected/found context; match with errors.Is.
var (
	// ErrInvalidMagic is returned when the header magic signature does not match.
	ErrInvalidMagic = errors.New("gcf: invalid magic")

	// ErrUnsupportedVersion is returned when the container's major version is
	// newer than this implementation supports.
	ErrUnsupportedVersion = errors.New("gcf: unsupported version")

	// ErrTruncatedData is returned when the buffer ends before a complete
	// structure could be read.
	ErrTruncatedData = errors.New("gcf: truncated data")

	// ErrDirectoryTruncated is returned when the directory holds fewer
	// descriptor records than the header declares.
	ErrDirectoryTruncated = errors.New("gcf: directory truncated")

	// ErrInvalidDescriptor is returned when a descriptor carries an unknown
	// resource type or type-specific fields outside their valid range.
	ErrInvalidDescriptor = errors.New("gcf: invalid descriptor")

	// ErrOutOfBounds is returned when a resource's data region lies outside
	// the container.
	ErrOutOfBounds = errors.New("gcf: data region out of bounds")

	// ErrOverlappingData is returned when two resources' data regions intersect.
	ErrOverlappingData = errors.New("gcf: overlapping data regions")

	// ErrUnknownTag is returned when an enumerated tag value is not recognized.
	ErrUnknownTag = errors.New("gcf: unknown tag")

	// ErrDecompression is returned when a supercompressed payload cannot be
	// decoded.
	ErrDecompression = errors.New("gcf: decompression failed")

	// ErrSizeOverflow is returned when byte counts exceed configured or
	// representable limits.
	ErrSizeOverflow = errors.New("gcf: size overflow")

	// ErrTooManyResources is returned when the resource count exceeds the
	// configured limit.
	ErrTooManyResources = errors.New("gcf: too many resources")

	// ErrResourceNotFound is returned when no resource has the requested ID.
	ErrResourceNotFound = errors.New("gcf: resource not found")
)
