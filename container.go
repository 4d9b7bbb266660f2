package gcf

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/gcfkit/gcf/internal/wire"
)

// ByteSource provides random access to an encoded container.
//
// Implementations exist in the standard library for in-memory buffers
// (*bytes.Reader) and files (*os.File wrapped to report size); any
// length-known seekable source works. The codec never opens files itself.
type ByteSource interface {
	io.ReaderAt
	Size() int64
}

// Container is the in-memory representation of one asset container.
//
// It owns an ordered sequence of resources; insertion order is the
// authoritative addressing order and is exactly the order Save writes.
// A Container is safe for concurrent reads. It is not safe for concurrent
// mutation; callers needing concurrent writers must serialize access.
// Mutating the container during an active iteration is undefined.
type Container struct {
	versionMajor uint16
	versionMinor uint16
	flags        ContainerFlags
	resources    []*Resource
	byID         map[ResourceID]*Resource
	nextID       ResourceID

	maxResources     int
	maxResourceSize  uint64
	maxDecoderMemory uint64

	logger    *slog.Logger
	readGroup singleflight.Group
}

// New returns an empty container using the implementation's current
// format version.
func New(opts ...Option) *Container {
	c := &Container{
		versionMajor:     VersionMajor,
		versionMinor:     VersionMinor,
		byID:             map[ResourceID]*Resource{},
		maxResources:     DefaultMaxResources,
		maxResourceSize:  DefaultMaxResourceSize,
		maxDecoderMemory: DefaultMaxDecoderMemory,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Container) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// Load decodes a container from a random-access byte source.
//
// The source is read wholesale: header, directory, per-resource payload
// extraction, then validation. The first failure aborts the load and no
// partially populated Container is returned.
func Load(src ByteSource, opts ...Option) (*Container, error) {
	size := src.Size()
	if size < 0 {
		return nil, fmt.Errorf("%w: negative source size %d", ErrTruncatedData, size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(src, 0, size), buf); err != nil {
		return nil, fmt.Errorf("gcf: read source: %w", err)
	}
	return LoadBytes(buf, opts...)
}

// LoadBytes decodes a container from an in-memory byte stream.
// The input buffer is not retained; payloads are copied out.
func LoadBytes(data []byte, opts ...Option) (*Container, error) {
	c := New(opts...)
	if err := c.decode(data); err != nil {
		return nil, err
	}
	return c, nil
}

// decode populates an empty container from data, or fails leaving the
// caller nothing to observe.
func (c *Container) decode(data []byte) error {
	h, err := decodeHeader(data)
	if err != nil {
		return err
	}
	count := int(h.resourceCount)
	if c.maxResources > 0 && count > c.maxResources {
		return fmt.Errorf("%w: header declares %d resources, limit is %d", ErrTooManyResources, count, c.maxResources)
	}

	total := uint64(len(data))
	if h.directoryOffset > total || h.directorySize > total-h.directoryOffset {
		return fmt.Errorf("%w: directory [%d, %d+%d) extends past container size %d",
			ErrDirectoryTruncated, h.directoryOffset, h.directoryOffset, h.directorySize, total)
	}
	dirEnd := h.directoryOffset + h.directorySize

	descs, err := decodeDirectory(data[h.directoryOffset:dirEnd], count)
	if err != nil {
		return err
	}

	if err := validateDescriptors(descs, dirEnd, total); err != nil {
		return err
	}

	for i, d := range descs {
		if c.maxResourceSize > 0 && d.dataSize > c.maxResourceSize {
			return fmt.Errorf("%w: resource %d stores %d bytes, limit is %d",
				ErrSizeOverflow, i, d.dataSize, c.maxResourceSize)
		}
	}

	c.versionMajor = h.versionMajor
	c.versionMinor = h.versionMinor
	c.flags = h.flags
	c.resources = make([]*Resource, 0, count)
	for _, d := range descs {
		payload := make([]byte, d.dataSize)
		copy(payload, data[d.dataOffset:d.dataOffset+d.dataSize])
		c.add(resourceFrom(d, payload))
	}

	c.log().Debug("container loaded",
		"version", fmt.Sprintf("%d.%d", h.versionMajor, h.versionMinor),
		"resources", count,
		"size", total)
	return nil
}

// Encode serializes the container to a new byte slice.
//
// The header and directory are recomputed from current resource state,
// offsets are fully resolved before any byte is emitted, and the whole
// stream is produced in one forward pass. Encode does not mutate the
// container: repeated calls on an unmodified container are byte-identical.
func (c *Container) Encode() ([]byte, error) {
	lay, err := c.computeLayout()
	if err != nil {
		return nil, err
	}

	descs := make([]descriptor, len(c.resources))
	for i, r := range c.resources {
		descs[i] = r.descriptorFor(lay.offsets[i])
	}
	if err := validateDescriptors(descs, headerSize+lay.directorySize, lay.totalSize); err != nil {
		return nil, err
	}

	if lay.totalSize > uint64(maxInt) {
		return nil, fmt.Errorf("%w: container size %d exceeds addressable memory", ErrSizeOverflow, lay.totalSize)
	}
	w := wire.NewWriter(int(lay.totalSize))
	encodeHeader(w, header{
		flags:           c.flags,
		resourceCount:   uint32(len(c.resources)), //nolint:gosec // bounded by maxResources
		directoryOffset: headerSize,
		directorySize:   lay.directorySize,
	})
	encodeDirectory(w, descs)
	for i, r := range c.resources {
		w.PadTo(int(lay.offsets[i]))
		w.Bytes(r.Data())
	}

	c.log().Debug("container encoded", "resources", len(c.resources), "size", w.Len())
	return w.Buffer(), nil
}

// Save writes the encoded container to w in a single forward pass.
//
// On failure the sink is unmodified or clearly truncated; callers wanting
// atomic replacement should write to a temporary location and rename
// (see SaveFile).
func (c *Container) Save(w io.Writer) error {
	buf, err := c.Encode()
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("gcf: write container: %w", err)
	}
	return nil
}

const maxInt = int(^uint(0) >> 1)

// Add appends r to the container and returns its assigned ID.
// A Resource belongs to at most one container.
func (c *Container) Add(r *Resource) ResourceID {
	c.add(r)
	return r.id
}

func (c *Container) add(r *Resource) {
	c.nextID++
	r.id = c.nextID
	c.resources = append(c.resources, r)
	c.byID[r.id] = r
}

// Get returns the resource with the given ID.
func (c *Container) Get(id ResourceID) (*Resource, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// Remove deletes the resource with the given ID, preserving the order of
// the remaining resources. It reports whether a resource was removed.
func (c *Container) Remove(id ResourceID) bool {
	r, ok := c.byID[id]
	if !ok {
		return false
	}
	delete(c.byID, id)
	for i, cur := range c.resources {
		if cur == r {
			c.resources = append(c.resources[:i], c.resources[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of resources in the container.
func (c *Container) Len() int {
	return len(c.resources)
}

// Resources returns a lazy, restartable iterator over the resources in
// container order. Mutating the container during iteration is undefined.
func (c *Container) Resources() iter.Seq[*Resource] {
	return func(yield func(*Resource) bool) {
		for _, r := range c.resources {
			if !yield(r) {
				return
			}
		}
	}
}

// ResourcesByType returns a lazy iterator over resources of the given
// type, in container order.
func (c *Container) ResourcesByType(t ResourceType) iter.Seq[*Resource] {
	return func(yield func(*Resource) bool) {
		for _, r := range c.resources {
			if r.Type != t {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// ReadResource returns the unframed payload of the resource with the
// given ID, honoring the container's size and decoder limits.
//
// Concurrent calls for the same resource are deduplicated, so parallel
// readers trigger one decompression. The returned slice may be shared
// between such callers and must be treated as read-only.
func (c *Container) ReadResource(id ResourceID) ([]byte, error) {
	r, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrResourceNotFound, id)
	}
	result, err, _ := c.readGroup.Do(strconv.FormatUint(uint64(id), 10), func() (any, error) {
		return r.content(c.maxResourceSize, c.maxDecoderMemory)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil //nolint:errcheck // type assertion always succeeds when err is nil
}

// Version returns the container's format version: the version it was
// loaded with, or the implementation's current version for new containers.
// Save always writes the current version.
func (c *Container) Version() (major, minor uint16) {
	return c.versionMajor, c.versionMinor
}

// Flags returns the container-level flag bit set.
func (c *Container) Flags() ContainerFlags {
	return c.flags
}
