// Package wire provides bounds-checked little-endian primitives for the
// container codec. All multi-byte fields in the format are little-endian;
// no other byte order is ever used.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortBuffer is returned by Reader.Err when a read ran past the end of
// the buffer.
var ErrShortBuffer = errors.New("wire: short buffer")

// Reader decodes fixed-width little-endian fields from a byte slice.
//
// Reads past the end of the buffer do not panic; they return zero values
// and latch an error retrievable via Err, recording the offset of the
// first failed read. Callers decode a full record and check Err once.
type Reader struct {
	buf     []byte
	off     int
	err     error
	failOff int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

func (r *Reader) fail(n int) bool {
	if r.err != nil {
		return true
	}
	if len(r.buf)-r.off < n {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, r.off, len(r.buf)-r.off)
		r.failOff = r.off
		return true
	}
	return false
}

// Uint16 reads a little-endian uint16.
func (r *Reader) Uint16() uint16 {
	if r.fail(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() uint32 {
	if r.fail(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

// Uint64 reads a little-endian uint64.
func (r *Reader) Uint64() uint64 {
	if r.fail(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

// Bytes reads n raw bytes. The returned slice aliases the underlying
// buffer and must be treated as read-only.
func (r *Reader) Bytes(n int) []byte {
	if n < 0 || r.fail(n) {
		if r.err == nil {
			r.err = fmt.Errorf("%w: negative length %d at offset %d", ErrShortBuffer, n, r.off)
			r.failOff = r.off
		}
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

// Skip advances the cursor by n bytes without decoding them.
func (r *Reader) Skip(n int) {
	if n < 0 || r.fail(n) {
		return
	}
	r.off += n
}

// Offset returns the current cursor position. After a failed read it
// returns the offset at which the failure occurred.
func (r *Reader) Offset() int {
	if r.err != nil {
		return r.failOff
	}
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	if r.err != nil {
		return 0
	}
	return len(r.buf) - r.off
}

// Err returns the first read failure, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Writer encodes fixed-width little-endian fields into a growing buffer.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with capacity preallocated for size bytes.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

// Uint16 appends a little-endian uint16.
func (w *Writer) Uint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// Uint32 appends a little-endian uint32.
func (w *Writer) Uint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// Uint64 appends a little-endian uint64.
func (w *Writer) Uint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// Bytes appends raw bytes.
func (w *Writer) Bytes(p []byte) {
	w.buf = append(w.buf, p...)
}

// Pad appends n zero bytes. Padding is never semantically significant.
func (w *Writer) Pad(n int) {
	for range n {
		w.buf = append(w.buf, 0)
	}
}

// PadTo appends zero bytes until the buffer length reaches off.
func (w *Writer) PadTo(off int) {
	if off > len(w.buf) {
		w.Pad(off - len(w.buf))
	}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Buffer returns the accumulated bytes.
func (w *Writer) Buffer() []byte {
	return w.buf
}

// Align rounds v up to the next multiple of boundary.
// boundary must be a power of two.
func Align(v, boundary uint64) uint64 {
	mask := boundary - 1
	return (v + mask) &^ mask
}
