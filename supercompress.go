package gcf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// SupercompressionScheme identifies the framing applied to a resource's
// payload before it is placed in the data region.
type SupercompressionScheme uint16

const (
	// SchemeNone stores the payload verbatim.
	SchemeNone SupercompressionScheme = 0

	// SchemeZlib wraps the payload in a zlib stream.
	SchemeZlib SupercompressionScheme = 1

	// SchemeDeflate wraps the payload in a raw DEFLATE stream (no zlib header).
	SchemeDeflate SupercompressionScheme = 2

	// SchemeZstd wraps the payload in a zstd frame.
	SchemeZstd SupercompressionScheme = 3
)

func (s SupercompressionScheme) String() string {
	switch s {
	case SchemeNone:
		return "none"
	case SchemeZlib:
		return "zlib"
	case SchemeDeflate:
		return "deflate"
	case SchemeZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(s))
	}
}

func (s SupercompressionScheme) valid() bool {
	return s <= SchemeZstd
}

// supercompress frames data with the given scheme.
//
// SchemeNone returns data unchanged. Framing happens once, when a resource
// is constructed; the framed bytes are what Save writes, which keeps Save
// deterministic.
func supercompress(data []byte, scheme SupercompressionScheme) ([]byte, error) {
	switch scheme {
	case SchemeNone:
		return data, nil
	case SchemeZlib:
		var buf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case SchemeDeflate:
		var buf bytes.Buffer
		fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(data); err != nil {
			return nil, err
		}
		if err := fw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case SchemeZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithLowerEncoderMem(true))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("%w: supercompression scheme %d", ErrUnknownTag, uint16(scheme))
	}
}

// superdecompress unframes data.
//
// maxSize caps the decompressed output (0 = no cap) and guards against
// decompression bombs; maxMemory bounds zstd decoder memory.
func superdecompress(data []byte, scheme SupercompressionScheme, maxSize, maxMemory uint64) ([]byte, error) {
	switch scheme {
	case SchemeNone:
		return data, nil
	case SchemeZlib:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %v", ErrDecompression, err)
		}
		defer zr.Close()
		return readAllCapped(zr, maxSize)
	case SchemeDeflate:
		fr := flate.NewReader(bytes.NewReader(data))
		defer fr.Close()
		return readAllCapped(fr, maxSize)
	case SchemeZstd:
		opts := []zstd.DOption{zstd.WithDecoderConcurrency(1)}
		if maxMemory > 0 {
			opts = append(opts, zstd.WithDecoderMaxMemory(maxMemory))
		}
		dec, err := zstd.NewReader(nil, opts...)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrDecompression, err)
		}
		if maxSize > 0 && uint64(len(out)) > maxSize {
			return nil, fmt.Errorf("%w: decompressed size %d exceeds limit %d", ErrSizeOverflow, len(out), maxSize)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: supercompression scheme %d", ErrUnknownTag, uint16(scheme))
	}
}

// readAllCapped reads r to EOF, failing once the output exceeds maxSize.
func readAllCapped(r io.Reader, maxSize uint64) ([]byte, error) {
	if maxSize == 0 {
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
		}
		return out, nil
	}
	limited := io.LimitReader(r, int64(maxSize)+1) //nolint:gosec // maxSize is validated by options
	out, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	if uint64(len(out)) > maxSize {
		return nil, fmt.Errorf("%w: decompressed size exceeds limit %d", ErrSizeOverflow, maxSize)
	}
	return out, nil
}
