// Package pak implements the compressed container used by level and asset
// files: a 32-bit little-endian uncompressed size, followed by a compressed
// stream.
//
// Level files of Gen4 and later frame their compressed sections as chunks,
// which store both the uncompressed and the compressed size. ReadChunk and
// WriteChunk handle this framing.
package pak

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/bkaradzic/go-lz4"
	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
	"golang.org/x/crypto/blake2b"
)

// Method is a compression method.
type Method uint8

const (
	Zlib Method = iota // Used by every game file.
	LZ4
	Zstd
)

var methodStrings = map[Method]string{
	Zlib: "zlib",
	LZ4:  "lz4",
	Zstd: "zstd",
}

// String returns the name of the method. If the method is not valid, then the
// returned value will be "Invalid".
func (m Method) String() string {
	s, ok := methodStrings[m]
	if !ok {
		return "Invalid"
	}
	return s
}

// ParseMethod returns the method named by s.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodStrings {
		if s == name {
			return m, nil
		}
	}
	return 0, errors.Wrapf(errUnknownMethod, "parse %q", s)
}

// Codec compresses and decompresses containers.
type Codec struct {
	Method Method
	// Level is passed to the compressor of the method. Zero selects the
	// default level.
	Level int
}

// DefaultCodec is the codec used by the package-level functions.
var DefaultCodec = Codec{Method: Zlib}

const sizeLen = 4

// An LZ4 block expands to at most this many bytes per input byte.
const lz4MaxRatio = 255

var errUnknownMethod = errors.New("unknown compression method")

func sizeError(got, want int) error {
	return errors.Wrapf(errors.ErrDecompressionFailure, "decompressed %d bytes, expected %d", got, want)
}

// Length returns the uncompressed size stored in the header of container b.
func Length(b []byte) (int, error) {
	if len(b) < sizeLen {
		return 0, errors.DataError{Offset: int64(len(b)), Cause: errors.ErrTruncatedInput}
	}
	return int(binary.LittleEndian.Uint32(b)), nil
}

// Compress returns the container of b.
func (c Codec) Compress(b []byte) ([]byte, error) {
	if c.Method == LZ4 {
		// The LZ4 block format already starts with the size.
		if len(b) == 0 {
			return make([]byte, sizeLen), nil
		}
		return lz4.Encode(nil, b)
	}
	var buf bytes.Buffer
	var size [sizeLen]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(b)))
	buf.Write(size[:])
	if err := c.compress(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c Codec) compress(w io.Writer, b []byte) error {
	switch c.Method {
	case Zlib:
		level := c.Level
		if level == 0 {
			level = zlib.DefaultCompression
		}
		zw, err := zlib.NewWriterLevel(w, level)
		if err != nil {
			return err
		}
		if _, err := zw.Write(b); err != nil {
			return err
		}
		return zw.Close()
	case Zstd:
		var opts []zstd.EOption
		if c.Level != 0 {
			opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(c.Level)))
		}
		zw, err := zstd.NewWriter(nil, opts...)
		if err != nil {
			return err
		}
		defer zw.Close()
		_, err = w.Write(zw.EncodeAll(b, nil))
		return err
	}
	return errors.Wrapf(errUnknownMethod, "compress %s", c.Method)
}

// Decompress returns the uncompressed content of container b. Fails with
// errors.ErrDecompressionFailure if the stream is malformed, or does not
// decompress to the size in the header.
func (c Codec) Decompress(b []byte) ([]byte, error) {
	n, err := Length(b)
	if err != nil {
		return nil, err
	}
	if c.Method == LZ4 {
		if n == 0 {
			return []byte{}, nil
		}
		if n > len(b)*lz4MaxRatio {
			return nil, errors.Wrapf(errors.ErrDecompressionFailure, "size %d exceeds bound for %d input bytes", n, len(b))
		}
		p, err := lz4.Decode(nil, b)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDecompressionFailure, err.Error())
		}
		if len(p) != n {
			return nil, sizeError(len(p), n)
		}
		return p, nil
	}
	return c.decompress(b[sizeLen:], n)
}

func (c Codec) decompress(b []byte, n int) ([]byte, error) {
	var p []byte
	switch c.Method {
	case Zlib:
		zr, err := zlib.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, errors.Wrap(errors.ErrDecompressionFailure, err.Error())
		}
		defer zr.Close()
		// Read one byte past the expected size to detect long streams.
		p, err = io.ReadAll(io.LimitReader(zr, int64(n)+1))
		if err != nil {
			return nil, errors.Wrap(errors.ErrDecompressionFailure, err.Error())
		}
	case Zstd:
		// The decoder rejects frames larger than the header claims, and
		// requires a nonzero limit.
		zr, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(max(n, 1))))
		if err != nil {
			return nil, errors.Wrapf(err, "zstd reader")
		}
		defer zr.Close()
		if p, err = zr.DecodeAll(b, nil); err != nil {
			return nil, errors.Wrap(errors.ErrDecompressionFailure, err.Error())
		}
	default:
		return nil, errors.Wrapf(errUnknownMethod, "decompress %s", c.Method)
	}
	if len(p) != n {
		return nil, sizeError(len(p), n)
	}
	return p, nil
}

// Compress returns the container of b using DefaultCodec.
func Compress(b []byte) ([]byte, error) {
	return DefaultCodec.Compress(b)
}

// Decompress returns the content of container b using DefaultCodec.
func Decompress(b []byte) ([]byte, error) {
	return DefaultCodec.Decompress(b)
}

////////////////////////////////////////////////////////////////

// ReadChunk reads a chunk from r: the uncompressed size, the compressed size,
// and a zlib stream of that size.
func ReadChunk(r *bin.Reader) ([]byte, error) {
	size := r.U32()
	csize := r.U32()
	off := r.Pos()
	b := r.Bytes(int(csize))
	if r.Err() != nil {
		return nil, r.Err()
	}
	p, err := DefaultCodec.decompress(b, int(size))
	if err != nil {
		r.FailAt(off, err)
		return nil, r.Err()
	}
	return p, nil
}

// WriteChunk compresses b with zlib at the given level, and writes it to w as
// a chunk.
func WriteChunk(w *bin.Writer, b []byte, level int) error {
	var buf bytes.Buffer
	if err := (Codec{Method: Zlib, Level: level}).compress(&buf, b); w.Fail(err) {
		return w.Err()
	}
	w.PutU32(uint32(len(b)))
	bin.PutCount[uint32](w, buf.Len())
	w.PutBytes(buf.Bytes())
	return w.Err()
}

////////////////////////////////////////////////////////////////

// Sum returns the BLAKE2b-256 digest of b.
func Sum(b []byte) [blake2b.Size256]byte {
	return blake2b.Sum256(b)
}

// Checksum returns a fast non-cryptographic hash of b, suitable for detecting
// changed data.
func Checksum(b []byte) uint64 {
	return xxhash.Sum64(b)
}
