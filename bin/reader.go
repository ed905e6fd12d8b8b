// Package bin implements a position-tracked cursor over little-endian binary
// data.
//
// Reads and writes are sticky: once an operation fails, every following
// operation is a no-op, and the first error is reported by Err and End. A read
// past the end of the buffer fails with errors.ErrTruncatedInput, wrapped in an
// errors.DataError carrying the offset of the failed read.
package bin

import (
	"bytes"
	"encoding/binary"

	"github.com/anaminus/parse"
	"github.com/trlevel/trfile/errors"
	"golang.org/x/exp/constraints"
)

// Number is a fixed-size numeric type that can be read or written by the
// cursor.
type Number interface {
	constraints.Integer | constraints.Float
}

// Reader reads values from a byte buffer.
type Reader struct {
	b    []byte
	base int64
	fr   *parse.BinaryReader
	err  error
}

// NewReader returns a Reader that reads from b, starting at offset 0.
func NewReader(b []byte) *Reader {
	return &Reader{b: b, fr: parse.NewBinaryReader(bytes.NewReader(b))}
}

// Pos returns the absolute offset of the cursor.
func (r *Reader) Pos() int64 {
	return r.base + r.fr.N()
}

// Len returns the absolute offset of the end of the buffer.
func (r *Reader) Len() int64 {
	return r.base + int64(len(r.b))
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.b) - int(r.fr.N())
}

// Err returns the first error that occurred.
func (r *Reader) Err() error {
	return r.err
}

// End returns the number of bytes read and the first error that occurred.
func (r *Reader) End() (n int64, err error) {
	return r.fr.N(), r.err
}

// Fail records err at the current offset. Has no effect if an error was
// already recorded. Returns whether the reader is in a failed state.
func (r *Reader) Fail(err error) bool {
	return r.FailAt(r.Pos(), err)
}

// FailAt records err at the given offset. Errors that already carry an offset
// are recorded unchanged.
func (r *Reader) FailAt(offset int64, err error) bool {
	if r.err != nil {
		return true
	}
	if err == nil {
		return false
	}
	var derr errors.DataError
	if errors.As(err, &derr) {
		r.err = err
	} else {
		r.err = errors.DataError{Offset: offset, Cause: err}
	}
	return true
}

func (r *Reader) need(n int) (failed bool) {
	if r.err != nil {
		return true
	}
	if n < 0 || r.Remaining() < n {
		return r.Fail(errors.ErrTruncatedInput)
	}
	return false
}

// Read reads a single value of type T.
func Read[T Number](r *Reader) (v T) {
	if r.need(binary.Size(v)) {
		return v
	}
	if r.fr.Number(&v) {
		r.Fail(r.fr.Err())
	}
	return v
}

// ReadArray reads n consecutive values of type T.
func ReadArray[T Number](r *Reader, n int) []T {
	var v T
	if r.need(n * binary.Size(v)) {
		return nil
	}
	a := make([]T, n)
	for i := range a {
		a[i] = Read[T](r)
	}
	if r.err != nil {
		return nil
	}
	return a
}

// ReadPrefixed reads a count of type N, followed by that many values of type
// T.
func ReadPrefixed[T Number, N constraints.Unsigned](r *Reader) []T {
	n := Read[N](r)
	return ReadArray[T](r, int(n))
}

func (r *Reader) U8() uint8    { return Read[uint8](r) }
func (r *Reader) I8() int8     { return Read[int8](r) }
func (r *Reader) U16() uint16  { return Read[uint16](r) }
func (r *Reader) I16() int16   { return Read[int16](r) }
func (r *Reader) U32() uint32  { return Read[uint32](r) }
func (r *Reader) I32() int32   { return Read[int32](r) }
func (r *Reader) U64() uint64  { return Read[uint64](r) }
func (r *Reader) I64() int64   { return Read[int64](r) }
func (r *Reader) F32() float32 { return Read[float32](r) }
func (r *Reader) F64() float64 { return Read[float64](r) }

// Bytes reads n raw bytes.
func (r *Reader) Bytes(n int) []byte {
	if r.need(n) {
		return nil
	}
	p := make([]byte, n)
	if r.fr.Bytes(p) {
		r.Fail(r.fr.Err())
		return nil
	}
	return p
}

// String reads n raw bytes as a string.
func (r *Reader) String(n int) string {
	return string(r.Bytes(n))
}

// SkipTo moves the cursor forward to the absolute offset off, returning the
// bytes passed over. Moving backward fails with errors.ErrCorruptRecord.
func (r *Reader) SkipTo(off int64) []byte {
	if r.err != nil {
		return nil
	}
	pos := r.Pos()
	if off < pos {
		r.Fail(errors.Wrapf(errors.ErrCorruptRecord, "skip to %d behind cursor", off))
		return nil
	}
	return r.Bytes(int(off - pos))
}

// Sub reads the next n bytes and returns a Reader over them. Offsets reported
// by the returned Reader remain absolute.
func (r *Reader) Sub(n int) *Reader {
	start := r.Pos()
	s := NewReader(r.Bytes(n))
	s.base = start
	s.err = r.err
	return s
}

// Fork returns a Reader over the same buffer, positioned at the absolute
// offset off. The receiver is not advanced.
func (r *Reader) Fork(off int64) *Reader {
	if off < r.base || off > r.Len() {
		s := NewReader(nil)
		s.base = off
		s.Fail(errors.ErrTruncatedInput)
		return s
	}
	s := NewReader(r.b[off-r.base:])
	s.base = off
	return s
}
