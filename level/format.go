// Package level implements a decoder and encoder for the room records of the
// level formats of each engine generation.
//
// Every record type has one codec per generation, held in a table indexed by
// trfile.Generation. Dispatching on a generation that a table has no entry
// for fails with errors.ErrUnsupportedGeneration, rather than falling back to
// the layout of a nearby generation.
//
// The easiest way to decode and encode rooms is through Decoder and Encoder,
// which work on whole byte buffers. Functions such as DecodeVertex work on a
// bin.Reader positioned at a single record.
package level

import (
	"fmt"

	"github.com/trlevel/trfile"
	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
)

// recordCodec decodes and encodes a single record of one generation.
type recordCodec[T any] struct {
	// Size is the encoded size of the record, or 0 if the size varies.
	size   int
	decode func(r *bin.Reader) T
	encode func(w *bin.Writer, v T)
}

// codecTable holds the codec of a record type for each generation.
type codecTable[T any] struct {
	name   string
	codecs [trfile.GenerationCount]recordCodec[T]
}

func (t *codecTable[T]) get(g trfile.Generation) (c recordCodec[T], err error) {
	if g.Valid() {
		if c = t.codecs[g]; c.decode != nil && c.encode != nil {
			return c, nil
		}
	}
	return c, errors.GenerationError{Record: t.name, Generation: g}
}

func decodeRecord[T any](t *codecTable[T], r *bin.Reader, g trfile.Generation) (v T) {
	c, err := t.get(g)
	if r.Fail(err) {
		return v
	}
	return c.decode(r)
}

func decodeRecords[T any](t *codecTable[T], r *bin.Reader, g trfile.Generation, n int) []T {
	c, err := t.get(g)
	if r.Fail(err) {
		return nil
	}
	if c.size > 0 && n*c.size > r.Remaining() {
		r.Fail(errors.ErrTruncatedInput)
		return nil
	}
	if n == 0 {
		return nil
	}
	a := make([]T, n)
	for i := range a {
		if a[i] = c.decode(r); r.Err() != nil {
			return nil
		}
	}
	return a
}

func encodeRecord[T any](t *codecTable[T], w *bin.Writer, g trfile.Generation, v T) {
	c, err := t.get(g)
	if w.Fail(err) {
		return
	}
	c.encode(w, v)
}

func encodeRecords[T any](t *codecTable[T], w *bin.Writer, g trfile.Generation, a []T) {
	c, err := t.get(g)
	if w.Fail(err) {
		return
	}
	for _, v := range a {
		if c.encode(w, v); w.Err() != nil {
			return
		}
	}
}

////////////////////////////////////////////////////////////////

// MarkerError indicates a fixed marker value that did not match.
type MarkerError struct {
	// Name identifies the marker within its record.
	Name     string
	Expected uint32
	Got      uint32
}

func (err MarkerError) Error() string {
	return fmt.Sprintf("%s: expected marker 0x%X, got 0x%X", err.Name, err.Expected, err.Got)
}

func (err MarkerError) Unwrap() error {
	return errors.ErrCorruptRecord
}

const (
	marker8  = 0xCD
	marker32 = 0xCDCDCDCD
)

func expect32(r *bin.Reader, name string, want uint32) {
	off := r.Pos()
	if v := r.U32(); r.Err() == nil && v != want {
		r.FailAt(off, MarkerError{Name: name, Expected: want, Got: v})
	}
}

func expect8(r *bin.Reader, name string, want uint8) {
	off := r.Pos()
	if v := r.U8(); r.Err() == nil && v != want {
		r.FailAt(off, MarkerError{Name: name, Expected: uint32(want), Got: uint32(v)})
	}
}

// check reads a uint32 and appends a warning to warn if it is not the
// expected value. The value read is returned either way.
func check(warn *errors.Errors, r *bin.Reader, name string, want uint32) uint32 {
	off := r.Pos()
	v := r.U32()
	mismatch(warn, r, off, name, want, v)
	return v
}

func check16(warn *errors.Errors, r *bin.Reader, name string, want uint16) uint16 {
	off := r.Pos()
	v := r.U16()
	mismatch(warn, r, off, name, uint32(want), uint32(v))
	return v
}

func mismatch(warn *errors.Errors, r *bin.Reader, off int64, name string, want, v uint32) {
	if r.Err() == nil && v != want {
		*warn = warn.Append(errors.DataError{
			Offset: off,
			Cause:  fmt.Errorf("%s: expected 0x%X, got 0x%X", name, want, v),
		})
	}
}

////////////////////////////////////////////////////////////////

func read16(r *bin.Reader) trfile.Vector3 {
	x := r.I16()
	y := r.I16()
	z := r.I16()
	return trfile.Vector3{X: float32(x), Y: -float32(y), Z: -float32(z)}
}

func write16(w *bin.Writer, v trfile.Vector3) {
	w.PutI16(int16(v.X))
	w.PutI16(int16(-v.Y))
	w.PutI16(int16(-v.Z))
}

func read32(r *bin.Reader) trfile.Vector3 {
	x := r.I32()
	y := r.I32()
	z := r.I32()
	return trfile.Vector3{X: float32(x), Y: -float32(y), Z: -float32(z)}
}

func write32(w *bin.Writer, v trfile.Vector3) {
	w.PutI32(int32(v.X))
	w.PutI32(int32(-v.Y))
	w.PutI32(int32(-v.Z))
}

func readF(r *bin.Reader) trfile.Vector3 {
	x := r.F32()
	y := r.F32()
	z := r.F32()
	return trfile.Vector3{X: x, Y: -y, Z: -z}
}

func writeF(w *bin.Writer, v trfile.Vector3) {
	w.PutF32(v.X)
	w.PutF32(-v.Y)
	w.PutF32(-v.Z)
}
