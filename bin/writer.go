package bin

import (
	"bytes"

	"github.com/anaminus/parse"
	"github.com/trlevel/trfile/errors"
	"golang.org/x/exp/constraints"
)

// Writer writes values to a growing byte buffer.
type Writer struct {
	buf bytes.Buffer
	fw  *parse.BinaryWriter
	err error
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	w := &Writer{}
	w.fw = parse.NewBinaryWriter(&w.buf)
	return w
}

// Len returns the number of bytes written.
func (w *Writer) Len() int64 {
	return int64(w.buf.Len())
}

// Err returns the first error that occurred.
func (w *Writer) Err() error {
	return w.err
}

// Fail records err at the current offset. Has no effect if an error was
// already recorded. Returns whether the writer is in a failed state.
func (w *Writer) Fail(err error) bool {
	if w.err != nil {
		return true
	}
	if err == nil {
		return false
	}
	var derr errors.DataError
	if errors.As(err, &derr) {
		w.err = err
	} else {
		w.err = errors.DataError{Offset: w.Len(), Cause: err}
	}
	return true
}

// Bytes returns the written bytes, or the first error that occurred.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

func (w *Writer) failed() bool {
	if w.err != nil {
		return true
	}
	if _, err := w.fw.End(); err != nil {
		return w.Fail(err)
	}
	return false
}

// Write writes a single value of type T.
func Write[T Number](w *Writer, v T) {
	if w.err != nil {
		return
	}
	if w.fw.Number(v) {
		w.failed()
	}
}

// WriteArray writes each value of a.
func WriteArray[T Number](w *Writer, a []T) {
	for _, v := range a {
		Write(w, v)
	}
}

// WritePrefixed writes the length of a as type N, followed by each value of
// a. Fails with errors.ErrCorruptRecord if the length does not fit in N.
func WritePrefixed[T Number, N constraints.Unsigned](w *Writer, a []T) {
	if !PutCount[N](w, len(a)) {
		return
	}
	WriteArray(w, a)
}

// PutCount writes n as a count of type N. Fails with errors.ErrCorruptRecord
// if n does not fit in N.
func PutCount[N constraints.Unsigned](w *Writer, n int) bool {
	if n < 0 || uint64(n) != uint64(N(n)) {
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "count %d overflows field", n))
		return false
	}
	Write(w, N(n))
	return w.err == nil
}

func (w *Writer) PutU8(v uint8)    { Write(w, v) }
func (w *Writer) PutI8(v int8)     { Write(w, v) }
func (w *Writer) PutU16(v uint16)  { Write(w, v) }
func (w *Writer) PutI16(v int16)   { Write(w, v) }
func (w *Writer) PutU32(v uint32)  { Write(w, v) }
func (w *Writer) PutI32(v int32)   { Write(w, v) }
func (w *Writer) PutU64(v uint64)  { Write(w, v) }
func (w *Writer) PutI64(v int64)   { Write(w, v) }
func (w *Writer) PutF32(v float32) { Write(w, v) }
func (w *Writer) PutF64(v float64) { Write(w, v) }

// PutBytes writes raw bytes.
func (w *Writer) PutBytes(p []byte) {
	if w.err != nil {
		return
	}
	if w.fw.Bytes(p) {
		w.failed()
	}
}

// PutString writes the raw bytes of s.
func (w *Writer) PutString(s string) {
	w.PutBytes([]byte(s))
}

// Pad writes n copies of b.
func (w *Writer) Pad(n int, b byte) {
	if n <= 0 {
		return
	}
	w.PutBytes(bytes.Repeat([]byte{b}, n))
}
