package bin

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/trlevel/trfile/errors"
)

func TestReaderNumbers(t *testing.T) {
	r := NewReader([]byte{
		0x01,
		0xFE,
		0x34, 0x12,
		0xFF, 0xFF,
		0x78, 0x56, 0x34, 0x12,
		0x00, 0x00, 0x80, 0x3F,
	})
	if v := r.U8(); v != 1 {
		t.Errorf("unexpected u8 %d", v)
	}
	if v := r.I8(); v != -2 {
		t.Errorf("unexpected i8 %d", v)
	}
	if v := r.U16(); v != 0x1234 {
		t.Errorf("unexpected u16 %#x", v)
	}
	if v := r.I16(); v != -1 {
		t.Errorf("unexpected i16 %d", v)
	}
	if v := r.U32(); v != 0x12345678 {
		t.Errorf("unexpected u32 %#x", v)
	}
	if v := r.F32(); v != 1 {
		t.Errorf("unexpected f32 %v", v)
	}
	if n, err := r.End(); n != 14 || err != nil {
		t.Errorf("unexpected end (%d, %v)", n, err)
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	r.U16()
	if v := r.U16(); v != 0 {
		t.Errorf("expected zero value after failure, got %d", v)
	}
	err := r.Err()
	if !errors.Is(err, errors.ErrTruncatedInput) {
		t.Fatalf("expected truncated input, got %v", err)
	}
	var derr errors.DataError
	if !errors.As(err, &derr) || derr.Offset != 2 {
		t.Errorf("unexpected offset in %v", err)
	}
	// Sticky: a read that would fit still fails.
	if v := r.U8(); v != 0 || r.Err() != err {
		t.Errorf("expected sticky error")
	}
}

func TestReadArrays(t *testing.T) {
	r := NewReader([]byte{3, 0, 1, 0, 2, 0, 3, 0, 0xFF})
	if a := ReadPrefixed[int16, uint16](r); !reflect.DeepEqual(a, []int16{1, 2, 3}) {
		t.Errorf("unexpected array %v", a)
	}
	if a := ReadArray[uint16](r, 1); a != nil || !errors.Is(r.Err(), errors.ErrTruncatedInput) {
		t.Errorf("expected truncated array, got %v, %v", a, r.Err())
	}
}

func TestSkipTo(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4, 5, 6})
	r.U16()
	if p := r.SkipTo(5); !bytes.Equal(p, []byte{3, 4, 5}) {
		t.Errorf("unexpected skipped bytes %v", p)
	}
	if v := r.U8(); v != 6 {
		t.Errorf("unexpected byte after skip %d", v)
	}
	if r.SkipTo(2); !errors.Is(r.Err(), errors.ErrCorruptRecord) {
		t.Errorf("expected corrupt record on backward skip, got %v", r.Err())
	}

	r = NewReader([]byte{1, 2})
	if r.SkipTo(4); !errors.Is(r.Err(), errors.ErrTruncatedInput) {
		t.Errorf("expected truncated input on skip past end, got %v", r.Err())
	}
}

func TestSubAndFork(t *testing.T) {
	r := NewReader([]byte{9, 1, 2, 3, 4})
	r.U8()
	s := r.Sub(2)
	if r.Pos() != 3 || s.Pos() != 1 {
		t.Errorf("unexpected positions %d, %d", r.Pos(), s.Pos())
	}
	s.U16()
	s.U8()
	var derr errors.DataError
	if !errors.As(s.Err(), &derr) || derr.Offset != 3 {
		t.Errorf("expected absolute offset 3 in sub reader error, got %v", s.Err())
	}
	f := r.Fork(1)
	if v := f.U16(); v != 0x0201 {
		t.Errorf("unexpected forked value %#x", v)
	}
	if r.Pos() != 3 {
		t.Errorf("fork moved the parent cursor")
	}
	if f := r.Fork(10); f.Err() == nil {
		t.Errorf("expected error forking past end")
	}
}

func TestWriter(t *testing.T) {
	w := NewWriter()
	w.PutU8(1)
	w.PutI16(-1)
	w.PutU32(0x12345678)
	WritePrefixed[uint16, uint16](w, []uint16{7, 8})
	w.Pad(2, 0xCD)
	w.PutString("ab")
	b, err := w.Bytes()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	exp := []byte{1, 0xFF, 0xFF, 0x78, 0x56, 0x34, 0x12, 2, 0, 7, 0, 8, 0, 0xCD, 0xCD, 'a', 'b'}
	if !bytes.Equal(b, exp) {
		t.Errorf("unexpected bytes\n% x\n% x", b, exp)
	}
}

func TestPutCountOverflow(t *testing.T) {
	w := NewWriter()
	if PutCount[uint8](w, 256) {
		t.Errorf("expected overflow to fail")
	}
	if _, err := w.Bytes(); !errors.Is(err, errors.ErrCorruptRecord) {
		t.Errorf("expected corrupt record, got %v", err)
	}
}
