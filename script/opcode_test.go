package script

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
)

func app(bs ...interface{}) []byte {
	var s []byte
	for _, b := range bs {
		switch b := b.(type) {
		case string:
			s = append(s, b...)
		case []byte:
			s = append(s, b...)
		case byte:
			s = append(s, b)
		case int:
			s = append(s, byte(b))
		case uint16:
			s = binary.LittleEndian.AppendUint16(s, b)
		case uint32:
			s = binary.LittleEndian.AppendUint32(s, b)
		}
	}
	return s
}

func TestCommands(t *testing.T) {
	if CommandCount != 23 {
		t.Errorf("unexpected command count %d", CommandCount)
	}
	for c := Command(0); int(c) < CommandCount; c++ {
		if c.String() == "Invalid" || c.String() == "" {
			t.Errorf("command %d has no name", c)
		}
	}
	if Command(CommandCount).String() != "Invalid" || Command(CommandCount).HasOperand() {
		t.Error("expected undefined command to be invalid")
	}
	if Complete.HasOperand() || !Bonus.HasOperand() || !StartInv.HasOperand() {
		t.Error("unexpected operand flags")
	}
}

func TestRemap(t *testing.T) {
	tests := []struct {
		raw uint16
		cmd Command
	}{
		{0, Picture},
		{8, PSXDemo},
		{10, Track},
		{17, NoFloor},
		{18, Bonus},
		{19, StartAnim},
		{22, RemoveAmmo},
	}
	for _, test := range tests {
		c, err := fromRaw(test.raw)
		if err != nil {
			t.Fatal(err)
		}
		if c != test.cmd {
			t.Errorf("raw %d: expected %s, got %s", test.raw, test.cmd, c)
		}
	}
	for raw := uint16(0); raw < rawCount; raw++ {
		if raw == rawEnd {
			continue
		}
		c, _ := fromRaw(raw)
		if got := toRaw(c); got != raw {
			t.Errorf("raw %d: round trip gave %d", raw, got)
		}
	}
	if _, err := fromRaw(rawCount); !errors.Is(err, errors.ErrCorruptRecord) {
		t.Errorf("expected corrupt record, got %v", err)
	}
}

func TestDecodeSlot(t *testing.T) {
	b := app(
		uint16(10), uint16(5),    // Track 5
		uint16(18), uint16(1003), // StartInv 3
		uint16(18), uint16(2),    // Bonus 2
		uint16(6),                // Complete
		uint16(4), uint16(1),     // Game 1
		uint16(rawEnd),
	)
	ops, err := DecodeSlot(bin.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	want := []Opcode{
		{Track, 5},
		{StartInv, 3},
		{Bonus, 2},
		{Complete, 0},
		{Game, 1},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("unexpected opcodes %v", ops)
	}

	w := bin.NewWriter()
	if err := EncodeSlot(w, ops); err != nil {
		t.Fatal(err)
	}
	if out, _ := w.Bytes(); !bytes.Equal(out, b) {
		t.Errorf("unexpected encoding % X", out)
	}
}

func TestSlotIdempotence(t *testing.T) {
	var ops []Opcode
	for c := Command(0); int(c) < CommandCount; c++ {
		op := Opcode{Command: c}
		if c.HasOperand() {
			op.Operand = uint16(c) + 7
		}
		ops = append(ops, op)
	}
	ops = append(ops, Opcode{StartInv, 0}, Opcode{StartInv, 0xFFFF - 1000}, Opcode{Bonus, 999})

	w := bin.NewWriter()
	if err := EncodeSlot(w, ops); err != nil {
		t.Fatal(err)
	}
	b, _ := w.Bytes()
	if v := binary.LittleEndian.Uint16(b[len(b)-2:]); v != rawEnd {
		t.Errorf("expected end marker, got %d", v)
	}
	got, err := DecodeSlot(bin.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, ops) {
		t.Errorf("unexpected opcodes %v", got)
	}

	w = bin.NewWriter()
	EncodeSlot(w, got)
	if c, _ := w.Bytes(); !bytes.Equal(b, c) {
		t.Error("re-encoding changed the stream")
	}
}

func TestEmptySlot(t *testing.T) {
	w := bin.NewWriter()
	if err := EncodeSlot(w, nil); err != nil {
		t.Fatal(err)
	}
	b, _ := w.Bytes()
	if !bytes.Equal(b, app(uint16(rawEnd))) {
		t.Errorf("unexpected encoding % X", b)
	}
	ops, err := DecodeSlot(bin.NewReader(b))
	if err != nil || len(ops) != 0 {
		t.Errorf("unexpected result %v, %v", ops, err)
	}
}

func TestEncodeSlotErrors(t *testing.T) {
	for _, ops := range [][]Opcode{
		{{Bonus, 1000}},
		{{StartInv, 0xFFFF - 999}},
		{{Command(CommandCount), 0}},
	} {
		if err := EncodeSlot(bin.NewWriter(), ops); !errors.Is(err, errors.ErrCorruptRecord) {
			t.Errorf("%v: expected corrupt record, got %v", ops, err)
		}
	}
}

func TestDecodeSlotErrors(t *testing.T) {
	var derr errors.DataError
	_, err := DecodeSlot(bin.NewReader(app(uint16(6), uint16(rawCount), uint16(rawEnd))))
	if !errors.Is(err, errors.ErrCorruptRecord) || !errors.As(err, &derr) || derr.Offset != 2 {
		t.Errorf("expected corrupt record at offset 2, got %v", err)
	}
	if _, err := DecodeSlot(bin.NewReader(app(uint16(6)))); !errors.Is(err, errors.ErrTruncatedInput) {
		t.Errorf("expected truncated input for missing end marker, got %v", err)
	}
	if _, err := DecodeSlot(bin.NewReader(app(uint16(4)))); !errors.Is(err, errors.ErrTruncatedInput) {
		t.Errorf("expected truncated input for missing operand, got %v", err)
	}
}

func TestScript(t *testing.T) {
	slots := [][]Opcode{
		{{FMV, 1}, {Game, 1}},
		nil,
		{{Track, 2}, {Game, 2}, {Complete, 0}},
	}
	w := bin.NewWriter()
	if err := EncodeScript(w, slots); err != nil {
		t.Fatal(err)
	}
	w.PutU8(0xAB)
	b, _ := w.Bytes()
	if !bytes.Equal(b[:8], app(uint16(0), uint16(10), uint16(12), uint16(24))) {
		t.Errorf("unexpected offsets % X", b[:8])
	}

	r := bin.NewReader(b)
	got, warn, err := DecodeScript(r, len(slots))
	if err != nil {
		t.Fatal(err)
	}
	if warn != nil {
		t.Errorf("unexpected warning: %s", warn)
	}
	if !reflect.DeepEqual(got, slots) {
		t.Errorf("unexpected slots %v", got)
	}
	if v := r.U8(); v != 0xAB {
		t.Errorf("script not fully consumed, next byte %02X", v)
	}
}

func TestScriptTrailingWords(t *testing.T) {
	b := app(
		uint16(0), uint16(4), uint16(6),
		uint16(rawEnd), uint16(0x1234),
		uint16(rawEnd),
		byte(0xAB),
	)
	r := bin.NewReader(b)
	slots, warn, err := DecodeScript(r, 2)
	if err != nil {
		t.Fatal(err)
	}
	if warn == nil {
		t.Error("expected warning for words after end marker")
	}
	if len(slots) != 2 || len(slots[0]) != 0 || len(slots[1]) != 0 {
		t.Errorf("unexpected slots %v", slots)
	}
	if v := r.U8(); v != 0xAB {
		t.Errorf("unexpected next byte %02X", v)
	}

	b = app(uint16(4), uint16(0), uint16(4), uint16(rawEnd), uint16(rawEnd))
	if _, _, err := DecodeScript(bin.NewReader(b), 2); !errors.Is(err, errors.ErrCorruptRecord) {
		t.Errorf("expected corrupt record for decreasing offsets, got %v", err)
	}
}
