package level

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/trlevel/trfile"
	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
	"github.com/trlevel/trfile/packed"
)

func paletteBytes(g trfile.Generation) []byte {
	var b []byte
	for i := 0; i < PaletteSize; i++ {
		b = append(b, byte(i%64), byte(i*2%64), 63)
	}
	if g >= trfile.Gen2 {
		for i := 0; i < PaletteSize; i++ {
			b = append(b, byte(i), byte(255-i), 0, byte(i/2))
		}
	}
	return b
}

func TestPalette(t *testing.T) {
	for _, g := range []trfile.Generation{trfile.Gen1, trfile.Gen1Variant, trfile.Gen2, trfile.Gen3} {
		b := paletteBytes(g)
		r := bin.NewReader(b)
		p, err := DecodePalette(r, g)
		if err != nil {
			t.Fatalf("%s: %s", g, err)
		}
		if r.Remaining() != 0 {
			t.Errorf("%s: %d bytes left", g, r.Remaining())
		}
		if c := p.Colors[65]; c != (packed.Color{R: 4, G: 8, B: 252, A: packed.Opaque}) {
			t.Errorf("%s: unexpected color %+v", g, c)
		}
		if g >= trfile.Gen2 {
			if c := p.Colors16[10]; c != (packed.Color{R: 10, G: 245, B: 0, A: 5}) {
				t.Errorf("%s: unexpected 16-bit color %+v", g, c)
			}
		} else if p.Colors16 != nil {
			t.Errorf("%s: unexpected 16-bit palette", g)
		}

		w := bin.NewWriter()
		if err := EncodePalette(w, g, p); err != nil {
			t.Fatalf("%s: %s", g, err)
		}
		if out, _ := w.Bytes(); !bytes.Equal(out, b) {
			t.Errorf("%s: unexpected bytes", g)
		}
	}
}

func TestPaletteErrors(t *testing.T) {
	b := paletteBytes(trfile.Gen1)
	b[30] = 64
	_, err := DecodePalette(bin.NewReader(b), trfile.Gen1)
	var derr errors.DataError
	if !errors.Is(err, errors.ErrCorruptRecord) || !errors.As(err, &derr) || derr.Offset != 30 {
		t.Errorf("unexpected error %v", err)
	}

	if _, err := DecodePalette(bin.NewReader(paletteBytes(trfile.Gen1)), trfile.Gen2); !errors.Is(err, errors.ErrTruncatedInput) {
		t.Errorf("expected truncated input, got %v", err)
	}
	if _, err := DecodePalette(bin.NewReader(paletteBytes(trfile.Gen3)), trfile.Gen4); !errors.Is(err, errors.ErrUnsupportedGeneration) {
		t.Errorf("expected unsupported generation, got %v", err)
	}
	if err := EncodePalette(bin.NewWriter(), trfile.Gen3, &Palette{}); !errors.Is(err, errors.ErrCorruptRecord) {
		t.Errorf("expected corrupt record, got %v", err)
	}
	if err := EncodePalette(bin.NewWriter(), trfile.Gen5, &Palette{}); !errors.Is(err, errors.ErrUnsupportedGeneration) {
		t.Errorf("expected unsupported generation, got %v", err)
	}
}

func TestExpand(t *testing.T) {
	p, err := DecodePalette(bin.NewReader(paletteBytes(trfile.Gen1)), trfile.Gen1)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ExpandIndexed([]byte{0, 1, 65}, p)
	if err != nil {
		t.Fatal(err)
	}
	want := []packed.Color{
		{},
		{R: 4, G: 8, B: 252, A: 255},
		{R: 4, G: 8, B: 252, A: 255},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected colors %+v", got)
	}
	if _, err := ExpandIndexed([]byte{1}, nil); err == nil {
		t.Error("expected error for nil palette")
	}

	got = Expand1555([]uint16{0xFC00, 0x001F, 0x8000 | 0x03E0})
	want = []packed.Color{
		{R: 248, A: 255},
		{B: 248},
		{G: 248, A: 255},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected colors %+v", got)
	}
}
