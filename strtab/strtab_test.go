package strtab

import (
	"reflect"
	"testing"

	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
	"golang.org/x/text/encoding/charmap"
)

func TestDecode(t *testing.T) {
	// "Lara" and "Croft", NUL terminated, XORed with 0xA6.
	plain := []byte("Lara\x00Croft\x00")
	slab := make([]byte, len(plain))
	for i, c := range plain {
		slab[i] = c ^ 0xA6
	}
	strs, err := Decode([]uint16{0, 5}, slab, Options{Key: 0xA6})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(strs, []string{"Lara", "Croft"}) {
		t.Errorf("unexpected strings %q", strs)
	}
}

func TestDecodeBoundary(t *testing.T) {
	slab := []byte("ab\x00cd\x00")

	// An offset equal to the slab length is an empty string.
	strs, err := Decode([]uint16{0, 3, uint16(len(slab))}, slab, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(strs, []string{"ab", "cd", ""}) {
		t.Errorf("unexpected strings %q", strs)
	}

	if _, err := Decode([]uint16{0, uint16(len(slab)) + 1}, slab, Options{}); !errors.Is(err, errors.ErrCorruptStringTable) {
		t.Errorf("expected corrupt string table, got %v", err)
	}
	if _, err := Decode([]uint16{3, 0}, slab, Options{}); !errors.Is(err, errors.ErrCorruptStringTable) {
		t.Errorf("expected corrupt string table for decreasing offsets, got %v", err)
	}
}

func TestStripsOneTerminator(t *testing.T) {
	strs, err := Decode([]uint16{0}, []byte("x\x00\x00"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if strs[0] != "x\x00" {
		t.Errorf("unexpected string %q", strs[0])
	}
}

func TestKeyZero(t *testing.T) {
	strs := []string{"Guns", "Lara's Home", ""}
	o1, s1, err := Encode(strs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	o2, s2, err := Encode(strs, Options{Key: 0})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(o1, o2) || !reflect.DeepEqual(s1, s2) {
		t.Error("key 0 differs from no key")
	}
	if string(s1) != "Guns\x00Lara's Home\x00\x00" {
		t.Errorf("unexpected slab %q", s1)
	}
}

func TestRoundTrip(t *testing.T) {
	opts := []Options{
		{},
		{Key: 0xA6, Accents: true},
		{Key: 0xA5, Charset: charmap.CodePage437, PlainTerminator: true},
	}
	strs := []string{"Caves", "Cistern", "Tomb of Tihocan", "", "Scion"}
	for _, o := range opts {
		offsets, slab, err := Encode(strs, o)
		if err != nil {
			t.Fatalf("%+v: %s", o, err)
		}
		got, err := Decode(offsets, slab, o)
		if err != nil {
			t.Fatalf("%+v: %s", o, err)
		}
		if !reflect.DeepEqual(got, strs) {
			t.Errorf("%+v: unexpected strings %q", o, got)
		}
	}
}

func TestPlainTerminator(t *testing.T) {
	_, slab, err := Encode([]string{"A"}, Options{Key: 0xA5, PlainTerminator: true})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(slab, []byte{'A' ^ 0xA5, 0}) {
		t.Errorf("unexpected slab % X", slab)
	}
}

func TestTable(t *testing.T) {
	strs := []string{"Great Wall", "Venice"}
	o := Options{Key: 0xA6}
	w := bin.NewWriter()
	if err := WriteTable(w, strs, o); err != nil {
		t.Fatal(err)
	}
	b, _ := w.Bytes()
	if len(b) != 2*2+2+len("Great Wall\x00Venice\x00") {
		t.Errorf("unexpected table length %d", len(b))
	}
	got, err := ReadTable(bin.NewReader(b), len(strs), o)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, strs) {
		t.Errorf("unexpected strings %q", got)
	}

	if _, err := ReadTable(bin.NewReader(b[:len(b)-1]), len(strs), o); !errors.Is(err, errors.ErrTruncatedInput) {
		t.Errorf("expected truncated input, got %v", err)
	}
}

func TestAccents(t *testing.T) {
	tests := []struct {
		marked, text string
	}{
		{"Op)era", "Opéra"},
		{"For(et", "Forêt"},
		{"Ni$evre", "Nièvre"},
		{"M~unchen", "München"},
		{"Stra=e", "Straße"},
		{"  Lara  ", "Lara"},
		{"Red)marrer un niveau", "Redémarrer un niveau"},
	}
	for _, test := range tests {
		if s := NormalizeAccents(test.marked); s != test.text {
			t.Errorf("NormalizeAccents(%q) = %q, expected %q", test.marked, s, test.text)
		}
		want := test.marked
		if want == "  Lara  " {
			want = "Lara"
		}
		if s := DenormalizeAccents(test.text); s != want {
			t.Errorf("DenormalizeAccents(%q) = %q, expected %q", test.text, s, want)
		}
	}

	// A marker not followed by a letter is kept.
	if s := NormalizeAccents("Tomb ) Raider"); s != "Tomb ) Raider" {
		t.Errorf("unexpected result %q", s)
	}
}
