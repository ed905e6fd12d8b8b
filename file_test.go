package trfile

import (
	"reflect"
	"testing"

	"github.com/trlevel/trfile/errors"
)

func TestGenerationOrder(t *testing.T) {
	order := []Generation{Gen1, Gen1Variant, Gen2, Gen3, Gen4, Gen5}
	for i := 1; i < len(order); i++ {
		if !(order[i-1] < order[i]) {
			t.Errorf("expected %s < %s", order[i-1], order[i])
		}
	}
	if len(order) != GenerationCount {
		t.Errorf("unexpected generation count %d", GenerationCount)
	}
	if Generation(GenerationCount).Valid() {
		t.Errorf("expected generation past the last to be invalid")
	}
	if s := Generation(200).String(); s != "Invalid" {
		t.Errorf("unexpected string %q", s)
	}
	if Gen1Variant.Layout() != Gen1 || Gen3.Layout() != Gen3 {
		t.Errorf("unexpected layouts")
	}
}

func TestParseGeneration(t *testing.T) {
	for g := Generation(0); g.Valid(); g++ {
		p, err := ParseGeneration(g.String())
		if err != nil || p != g {
			t.Errorf("ParseGeneration(%q) = %s, %v", g.String(), p, err)
		}
	}
	if g, err := ParseGeneration("tr1ub"); err != nil || g != Gen1Variant {
		t.Errorf("expected case-insensitive match, got %s, %v", g, err)
	}
	if _, err := ParseGeneration("TR6"); !errors.Is(err, errors.ErrUnsupportedGeneration) {
		t.Errorf("expected unsupported generation, got %v", err)
	}
}

func TestRoomSector(t *testing.T) {
	r := &Room{NumZ: 2, NumX: 3, Sectors: make([]Sector, 6)}
	for i := range r.Sectors {
		r.Sectors[i].BoxIndex = uint16(i)
	}
	if s, ok := r.Sector(1, 2); !ok || s.BoxIndex != 5 {
		t.Errorf("unexpected sector %+v, %v", s, ok)
	}
	if s, ok := r.Sector(0, 1); !ok || s.BoxIndex != 2 {
		t.Errorf("unexpected sector %+v, %v", s, ok)
	}
	if _, ok := r.Sector(2, 0); ok {
		t.Errorf("expected out of range sector")
	}
}

func TestRoomCopy(t *testing.T) {
	r := &Room{
		Quads:           []Face{{Vertices: []uint16{0, 1, 2, 3}, Texture: 7}},
		Vertices:        []RoomVertex{{Lighting1: 5}},
		GeometryPadding: []byte{1, 2},
		Info5:           &RoomInfo5{UnknownR1: 9},
	}
	c := r.Copy()
	if !reflect.DeepEqual(r, c) {
		t.Fatalf("copy differs from original")
	}
	c.Quads[0].Vertices[0] = 9
	c.Vertices[0].Lighting1 = 6
	c.GeometryPadding[0] = 0
	c.Info5.UnknownR1 = 0
	if r.Quads[0].Vertices[0] != 0 || r.Vertices[0].Lighting1 != 5 || r.GeometryPadding[0] != 1 || r.Info5.UnknownR1 != 9 {
		t.Errorf("modifying copy modified original")
	}
}
