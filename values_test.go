package trfile_test

import (
	"testing"

	"github.com/trlevel/trfile"
)

func TestLightType_String(t *testing.T) {
	if trfile.LightSpot.String() != "Spotlight" {
		t.Error("unexpected result from String")
	}

	if trfile.LightType(99).String() != "Invalid" {
		t.Error("unexpected result from String")
	}
}

func TestReverbType_String(t *testing.T) {
	if trfile.ReverbPipe.String() != "Pipe" {
		t.Error("unexpected result from String")
	}
}

func TestFaceEffects(t *testing.T) {
	e := trfile.FaceEffects(0x00FF)
	if !e.AlphaIsIntensity() {
		t.Error("expected alpha to carry intensity")
	}
	if h := e.Highlight(); h != 0x7F {
		t.Errorf("unexpected highlight %d", h)
	}
	if trfile.FaceEffects(0x0002).AlphaIsIntensity() {
		t.Error("unexpected alpha flag")
	}
}

func TestFaceIsQuad(t *testing.T) {
	if (trfile.Face{Vertices: []uint16{0, 1, 2}}).IsQuad() {
		t.Error("triangle reported as quad")
	}
	if !(trfile.Face{Vertices: []uint16{0, 1, 2, 3}}).IsQuad() {
		t.Error("quad not reported as quad")
	}
}

func TestSectorHeights(t *testing.T) {
	s := trfile.Sector{Floor: -2, Ceiling: 3}
	if h := s.FloorHeight(); h != -512 {
		t.Errorf("unexpected floor height %v", h)
	}
	if h := s.CeilingHeight(); h != 768 {
		t.Errorf("unexpected ceiling height %v", h)
	}
}

func TestRoomFlags(t *testing.T) {
	f := trfile.RoomWater | trfile.RoomWind
	if !f.Has(trfile.RoomWind) || f.Has(trfile.RoomQuicksand) {
		t.Error("unexpected flags")
	}
}
