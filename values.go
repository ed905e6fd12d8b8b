package trfile

import (
	"github.com/trlevel/trfile/packed"
)

// Vector3 is a position or direction. Y and Z are negated relative to the
// on-disk coordinate system.
type Vector3 struct {
	X, Y, Z float32
}

// FaceEffects is the lighting bit field of a Gen5 room face.
type FaceEffects uint16

// AlphaIsIntensity returns whether the alpha channel of the face texture
// carries intensity.
func (e FaceEffects) AlphaIsIntensity() bool {
	return e&0x0001 != 0
}

// Highlight returns the strength of the specular highlight.
func (e FaceEffects) Highlight() uint8 {
	return uint8(e >> 1 & 0x7F)
}

// Face is a textured triangle or quad.
type Face struct {
	// Vertices holds 3 or 4 indices into the vertices of the owning room.
	Vertices []uint16
	// Texture is an object texture index. Bit 15 marks a double-sided face.
	Texture uint16
	// Effects is stored only by Gen5 rooms, and must be zero otherwise.
	Effects FaceEffects
}

// IsQuad returns whether the face has four corners.
func (f Face) IsQuad() bool {
	return len(f.Vertices) == 4
}

// RoomVertex is a vertex of room geometry.
type RoomVertex struct {
	// Position is relative to the room offset.
	Position Vector3
	// Lighting values. Before Gen3 both are inverted intensities; from Gen3
	// Lighting2 is a packed 15-bit color. Gen1 stores only Lighting1.
	Lighting1  int16
	Attributes uint16
	Lighting2  int16
	// Normal is stored only by Gen5.
	Normal Vector3
	// Color is derived from lighting before Gen5, and stored by Gen5.
	Color packed.ColorF
}

// Sprite is a billboard placed on a room vertex.
type Sprite struct {
	Vertex  int16
	Texture int16
}

// SectorUnit is the world-space height of one step of a sector height.
const SectorUnit = 256

// NoRoom marks a sector with no room above or below.
const NoRoom = 0xFF

// Sector is a cell of the floor grid of a room.
type Sector struct {
	FloorDataIndex uint16
	BoxIndex       uint16
	RoomBelow      uint8
	Floor          int8
	RoomAbove      uint8
	Ceiling        int8
}

// FloorHeight returns the floor height in world units.
func (s Sector) FloorHeight() float32 {
	return float32(s.Floor) * SectorUnit
}

// CeilingHeight returns the ceiling height in world units.
func (s Sector) CeilingHeight() float32 {
	return float32(s.Ceiling) * SectorUnit
}

// Portal is an opening into an adjoining room.
type Portal struct {
	AdjoiningRoom uint16
	Normal        Vector3
	Vertices      [4]Vector3
}

// LightType is the kind of a light.
type LightType uint8

const (
	LightNull LightType = iota
	LightPoint
	LightSpot
	LightSun
	LightShadow
)

var lightStrings = map[LightType]string{
	LightNull:   "Null",
	LightPoint:  "Point",
	LightSpot:   "Spotlight",
	LightSun:    "Sun",
	LightShadow: "Shadow",
}

// String returns the name of the light type. If the type is not valid, then
// the returned value will be "Invalid".
func (t LightType) String() string {
	s, ok := lightStrings[t]
	if !ok {
		return "Invalid"
	}
	return s
}

// Light is a light source within a room. Which fields are stored depends on
// the generation:
//
//     Gen1: Intensity1 (inverted), Fade1
//     Gen2: Intensity1, Intensity2, Fade1, Fade2
//     Gen3: Color, Fade1, Fade2
//     Gen4: Color, Type, Unknown, Intensity1, Hotspot, Falloff, Length,
//           Cutoff, Direction
//     Gen5: Color, Hotspot, Falloff, RadIn, RadOut, Range, Direction,
//           Position2, Direction2, Type
//
// Before Gen4, Type is always LightPoint, and Hotspot and Falloff are derived
// from Fade1.
type Light struct {
	Position Vector3
	Color    packed.ColorF
	Type     LightType

	// Intensity is derived on decode.
	Intensity  float32
	Intensity1 uint16
	Intensity2 uint16
	Fade1      uint32
	Fade2      uint32
	Unknown    uint8

	Hotspot float32
	Falloff float32
	Length  float32
	Cutoff  float32
	RadIn   float32
	RadOut  float32
	Range   float32

	Direction  Vector3
	Position2  Vector3
	Direction2 Vector3
}

// RoomStaticMesh places a static mesh within a room.
type RoomStaticMesh struct {
	// Position is in world space.
	Position Vector3
	// Rotation around the vertical axis, in degrees.
	Rotation float32
	// Intensities are inverted before Gen3, with negative values passed
	// through. From Gen3 Intensity1 is a packed 15-bit color. Gen1 stores
	// only Intensity1.
	Intensity1 int16
	Intensity2 int16
	ObjectID   uint16
	// Tint is derived from the intensities.
	Tint packed.ColorF
}
