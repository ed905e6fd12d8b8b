// The trfile package holds the in-memory model of rooms decoded from the
// level formats of five engine generations.
//
// Each record is plain value data. Records are decoded from and encoded to a
// specific Generation by the "level" sub-package. Fields that the format
// derives from other fields, such as vertex colors computed from packed
// lighting values, are filled in on decode and ignored on encode.
//
// Companion formats of the same engines are handled by other sub-packages:
// "strtab" for obfuscated string tables, "script" for gameflow scripts and
// language files, and "pak" for compressed containers.
package trfile

import (
	"strings"

	"github.com/trlevel/trfile/errors"
	"github.com/trlevel/trfile/packed"
)

////////////////////////////////////////////////////////////////

// Generation identifies the on-disk layout family of a file. Generations are
// ordered, so layouts can be selected with comparisons such as g >= Gen3.
type Generation uint8

const (
	Gen1        Generation = iota // Tomb Raider.
	Gen1Variant                   // Tomb Raider: Unfinished Business. Shares every Gen1 layout.
	Gen2                          // Tomb Raider II.
	Gen3                          // Tomb Raider III.
	Gen4                          // Tomb Raider: The Last Revelation.
	Gen5                          // Tomb Raider: Chronicles.

	// GenerationCount is the number of defined generations.
	GenerationCount = int(Gen5) + 1
)

var generationStrings = [GenerationCount]string{
	Gen1:        "TR1",
	Gen1Variant: "TR1UB",
	Gen2:        "TR2",
	Gen3:        "TR3",
	Gen4:        "TR4",
	Gen5:        "TR5",
}

// Valid returns whether g is a defined generation.
func (g Generation) Valid() bool {
	return int(g) < GenerationCount
}

// String returns the short name of the generation. If the generation is not
// valid, then the returned value will be "Invalid".
func (g Generation) String() string {
	if !g.Valid() {
		return "Invalid"
	}
	return generationStrings[g]
}

// Layout returns the generation whose record layouts g uses. This is g for
// every generation except Gen1Variant, which uses Gen1.
func (g Generation) Layout() Generation {
	if g == Gen1Variant {
		return Gen1
	}
	return g
}

// ParseGeneration returns the generation named by s, case-insensitively.
func ParseGeneration(s string) (Generation, error) {
	for g, name := range generationStrings {
		if strings.EqualFold(s, name) {
			return Generation(g), nil
		}
	}
	return 0, errors.Wrapf(errors.ErrUnsupportedGeneration, "parse %q", s)
}

////////////////////////////////////////////////////////////////

// Room is a single room of a level, with the geometry and objects it owns.
type Room struct {
	// Offset is the position of the room in world space. Only X and Z are
	// stored before Gen5.
	Offset Vector3
	// YBottom and YTop bound the room vertically.
	YBottom float32
	YTop    float32

	Vertices  []RoomVertex
	Quads     []Face
	Triangles []Face
	Sprites   []Sprite
	// GeometryPadding holds bytes that follow the geometry within its
	// declared length. Not used by Gen5.
	GeometryPadding []byte

	Portals []Portal

	// Sectors is a NumZ by NumX grid, ordered with Z varying fastest.
	NumZ    uint16
	NumX    uint16
	Sectors []Sector

	// Ambient intensities. Inverted on decode before Gen3.
	Intensity1 int16
	Intensity2 int16
	// LightMode is stored only by Gen2.
	LightMode int16
	// LightColor is derived from the intensities before Gen5.
	LightColor packed.ColorF

	Lights       []Light
	StaticMeshes []RoomStaticMesh

	// AlternateRoom is the room this room swaps with, or -1.
	AlternateRoom int16
	Flags         RoomFlags

	// Stored from Gen3. Gen3 and Gen4 store WaterScheme in a byte.
	WaterScheme uint16
	// Reverb is stored from Gen3, and derived from Flags before.
	Reverb ReverbType
	// Filler is the trailing byte of a Gen3 room.
	Filler uint8
	// AlternateGroup is stored from Gen4.
	AlternateGroup int8

	// Layers split the geometry of a Gen5 room.
	Layers []Layer
	// Info5 holds fields only present in Gen5 rooms. Nil for other
	// generations.
	Info5 *RoomInfo5
}

// Sector returns the sector at grid position (z, x), and whether it exists.
func (r *Room) Sector(z, x int) (s Sector, ok bool) {
	if z < 0 || x < 0 || z >= int(r.NumZ) || x >= int(r.NumX) {
		return s, false
	}
	i := x*int(r.NumZ) + z
	if i >= len(r.Sectors) {
		return s, false
	}
	return r.Sectors[i], true
}

// Copy returns a deep copy of the room.
func (r *Room) Copy() *Room {
	c := *r
	c.Vertices = append([]RoomVertex(nil), r.Vertices...)
	c.Quads = copyFaces(r.Quads)
	c.Triangles = copyFaces(r.Triangles)
	c.Sprites = append([]Sprite(nil), r.Sprites...)
	c.GeometryPadding = append([]byte(nil), r.GeometryPadding...)
	c.Portals = append([]Portal(nil), r.Portals...)
	c.Sectors = append([]Sector(nil), r.Sectors...)
	c.Lights = append([]Light(nil), r.Lights...)
	c.StaticMeshes = append([]RoomStaticMesh(nil), r.StaticMeshes...)
	c.Layers = append([]Layer(nil), r.Layers...)
	if r.Info5 != nil {
		info := *r.Info5
		c.Info5 = &info
	}
	return &c
}

func copyFaces(faces []Face) []Face {
	if faces == nil {
		return nil
	}
	c := make([]Face, len(faces))
	for i, f := range faces {
		c[i] = f
		c[i].Vertices = append([]uint16(nil), f.Vertices...)
	}
	return c
}

// RoomFlags is the environment bit field of a room.
type RoomFlags uint16

const (
	RoomWater     RoomFlags = 0x0001
	RoomWind      RoomFlags = 0x0020
	RoomQuicksand RoomFlags = 0x0080 // Gen3 only.
)

// Has returns whether every bit of f is set.
func (r RoomFlags) Has(f RoomFlags) bool {
	return r&f == f
}

// ReverbType classifies the acoustics of a room.
type ReverbType uint8

const (
	ReverbOutside ReverbType = iota
	ReverbSmall
	ReverbMedium
	ReverbLarge
	ReverbPipe
)

var reverbStrings = map[ReverbType]string{
	ReverbOutside: "Outside",
	ReverbSmall:   "Small",
	ReverbMedium:  "Medium",
	ReverbLarge:   "Large",
	ReverbPipe:    "Pipe",
}

// String returns the name of the reverb type. If the type is not valid, then
// the returned value will be "Invalid".
func (r ReverbType) String() string {
	s, ok := reverbStrings[r]
	if !ok {
		return "Invalid"
	}
	return s
}

// RoomInfo5 holds the Gen5 room fields that have no equivalent in earlier
// generations.
type RoomInfo5 struct {
	// Separators are the three header separators that may be either 0 or
	// 0xCDCDCDCD.
	Separators [3]uint32
	// Set when a face count was stored as 0xCDCDCDCD rather than 0.
	UnsetTriangleCount bool
	UnsetQuadCount     bool

	// Header fillers, normally 0x7FFF, 0x7FFF and 0xFFFFFFFF.
	Fillers [3]uint32
	// Normally zero.
	Separator14 uint32

	UnknownR1  uint32
	UnknownR2  uint32
	UnknownR3  uint32
	UnknownR4a uint16
	UnknownR4b uint16
	UnknownR5  uint32
	UnknownR6  uint32

	// Float copies of the room position and vertical extent.
	RoomX       float32
	RoomZ       float32
	RoomYTop    float32
	RoomYBottom float32
}

// Layer is a partition of the geometry of a Gen5 room.
type Layer struct {
	NumVertices  uint16
	UnknownL1    uint16
	UnknownL2    uint16
	NumQuads     uint16
	NumTriangles uint16
	UnknownL3    uint16
	// Fillers are normally zero.
	Filler1     uint16
	Filler2     uint16
	BoundingBox BoundingBox
	Filler3     uint32
	UnknownL4   uint32
	UnknownL5   uint32
	UnknownL6   uint32
}

// BoundingBox is an axis-aligned box given by two corners.
type BoundingBox struct {
	Min Vector3
	Max Vector3
}
