package level

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/trlevel/trfile"
	"github.com/trlevel/trfile/errors"
	"github.com/trlevel/trfile/packed"
)

// Dump decodes a room list from b, and writes to w a readable representation
// of each room.
func (d Decoder) Dump(w io.Writer, b []byte) (warn, err error) {
	if w == nil {
		return nil, errors.New("nil writer")
	}
	rooms, warn, err := d.DecodeRooms(b)
	if err != nil {
		return warn, err
	}
	return warn, Dump(w, rooms)
}

// Dump writes to w a readable representation of rooms.
func Dump(w io.Writer, rooms []trfile.Room) error {
	if w == nil {
		return errors.New("nil writer")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Rooms: (count:%d) {", len(rooms))
	for i := range rooms {
		dumpRoom(bw, 1, i, &rooms[i])
	}
	bw.WriteString("\n}\n")
	return bw.Flush()
}

func dumpRoom(w *bufio.Writer, indent, i int, room *trfile.Room) {
	dumpNewline(w, indent)
	fmt.Fprintf(w, "#%d: {", i)
	indent++
	dumpNewline(w, indent)
	w.WriteString("Offset: ")
	dumpVector(w, room.Offset)
	dumpNewline(w, indent)
	fmt.Fprintf(w, "Y: %g to %g", room.YTop, room.YBottom)

	dumpNewline(w, indent)
	fmt.Fprintf(w, "Vertices: (count:%d) {", len(room.Vertices))
	for j, v := range room.Vertices {
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "%d: ", j)
		dumpVector(w, v.Position)
		fmt.Fprintf(w, " L1:%d A:%04X L2:%d ", v.Lighting1, v.Attributes, v.Lighting2)
		dumpColor(w, v.Color)
	}
	dumpNewline(w, indent)
	w.WriteByte('}')

	dumpFaces(w, indent, "Quads", room.Quads)
	dumpFaces(w, indent, "Triangles", room.Triangles)

	dumpNewline(w, indent)
	fmt.Fprintf(w, "Sprites: (count:%d) {", len(room.Sprites))
	for j, s := range room.Sprites {
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "%d: vertex:%d texture:%d", j, s.Vertex, s.Texture)
	}
	dumpNewline(w, indent)
	w.WriteByte('}')

	if len(room.GeometryPadding) > 0 {
		dumpNewline(w, indent)
		w.WriteString("GeometryPadding: ")
		dumpBytes(w, indent, room.GeometryPadding)
	}

	dumpNewline(w, indent)
	fmt.Fprintf(w, "Portals: (count:%d) {", len(room.Portals))
	for j, p := range room.Portals {
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "%d: room:%d normal:", j, p.AdjoiningRoom)
		dumpVector(w, p.Normal)
	}
	dumpNewline(w, indent)
	w.WriteByte('}')

	dumpNewline(w, indent)
	fmt.Fprintf(w, "Sectors: %dx%d (count:%d)", room.NumZ, room.NumX, len(room.Sectors))

	dumpNewline(w, indent)
	fmt.Fprintf(w, "Ambient: %d %d mode:%d ", room.Intensity1, room.Intensity2, room.LightMode)
	dumpColor(w, room.LightColor)

	dumpNewline(w, indent)
	fmt.Fprintf(w, "Lights: (count:%d) {", len(room.Lights))
	for j, l := range room.Lights {
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "%d: %s at ", j, l.Type)
		dumpVector(w, l.Position)
		w.WriteByte(' ')
		dumpColor(w, l.Color)
		fmt.Fprintf(w, " intensity:%g hotspot:%g falloff:%g", l.Intensity, l.Hotspot, l.Falloff)
	}
	dumpNewline(w, indent)
	w.WriteByte('}')

	dumpNewline(w, indent)
	fmt.Fprintf(w, "StaticMeshes: (count:%d) {", len(room.StaticMeshes))
	for j, m := range room.StaticMeshes {
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "%d: object:%d at ", j, m.ObjectID)
		dumpVector(w, m.Position)
		fmt.Fprintf(w, " rotation:%g ", m.Rotation)
		dumpColor(w, m.Tint)
	}
	dumpNewline(w, indent)
	w.WriteByte('}')

	dumpNewline(w, indent)
	fmt.Fprintf(w, "AlternateRoom: %d", room.AlternateRoom)
	dumpNewline(w, indent)
	fmt.Fprintf(w, "Flags: %04X", uint16(room.Flags))
	dumpNewline(w, indent)
	fmt.Fprintf(w, "WaterScheme: %d", room.WaterScheme)
	dumpNewline(w, indent)
	fmt.Fprintf(w, "Reverb: %s", room.Reverb)

	if len(room.Layers) > 0 {
		dumpNewline(w, indent)
		fmt.Fprintf(w, "Layers: (count:%d) {", len(room.Layers))
		for j, l := range room.Layers {
			dumpNewline(w, indent+1)
			fmt.Fprintf(w, "%d: vertices:%d quads:%d triangles:%d", j, l.NumVertices, l.NumQuads, l.NumTriangles)
		}
		dumpNewline(w, indent)
		w.WriteByte('}')
	}
	if info := room.Info5; info != nil {
		dumpNewline(w, indent)
		fmt.Fprintf(w, "Separators: %08X %08X %08X", info.Separators[0], info.Separators[1], info.Separators[2])
	}
	dumpNewline(w, indent-1)
	w.WriteByte('}')
}

func dumpFaces(w *bufio.Writer, indent int, name string, faces []trfile.Face) {
	dumpNewline(w, indent)
	fmt.Fprintf(w, "%s: (count:%d) {", name, len(faces))
	for j, f := range faces {
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "%d: %v texture:%04X", j, f.Vertices, f.Texture)
		if f.Effects != 0 {
			fmt.Fprintf(w, " effects:%04X", uint16(f.Effects))
		}
	}
	dumpNewline(w, indent)
	w.WriteByte('}')
}

func dumpVector(w *bufio.Writer, v trfile.Vector3) {
	fmt.Fprintf(w, "(%g, %g, %g)", v.X, v.Y, v.Z)
}

func dumpColor(w *bufio.Writer, c packed.ColorF) {
	b := c.Bytes()
	fmt.Fprintf(w, "#%02X%02X%02X%02X", b.R, b.G, b.B, b.A)
}

func dumpNewline(w *bufio.Writer, indent int) {
	w.WriteByte('\n')
	for i := 0; i < indent; i++ {
		w.WriteByte('\t')
	}
}

func dumpBytes(w *bufio.Writer, indent int, b []byte) {
	fmt.Fprintf(w, "(len:%d)", len(b))
	const width = 16
	for j := 0; j < len(b); j += width {
		dumpNewline(w, indent+1)
		w.WriteString("| ")
		for i := j; i < j+width; {
			if i < len(b) {
				s := strconv.FormatUint(uint64(b[i]), 16)
				if len(s) == 1 {
					w.WriteString("0")
				}
				w.WriteString(s)
			} else if len(b) < width {
				break
			} else {
				w.WriteString("  ")
			}
			i++
			if i%8 == 0 && i < j+width {
				w.WriteString("  ")
			} else {
				w.WriteString(" ")
			}
		}
		w.WriteString("|")
		n := len(b)
		if j+width < n {
			n = j + width
		}
		for i := j; i < n; i++ {
			if 32 <= b[i] && b[i] <= 126 {
				w.WriteRune(rune(b[i]))
			} else {
				w.WriteByte('.')
			}
		}
		w.WriteByte('|')
	}
}
