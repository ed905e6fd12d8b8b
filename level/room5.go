package level

import (
	"fmt"

	"github.com/trlevel/trfile"
	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
	"github.com/trlevel/trfile/packed"
)

const (
	// "XELA" read as a little-endian uint32.
	room5Marker = 0x414C4558
	// Size of the header that follows the room data size. Section offsets
	// are relative to the end of the header.
	room5HeaderSize = 208
	layerSize       = 56
	// Counts above these limits are reported as warnings.
	room5MaxObjects   = 512
	room5MaxTriangles = 512
	room5MaxQuads     = 1024

	filler16 = 0x00007FFF
	filler32 = 0xFFFFFFFF
)

// Header of a room that has no RoomInfo5.
var defaultInfo5 = trfile.RoomInfo5{
	Fillers: [3]uint32{filler16, filler16, filler32},
}

// expectEither fails unless v is 0 or the 32-bit marker.
func expectEither(r *bin.Reader, name string) uint32 {
	off := r.Pos()
	v := r.U32()
	if r.Err() == nil && v != 0 && v != marker32 {
		r.FailAt(off, MarkerError{Name: name, Expected: marker32, Got: v})
	}
	return v
}

// unsetCount reads a face count, where the marker stands for zero.
func unsetCount(r *bin.Reader) (n uint32, unset bool) {
	if n = r.U32(); n == marker32 {
		return 0, true
	}
	return n, false
}

// warnCount appends a warning to warn if the count n read at off exceeds max.
func warnCount(warn *errors.Errors, off int64, name string, n, max int) {
	if n > max {
		*warn = warn.Append(errors.DataError{
			Offset: off,
			Cause:  fmt.Errorf("%s: implausible count %d", name, n),
		})
	}
}

// fork returns a reader positioned at a section offset of a Gen5 room.
func fork(r *bin.Reader, base int64, off uint32) *bin.Reader {
	return r.Fork(base + int64(off))
}

// join propagates the error of a forked reader to r.
func join(r, f *bin.Reader) bool {
	return r.Fail(f.Err())
}

func decodeRoom5(r *bin.Reader, warn *errors.Errors) *trfile.Room {
	const g = trfile.Gen5

	expect32(r, "room marker", room5Marker)
	size := r.U32()
	if r.Err() != nil {
		return nil
	}
	if int64(size) > int64(r.Remaining()) {
		r.Fail(errors.ErrTruncatedInput)
		return nil
	}
	b := r.Sub(int(size))
	base := b.Pos() + room5HeaderSize

	room := &trfile.Room{
		Intensity1: 32767,
		Intensity2: 32767,
		Info5:      &trfile.RoomInfo5{},
	}
	info := room.Info5

	expect32(b, "separator 1", marker32)
	portalOffset := b.I32()
	sectorOffset := b.U32()
	info.Separators[0] = expectEither(b, "separator 2")
	staticOffset := b.U32()

	x := b.I32()
	y := b.U32()
	z := b.I32()
	room.Offset = trfile.Vector3{X: float32(x), Y: float32(y), Z: -float32(z)}
	room.YBottom = -float32(b.I32())
	room.YTop = -float32(b.I32())
	room.NumZ = b.U16()
	room.NumX = b.U16()

	c := readColor(b, true)
	room.LightColor = packed.Color{R: c.B, G: c.G, B: c.R, A: c.A}.Float()

	off := b.Pos()
	numLights := int(b.U16())
	warnCount(warn, off, "lights", numLights, room5MaxObjects)
	numStatics := int(b.U16())
	warnCount(warn, off+2, "static meshes", numStatics, room5MaxObjects)

	room.Reverb = trfile.ReverbType(b.U8())
	room.AlternateGroup = b.I8()
	room.WaterScheme = b.U16()

	info.Fillers[0] = check(warn, b, "filler 1", filler16)
	info.Fillers[1] = check(warn, b, "filler 2", filler16)
	expect32(b, "separator 4", marker32)
	expect32(b, "separator 5", marker32)
	info.Fillers[2] = check(warn, b, "filler 3", filler32)

	room.AlternateRoom = b.I16()
	room.Flags = trfile.RoomFlags(b.U16())
	info.UnknownR1 = b.U32()
	info.UnknownR2 = b.U32()
	info.UnknownR3 = b.U32()
	info.Separators[1] = expectEither(b, "separator 7")
	info.UnknownR4a = b.U16()
	info.UnknownR4b = b.U16()
	info.RoomX = b.F32()
	info.UnknownR5 = b.U32()
	info.RoomZ = -b.F32()

	for _, name := range []string{"separator 8", "separator 9", "separator 10", "separator 11"} {
		expect32(b, name, marker32)
	}
	info.Separators[2] = expectEither(b, "separator 12")
	expect32(b, "separator 13", marker32)

	off = b.Pos()
	numTriangles, unsetTriangles := unsetCount(b)
	warnCount(warn, off, "triangles", int(numTriangles), room5MaxTriangles)
	numQuads, unsetQuads := unsetCount(b)
	warnCount(warn, off+4, "quads", int(numQuads), room5MaxQuads)
	info.UnsetTriangleCount = unsetTriangles
	info.UnsetQuadCount = unsetQuads

	info.Separator14 = check(warn, b, "separator 14", 0)
	if lightSize := b.U32(); b.Err() == nil && lightSize != uint32(numLights*light5Size) {
		b.Fail(errors.Wrapf(errors.ErrCorruptRecord, "light size %d does not match %d lights", lightSize, numLights))
	}
	if numLights2 := b.U32(); b.Err() == nil && int(numLights2) != numLights {
		b.Fail(errors.Wrapf(errors.ErrCorruptRecord, "light count %d does not match %d", numLights2, numLights))
	}
	info.UnknownR6 = b.U32()
	info.RoomYTop = -b.F32()
	info.RoomYBottom = -b.F32()

	numLayers := b.U32()
	layerOffset := b.U32()
	vertexOffset := b.U32()
	polyOffset := b.U32()
	if polyOffset2 := b.U32(); b.Err() == nil && polyOffset2 != polyOffset {
		b.Fail(errors.Wrapf(errors.ErrCorruptRecord, "polygon offsets %d and %d differ", polyOffset, polyOffset2))
	}
	vertexSize := b.U32()
	if b.Err() == nil && vertexSize%28 != 0 {
		b.Fail(errors.Wrapf(errors.ErrCorruptRecord, "vertex size %d is not a multiple of 28", vertexSize))
	}
	for _, name := range []string{"separator 15", "separator 16", "separator 17", "separator 18"} {
		expect32(b, name, marker32)
	}
	if r.Fail(b.Err()) {
		return nil
	}

	room.Lights = decodeRecords(&lightCodecs, b, g, numLights)
	if r.Fail(b.Err()) {
		return nil
	}

	s := fork(b, base, sectorOffset)
	room.Sectors = decodeRecords(&sectorCodecs, s, g, int(room.NumZ)*int(room.NumX))
	if s.Err() == nil && s.Pos()-base != int64(portalOffset) {
		s.Fail(errors.Wrapf(errors.ErrCorruptRecord, "portals at %d, expected %d", portalOffset, s.Pos()-base))
	}
	numPortals := s.I16()
	if s.Err() == nil && numPortals < 0 {
		s.Fail(errors.Wrapf(errors.ErrCorruptRecord, "negative portal count %d", numPortals))
	}
	room.Portals = decodeRecords(&portalCodecs, s, g, int(numPortals))
	if join(r, s) {
		return nil
	}

	s = fork(b, base, staticOffset)
	room.StaticMeshes = decodeRecords(&staticMeshCodecs, s, g, numStatics)
	if join(r, s) {
		return nil
	}

	s = fork(b, base, layerOffset)
	room.Layers = decodeLayers(s, int(numLayers), warn)
	if join(r, s) {
		return nil
	}

	var nv, nq, nt int
	for _, l := range room.Layers {
		nv += int(l.NumVertices)
		nq += int(l.NumQuads)
		nt += int(l.NumTriangles)
	}
	switch {
	case nv != int(vertexSize/28):
		r.Fail(errors.Wrapf(errors.ErrCorruptRecord, "layers hold %d vertices, expected %d", nv, vertexSize/28))
	case nq != int(numQuads):
		r.Fail(errors.Wrapf(errors.ErrCorruptRecord, "layers hold %d quads, expected %d", nq, numQuads))
	case nt != int(numTriangles):
		r.Fail(errors.Wrapf(errors.ErrCorruptRecord, "layers hold %d triangles, expected %d", nt, numTriangles))
	}
	if r.Err() != nil {
		return nil
	}

	s = fork(b, base, polyOffset)
	room.Quads, room.Triangles = decodeLayerFaces(s, room.Layers, nq, nt)
	if join(r, s) {
		return nil
	}

	s = fork(b, base, vertexOffset)
	room.Vertices = decodeRecords(&vertexCodecs, s, g, nv)
	if join(r, s) {
		return nil
	}
	return room
}

// decodeLayerFaces reads the faces of each layer, quads first. Stored vertex
// indices are relative to the first vertex of the layer.
func decodeLayerFaces(r *bin.Reader, layers []trfile.Layer, nq, nt int) (quads, tris []trfile.Face) {
	const g = trfile.Gen5
	if nq > 0 {
		quads = make([]trfile.Face, 0, nq)
	}
	if nt > 0 {
		tris = make([]trfile.Face, 0, nt)
	}
	var base uint16
	for _, l := range layers {
		q := decodeRecords(&quadCodecs, r, g, int(l.NumQuads))
		t := decodeRecords(&triangleCodecs, r, g, int(l.NumTriangles))
		if r.Err() != nil {
			return nil, nil
		}
		quads = append(quads, offsetFaces(q, base)...)
		tris = append(tris, offsetFaces(t, base)...)
		base += l.NumVertices
	}
	return quads, tris
}

func offsetFaces(faces []trfile.Face, base uint16) []trfile.Face {
	for _, f := range faces {
		for i := range f.Vertices {
			f.Vertices[i] += base
		}
	}
	return faces
}

func decodeLayers(r *bin.Reader, n int, warn *errors.Errors) []trfile.Layer {
	if n*layerSize > r.Remaining() {
		r.Fail(errors.ErrTruncatedInput)
		return nil
	}
	if n == 0 {
		return nil
	}
	layers := make([]trfile.Layer, n)
	for i := range layers {
		l := &layers[i]
		l.NumVertices = r.U16()
		l.UnknownL1 = r.U16()
		l.UnknownL2 = r.U16()
		l.NumQuads = r.U16()
		l.NumTriangles = r.U16()
		l.UnknownL3 = r.U16()
		l.Filler1 = check16(warn, r, "layer filler 1", 0)
		l.Filler2 = check16(warn, r, "layer filler 2", 0)
		l.BoundingBox.Min = readF(r)
		l.BoundingBox.Max = readF(r)
		l.Filler3 = check(warn, r, "layer filler 3", 0)
		l.UnknownL4 = r.U32()
		l.UnknownL5 = r.U32()
		l.UnknownL6 = r.U32()
	}
	if r.Err() != nil {
		return nil
	}
	return layers
}

func encodeLayer(w *bin.Writer, l trfile.Layer) {
	w.PutU16(l.NumVertices)
	w.PutU16(l.UnknownL1)
	w.PutU16(l.UnknownL2)
	w.PutU16(l.NumQuads)
	w.PutU16(l.NumTriangles)
	w.PutU16(l.UnknownL3)
	w.PutU16(l.Filler1)
	w.PutU16(l.Filler2)
	writeF(w, l.BoundingBox.Min)
	writeF(w, l.BoundingBox.Max)
	w.PutU32(l.Filler3)
	w.PutU32(l.UnknownL4)
	w.PutU32(l.UnknownL5)
	w.PutU32(l.UnknownL6)
}

////////////////////////////////////////////////////////////////

func encodeRoom5(w *bin.Writer, room *trfile.Room) {
	const g = trfile.Gen5

	info := room.Info5
	if info == nil {
		info = &defaultInfo5
	}
	for i, v := range info.Separators {
		if v != 0 && v != marker32 {
			w.Fail(MarkerError{Name: fmt.Sprintf("separator %d", [3]int{2, 7, 12}[i]), Expected: marker32, Got: v})
			return
		}
	}
	if !checkSectorGrid(w, room) {
		return
	}

	var nv, nq, nt int
	for _, l := range room.Layers {
		nv += int(l.NumVertices)
		nq += int(l.NumQuads)
		nt += int(l.NumTriangles)
	}
	switch {
	case nv != len(room.Vertices):
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "layers hold %d vertices, room has %d", nv, len(room.Vertices)))
	case nq != len(room.Quads):
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "layers hold %d quads, room has %d", nq, len(room.Quads)))
	case nt != len(room.Triangles):
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "layers hold %d triangles, room has %d", nt, len(room.Triangles)))
	}
	if w.Err() != nil {
		return
	}

	// Sections, in order of offset.
	d := bin.NewWriter()
	encodeRecords(&lightCodecs, d, g, room.Lights)
	sectorOffset := d.Len()
	encodeRecords(&sectorCodecs, d, g, room.Sectors)
	portalOffset := d.Len()
	if len(room.Portals) > 0x7FFF {
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "count %d overflows field", len(room.Portals)))
		return
	}
	d.PutI16(int16(len(room.Portals)))
	encodeRecords(&portalCodecs, d, g, room.Portals)
	staticOffset := d.Len()
	encodeRecords(&staticMeshCodecs, d, g, room.StaticMeshes)
	layerOffset := d.Len()
	for _, l := range room.Layers {
		encodeLayer(d, l)
	}
	polyOffset := d.Len()
	encodeLayerFaces(d, room)
	vertexOffset := d.Len()
	encodeRecords(&vertexCodecs, d, g, room.Vertices)
	data, err := d.Bytes()
	if w.Fail(err) {
		return
	}

	h := bin.NewWriter()
	h.PutU32(marker32)
	h.PutI32(int32(portalOffset))
	h.PutU32(uint32(sectorOffset))
	h.PutU32(info.Separators[0])
	h.PutU32(uint32(staticOffset))

	h.PutI32(int32(room.Offset.X))
	h.PutU32(uint32(int64(room.Offset.Y)))
	h.PutI32(int32(-room.Offset.Z))
	h.PutI32(int32(-room.YBottom))
	h.PutI32(int32(-room.YTop))
	h.PutU16(room.NumZ)
	h.PutU16(room.NumX)

	c := room.LightColor.Bytes()
	writeColor(h, packed.Color{R: c.B, G: c.G, B: c.R, A: c.A}, true)

	bin.PutCount[uint16](h, len(room.Lights))
	bin.PutCount[uint16](h, len(room.StaticMeshes))
	h.PutU8(uint8(room.Reverb))
	h.PutI8(room.AlternateGroup)
	h.PutU16(room.WaterScheme)

	h.PutU32(info.Fillers[0])
	h.PutU32(info.Fillers[1])
	h.PutU32(marker32)
	h.PutU32(marker32)
	h.PutU32(info.Fillers[2])

	h.PutI16(room.AlternateRoom)
	h.PutU16(uint16(room.Flags))
	h.PutU32(info.UnknownR1)
	h.PutU32(info.UnknownR2)
	h.PutU32(info.UnknownR3)
	h.PutU32(info.Separators[1])
	h.PutU16(info.UnknownR4a)
	h.PutU16(info.UnknownR4b)
	h.PutF32(info.RoomX)
	h.PutU32(info.UnknownR5)
	h.PutF32(-info.RoomZ)

	for i := 0; i < 4; i++ {
		h.PutU32(marker32)
	}
	h.PutU32(info.Separators[2])
	h.PutU32(marker32)

	putUnsetCount(h, len(room.Triangles), info.UnsetTriangleCount)
	putUnsetCount(h, len(room.Quads), info.UnsetQuadCount)

	h.PutU32(info.Separator14)
	h.PutU32(uint32(len(room.Lights) * light5Size))
	h.PutU32(uint32(len(room.Lights)))
	h.PutU32(info.UnknownR6)
	h.PutF32(-info.RoomYTop)
	h.PutF32(-info.RoomYBottom)

	h.PutU32(uint32(len(room.Layers)))
	h.PutU32(uint32(layerOffset))
	h.PutU32(uint32(vertexOffset))
	h.PutU32(uint32(polyOffset))
	h.PutU32(uint32(polyOffset))
	h.PutU32(uint32(len(data) - int(vertexOffset)))
	for i := 0; i < 4; i++ {
		h.PutU32(marker32)
	}
	h.PutBytes(data)
	body, err := h.Bytes()
	if w.Fail(err) {
		return
	}

	w.PutU32(room5Marker)
	w.PutU32(uint32(len(body)))
	w.PutBytes(body)
}

func putUnsetCount(w *bin.Writer, n int, unset bool) {
	if n == 0 && unset {
		w.PutU32(marker32)
		return
	}
	bin.PutCount[uint32](w, n)
}

func encodeLayerFaces(w *bin.Writer, room *trfile.Room) {
	const g = trfile.Gen5
	var base uint16
	var qi, ti int
	for _, l := range room.Layers {
		for _, f := range room.Quads[qi : qi+int(l.NumQuads)] {
			encodeRecord(&quadCodecs, w, g, unoffsetFace(w, f, base))
		}
		for _, f := range room.Triangles[ti : ti+int(l.NumTriangles)] {
			encodeRecord(&triangleCodecs, w, g, unoffsetFace(w, f, base))
		}
		if w.Err() != nil {
			return
		}
		qi += int(l.NumQuads)
		ti += int(l.NumTriangles)
		base += l.NumVertices
	}
}

// unoffsetFace returns a copy of f with vertex indices relative to a layer.
func unoffsetFace(w *bin.Writer, f trfile.Face, base uint16) trfile.Face {
	c := f
	c.Vertices = make([]uint16, len(f.Vertices))
	for i, v := range f.Vertices {
		if v < base {
			w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "face vertex %d precedes layer", v))
			return f
		}
		c.Vertices[i] = v - base
	}
	return c
}
