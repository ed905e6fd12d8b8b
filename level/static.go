package level

import (
	"github.com/trlevel/trfile"
	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/packed"
)

var staticShades = [trfile.GenerationCount]shade{
	trfile.Gen3: {packed.BGR555, packed.Divisor62},
	trfile.Gen4: {packed.BGR555, packed.Divisor31},
	trfile.Gen5: {packed.BGR555, packed.Divisor31},
}

var staticMeshCodecs = codecTable[trfile.RoomStaticMesh]{
	name: "static mesh",
	codecs: [trfile.GenerationCount]recordCodec[trfile.RoomStaticMesh]{
		trfile.Gen1:        {18, decodeStatic1, encodeStatic1},
		trfile.Gen1Variant: {18, decodeStatic1, encodeStatic1},
		trfile.Gen2:        {20, decodeStatic2, encodeStatic2},
		trfile.Gen3:        {20, decodeStaticShaded(staticShades[trfile.Gen3]), encodeStaticShaded},
		trfile.Gen4:        {20, decodeStaticShaded(staticShades[trfile.Gen4]), encodeStaticShaded},
		trfile.Gen5:        {20, decodeStaticShaded(staticShades[trfile.Gen5]), encodeStaticShaded},
	},
}

func decodeStatic1(r *bin.Reader) (m trfile.RoomStaticMesh) {
	m.Position = read32(r)
	m.Rotation = packed.RotationToDegrees(r.U16())
	m.Intensity1 = packed.InvertSigned(r.I16())
	m.Intensity2 = m.Intensity1
	m.ObjectID = r.U16()
	m.Tint = packed.GreyF(packed.Grey(float32(m.Intensity2), 16384))
	return m
}

func encodeStatic1(w *bin.Writer, m trfile.RoomStaticMesh) {
	write32(w, m.Position)
	w.PutU16(packed.DegreesToRotation(m.Rotation))
	w.PutI16(packed.UninvertSigned(m.Intensity1))
	w.PutU16(m.ObjectID)
}

func decodeStatic2(r *bin.Reader) (m trfile.RoomStaticMesh) {
	m.Position = read32(r)
	m.Rotation = packed.RotationToDegrees(r.U16())
	m.Intensity1 = packed.InvertSigned(r.I16())
	m.Intensity2 = packed.InvertSigned(r.I16())
	m.ObjectID = r.U16()
	m.Tint = packed.GreyF(packed.Grey(float32(m.Intensity2), 16384))
	return m
}

func encodeStatic2(w *bin.Writer, m trfile.RoomStaticMesh) {
	write32(w, m.Position)
	w.PutU16(packed.DegreesToRotation(m.Rotation))
	w.PutI16(packed.UninvertSigned(m.Intensity1))
	w.PutI16(packed.UninvertSigned(m.Intensity2))
	w.PutU16(m.ObjectID)
}

// From Gen3 the intensities are stored as is, and the first is a packed
// color.
func decodeStaticShaded(s shade) func(r *bin.Reader) trfile.RoomStaticMesh {
	return func(r *bin.Reader) (m trfile.RoomStaticMesh) {
		m.Position = read32(r)
		m.Rotation = packed.RotationToDegrees(r.U16())
		m.Intensity1 = r.I16()
		m.Intensity2 = r.I16()
		m.ObjectID = r.U16()
		m.Tint = s.color(m.Intensity1)
		return m
	}
}

func encodeStaticShaded(w *bin.Writer, m trfile.RoomStaticMesh) {
	write32(w, m.Position)
	w.PutU16(packed.DegreesToRotation(m.Rotation))
	w.PutI16(m.Intensity1)
	w.PutI16(m.Intensity2)
	w.PutU16(m.ObjectID)
}

// DecodeStaticMesh decodes a room static mesh of generation g.
func DecodeStaticMesh(r *bin.Reader, g trfile.Generation) (trfile.RoomStaticMesh, error) {
	m := decodeRecord(&staticMeshCodecs, r, g)
	return m, r.Err()
}

// EncodeStaticMesh encodes a room static mesh of generation g.
func EncodeStaticMesh(w *bin.Writer, g trfile.Generation, m trfile.RoomStaticMesh) error {
	encodeRecord(&staticMeshCodecs, w, g, m)
	return w.Err()
}
