package level

import (
	"github.com/trlevel/trfile"
	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
	"github.com/trlevel/trfile/packed"
)

// shade describes how a packed 15-bit lighting value expands to a color.
type shade struct {
	layout  packed.Layout
	divisor float32
}

func (s shade) color(v int16) packed.ColorF {
	r, g, b := s.layout.Unpack(uint16(v), s.divisor)
	return packed.ColorF{R: r, G: g, B: b, A: 1}
}

var vertexShades = [trfile.GenerationCount]shade{
	trfile.Gen3: {packed.RGB555, packed.Divisor62},
	trfile.Gen4: {packed.RGB555, packed.Divisor31},
}

////////////////////////////////////////////////////////////////
// Vertices

var vertexCodecs = codecTable[trfile.RoomVertex]{
	name: "room vertex",
	codecs: [trfile.GenerationCount]recordCodec[trfile.RoomVertex]{
		trfile.Gen1:        {8, decodeVertex1, encodeVertex1},
		trfile.Gen1Variant: {8, decodeVertex1, encodeVertex1},
		trfile.Gen2:        {12, decodeVertex2, encodeVertex2},
		trfile.Gen3:        {12, decodeVertexShaded(vertexShades[trfile.Gen3]), encodeVertexShaded},
		trfile.Gen4:        {12, decodeVertexShaded(vertexShades[trfile.Gen4]), encodeVertexShaded},
		trfile.Gen5:        {28, decodeVertex5, encodeVertex5},
	},
}

func decodeVertex1(r *bin.Reader) (v trfile.RoomVertex) {
	v.Position = read16(r)
	v.Lighting1 = packed.InvertVertex(r.I16())
	v.Lighting2 = v.Lighting1
	v.Color = packed.GreyF(packed.Grey(float32(v.Lighting1), 32768))
	return v
}

func encodeVertex1(w *bin.Writer, v trfile.RoomVertex) {
	write16(w, v.Position)
	w.PutI16(packed.UninvertVertex(v.Lighting1))
}

func decodeVertex2(r *bin.Reader) (v trfile.RoomVertex) {
	v.Position = read16(r)
	v.Lighting1 = packed.InvertVertex(r.I16())
	v.Attributes = r.U16()
	v.Lighting2 = packed.InvertVertex(r.I16())
	v.Color = packed.GreyF(packed.Grey(float32(v.Lighting2), 32768))
	return v
}

func encodeVertex2(w *bin.Writer, v trfile.RoomVertex) {
	write16(w, v.Position)
	w.PutI16(packed.UninvertVertex(v.Lighting1))
	w.PutU16(v.Attributes)
	w.PutI16(packed.UninvertVertex(v.Lighting2))
}

func decodeVertexShaded(s shade) func(r *bin.Reader) trfile.RoomVertex {
	return func(r *bin.Reader) (v trfile.RoomVertex) {
		v.Position = read16(r)
		v.Lighting1 = r.I16()
		v.Attributes = r.U16()
		v.Lighting2 = r.I16()
		v.Color = s.color(v.Lighting2)
		return v
	}
}

func encodeVertexShaded(w *bin.Writer, v trfile.RoomVertex) {
	write16(w, v.Position)
	w.PutI16(v.Lighting1)
	w.PutU16(v.Attributes)
	w.PutI16(v.Lighting2)
}

func decodeVertex5(r *bin.Reader) (v trfile.RoomVertex) {
	v.Position = readF(r)
	v.Normal = readF(r)
	v.Color = readColor(r, true).Float()
	return v
}

func encodeVertex5(w *bin.Writer, v trfile.RoomVertex) {
	writeF(w, v.Position)
	writeF(w, v.Normal)
	writeColor(w, v.Color.Bytes(), true)
}

// DecodeVertex decodes a room vertex of generation g.
func DecodeVertex(r *bin.Reader, g trfile.Generation) (trfile.RoomVertex, error) {
	v := decodeRecord(&vertexCodecs, r, g)
	return v, r.Err()
}

// EncodeVertex encodes a room vertex of generation g.
func EncodeVertex(w *bin.Writer, g trfile.Generation, v trfile.RoomVertex) error {
	encodeRecord(&vertexCodecs, w, g, v)
	return w.Err()
}

////////////////////////////////////////////////////////////////
// Faces

// Room faces carry effects only in Gen5.
var quadCodecs = codecTable[trfile.Face]{
	name: "quad",
	codecs: [trfile.GenerationCount]recordCodec[trfile.Face]{
		trfile.Gen1:        faceCodec(4, false),
		trfile.Gen1Variant: faceCodec(4, false),
		trfile.Gen2:        faceCodec(4, false),
		trfile.Gen3:        faceCodec(4, false),
		trfile.Gen4:        faceCodec(4, false),
		trfile.Gen5:        faceCodec(4, true),
	},
}

var triangleCodecs = codecTable[trfile.Face]{
	name: "triangle",
	codecs: [trfile.GenerationCount]recordCodec[trfile.Face]{
		trfile.Gen1:        faceCodec(3, false),
		trfile.Gen1Variant: faceCodec(3, false),
		trfile.Gen2:        faceCodec(3, false),
		trfile.Gen3:        faceCodec(3, false),
		trfile.Gen4:        faceCodec(3, false),
		trfile.Gen5:        faceCodec(3, true),
	},
}

func faceCodec(corners int, effects bool) recordCodec[trfile.Face] {
	size := corners*2 + 2
	if effects {
		size += 2
	}
	return recordCodec[trfile.Face]{
		size: size,
		decode: func(r *bin.Reader) (f trfile.Face) {
			f.Vertices = bin.ReadArray[uint16](r, corners)
			f.Texture = r.U16()
			if effects {
				f.Effects = trfile.FaceEffects(r.U16())
			}
			return f
		},
		encode: func(w *bin.Writer, f trfile.Face) {
			if len(f.Vertices) != corners {
				w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "face has %d vertices, expected %d", len(f.Vertices), corners))
				return
			}
			if !effects && f.Effects != 0 {
				w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "face effects 0x%04X in a layout without effects", uint16(f.Effects)))
				return
			}
			bin.WriteArray(w, f.Vertices)
			w.PutU16(f.Texture)
			if effects {
				w.PutU16(uint16(f.Effects))
			}
		},
	}
}

// DecodeFace decodes a room face of generation g with the given number of
// corners, which must be 3 or 4.
func DecodeFace(r *bin.Reader, g trfile.Generation, corners int) (trfile.Face, error) {
	t, err := faceTable(corners)
	if r.Fail(err) {
		return trfile.Face{}, r.Err()
	}
	f := decodeRecord(t, r, g)
	return f, r.Err()
}

// EncodeFace encodes a room face of generation g.
func EncodeFace(w *bin.Writer, g trfile.Generation, f trfile.Face) error {
	t, err := faceTable(len(f.Vertices))
	if w.Fail(err) {
		return w.Err()
	}
	encodeRecord(t, w, g, f)
	return w.Err()
}

func faceTable(corners int) (*codecTable[trfile.Face], error) {
	switch corners {
	case 3:
		return &triangleCodecs, nil
	case 4:
		return &quadCodecs, nil
	}
	return nil, errors.Wrapf(errors.ErrCorruptRecord, "face with %d corners", corners)
}

////////////////////////////////////////////////////////////////
// Sprites

var spriteCodec = recordCodec[trfile.Sprite]{
	size: 4,
	decode: func(r *bin.Reader) (s trfile.Sprite) {
		s.Vertex = r.I16()
		s.Texture = r.I16()
		return s
	},
	encode: func(w *bin.Writer, s trfile.Sprite) {
		w.PutI16(s.Vertex)
		w.PutI16(s.Texture)
	},
}

var spriteCodecs = codecTable[trfile.Sprite]{
	name: "sprite",
	codecs: [trfile.GenerationCount]recordCodec[trfile.Sprite]{
		trfile.Gen1:        spriteCodec,
		trfile.Gen1Variant: spriteCodec,
		trfile.Gen2:        spriteCodec,
		trfile.Gen3:        spriteCodec,
		trfile.Gen4:        spriteCodec,
		trfile.Gen5:        spriteCodec,
	},
}

////////////////////////////////////////////////////////////////

func readColor(r *bin.Reader, alpha bool) packed.Color {
	c := packed.Color{R: r.U8(), G: r.U8(), B: r.U8(), A: packed.Opaque}
	if alpha {
		c.A = r.U8()
	}
	return c
}

func writeColor(w *bin.Writer, c packed.Color, alpha bool) {
	w.PutU8(c.R)
	w.PutU8(c.G)
	w.PutU8(c.B)
	if alpha {
		w.PutU8(c.A)
	}
}
