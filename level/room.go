package level

import (
	"github.com/trlevel/trfile"
	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
	"github.com/trlevel/trfile/packed"
)

// roomCodec decodes and encodes a whole room. Unlike a recordCodec, the
// decoder may report warnings.
type roomCodec struct {
	decode func(r *bin.Reader, warn *errors.Errors) *trfile.Room
	encode func(w *bin.Writer, room *trfile.Room)
}

var roomCodecs = [trfile.GenerationCount]roomCodec{
	trfile.Gen1:        classicRoom(trfile.Gen1),
	trfile.Gen1Variant: classicRoom(trfile.Gen1Variant),
	trfile.Gen2:        classicRoom(trfile.Gen2),
	trfile.Gen3:        classicRoom(trfile.Gen3),
	trfile.Gen4:        classicRoom(trfile.Gen4),
	trfile.Gen5:        {decodeRoom5, encodeRoom5},
}

func getRoomCodec(g trfile.Generation) (c roomCodec, err error) {
	if g.Valid() {
		if c = roomCodecs[g]; c.decode != nil && c.encode != nil {
			return c, nil
		}
	}
	return c, errors.GenerationError{Record: "room", Generation: g}
}

func decodeRoom(r *bin.Reader, g trfile.Generation, warn *errors.Errors) *trfile.Room {
	c, err := getRoomCodec(g)
	if r.Fail(err) {
		return nil
	}
	return c.decode(r, warn)
}

func encodeRoom(w *bin.Writer, g trfile.Generation, room *trfile.Room) {
	c, err := getRoomCodec(g)
	if w.Fail(err) {
		return
	}
	if room == nil {
		w.Fail(errors.New("nil room"))
		return
	}
	c.encode(w, room)
}

////////////////////////////////////////////////////////////////

// roomParts holds the parts of a Gen1 to Gen4 room that vary by generation.
type roomParts struct {
	// Ambient intensities, following the sectors.
	decodeAmbient func(r *bin.Reader, room *trfile.Room)
	encodeAmbient func(w *bin.Writer, room *trfile.Room)
	// Fields following the flags.
	decodeTail func(r *bin.Reader, room *trfile.Room)
	encodeTail func(w *bin.Writer, room *trfile.Room)
	// Derives the room light color from the ambient intensities.
	lightColor func(room *trfile.Room) packed.ColorF
}

var gen1Parts = roomParts{
	decodeAmbient: func(r *bin.Reader, room *trfile.Room) {
		room.Intensity1 = packed.InvertVertex(r.I16())
		room.Intensity2 = room.Intensity1
	},
	encodeAmbient: func(w *bin.Writer, room *trfile.Room) {
		w.PutI16(packed.UninvertVertex(room.Intensity1))
	},
	decodeTail: func(r *bin.Reader, room *trfile.Room) {
		room.Reverb = trfile.ReverbMedium
	},
	encodeTail: func(w *bin.Writer, room *trfile.Room) {},
	lightColor: func(room *trfile.Room) packed.ColorF {
		return packed.GreyF(packed.Grey(float32(room.Intensity1), 32767))
	},
}

var classicParts = [trfile.GenerationCount]roomParts{
	trfile.Gen1:        gen1Parts,
	trfile.Gen1Variant: gen1Parts,
	trfile.Gen2: {
		decodeAmbient: func(r *bin.Reader, room *trfile.Room) {
			room.Intensity1 = packed.InvertVertex(r.I16())
			room.Intensity2 = packed.InvertVertex(r.I16())
			room.LightMode = r.I16()
		},
		encodeAmbient: func(w *bin.Writer, room *trfile.Room) {
			w.PutI16(packed.UninvertVertex(room.Intensity1))
			w.PutI16(packed.UninvertVertex(room.Intensity2))
			w.PutI16(room.LightMode)
		},
		decodeTail: func(r *bin.Reader, room *trfile.Room) {
			if room.Flags.Has(trfile.RoomWind) {
				room.Reverb = trfile.ReverbOutside
			} else {
				room.Reverb = trfile.ReverbMedium
			}
		},
		encodeTail: func(w *bin.Writer, room *trfile.Room) {},
		lightColor: func(room *trfile.Room) packed.ColorF {
			return packed.GreyF(packed.Grey(float32(room.Intensity1), 16384))
		},
	},
	trfile.Gen3: {
		decodeAmbient: decodeAmbientRaw,
		encodeAmbient: encodeAmbientRaw,
		decodeTail: func(r *bin.Reader, room *trfile.Room) {
			room.WaterScheme = uint16(r.U8())
			room.Reverb = trfile.ReverbType(r.U8())
			room.Filler = r.U8()
		},
		encodeTail: func(w *bin.Writer, room *trfile.Room) {
			if !putWaterScheme(w, room.WaterScheme) {
				return
			}
			w.PutU8(uint8(room.Reverb))
			w.PutU8(room.Filler)
		},
		lightColor: func(room *trfile.Room) packed.ColorF {
			return packed.GreyF(packed.Grey(float32(room.Intensity1), 65534))
		},
	},
	trfile.Gen4: {
		decodeAmbient: decodeAmbientRaw,
		encodeAmbient: encodeAmbientRaw,
		decodeTail: func(r *bin.Reader, room *trfile.Room) {
			room.WaterScheme = uint16(r.U8())
			room.Reverb = trfile.ReverbType(r.U8())
			room.AlternateGroup = r.I8()
		},
		encodeTail: func(w *bin.Writer, room *trfile.Room) {
			if !putWaterScheme(w, room.WaterScheme) {
				return
			}
			w.PutU8(uint8(room.Reverb))
			w.PutI8(room.AlternateGroup)
		},
		lightColor: func(room *trfile.Room) packed.ColorF {
			i1, i2 := uint16(room.Intensity1), uint16(room.Intensity2)
			return packed.Color{
				R: uint8(i2),
				G: uint8(i1 >> 8),
				B: uint8(i1),
				A: uint8(i2 >> 8),
			}.Float()
		},
	},
}

func decodeAmbientRaw(r *bin.Reader, room *trfile.Room) {
	room.Intensity1 = r.I16()
	room.Intensity2 = r.I16()
}

func encodeAmbientRaw(w *bin.Writer, room *trfile.Room) {
	w.PutI16(room.Intensity1)
	w.PutI16(room.Intensity2)
}

func putWaterScheme(w *bin.Writer, v uint16) bool {
	if v > 0xFF {
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "water scheme %d overflows byte", v))
		return false
	}
	w.PutU8(uint8(v))
	return true
}

func classicRoom(g trfile.Generation) roomCodec {
	return roomCodec{
		decode: func(r *bin.Reader, warn *errors.Errors) *trfile.Room {
			return decodeClassicRoom(r, g, classicParts[g])
		},
		encode: func(w *bin.Writer, room *trfile.Room) {
			encodeClassicRoom(w, g, classicParts[g], room)
		},
	}
}

func decodeClassicRoom(r *bin.Reader, g trfile.Generation, parts roomParts) *trfile.Room {
	room := &trfile.Room{}
	x := r.I32()
	z := r.I32()
	room.Offset = trfile.Vector3{X: float32(x), Z: -float32(z)}
	room.YBottom = -float32(r.I32())
	room.YTop = -float32(r.I32())

	words := r.U32()
	start := r.Pos()
	room.Vertices = decodeRecords(&vertexCodecs, r, g, int(r.U16()))
	room.Quads = decodeRecords(&quadCodecs, r, g, int(r.U16()))
	room.Triangles = decodeRecords(&triangleCodecs, r, g, int(r.U16()))
	room.Sprites = decodeRecords(&spriteCodecs, r, g, int(r.U16()))
	if pad := r.SkipTo(start + int64(words)*2); len(pad) > 0 {
		room.GeometryPadding = pad
	}

	room.Portals = decodeRecords(&portalCodecs, r, g, int(r.U16()))
	room.NumZ = r.U16()
	room.NumX = r.U16()
	room.Sectors = decodeRecords(&sectorCodecs, r, g, int(room.NumZ)*int(room.NumX))

	parts.decodeAmbient(r, room)
	room.Lights = decodeRecords(&lightCodecs, r, g, int(r.U16()))
	room.StaticMeshes = decodeRecords(&staticMeshCodecs, r, g, int(r.U16()))
	room.AlternateRoom = r.I16()
	room.Flags = trfile.RoomFlags(r.U16())
	parts.decodeTail(r, room)
	if r.Err() != nil {
		return nil
	}
	room.LightColor = parts.lightColor(room)
	return room
}

func encodeClassicRoom(w *bin.Writer, g trfile.Generation, parts roomParts, room *trfile.Room) {
	w.PutI32(int32(room.Offset.X))
	w.PutI32(int32(-room.Offset.Z))
	w.PutI32(int32(-room.YBottom))
	w.PutI32(int32(-room.YTop))

	geo := bin.NewWriter()
	bin.PutCount[uint16](geo, len(room.Vertices))
	encodeRecords(&vertexCodecs, geo, g, room.Vertices)
	bin.PutCount[uint16](geo, len(room.Quads))
	encodeRecords(&quadCodecs, geo, g, room.Quads)
	bin.PutCount[uint16](geo, len(room.Triangles))
	encodeRecords(&triangleCodecs, geo, g, room.Triangles)
	bin.PutCount[uint16](geo, len(room.Sprites))
	encodeRecords(&spriteCodecs, geo, g, room.Sprites)
	geo.PutBytes(room.GeometryPadding)
	b, err := geo.Bytes()
	if w.Fail(err) {
		return
	}
	if len(b)%2 != 0 {
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "geometry length %d is not a whole number of words", len(b)))
		return
	}
	w.PutU32(uint32(len(b) / 2))
	w.PutBytes(b)

	bin.PutCount[uint16](w, len(room.Portals))
	encodeRecords(&portalCodecs, w, g, room.Portals)
	if !checkSectorGrid(w, room) {
		return
	}
	w.PutU16(room.NumZ)
	w.PutU16(room.NumX)
	encodeRecords(&sectorCodecs, w, g, room.Sectors)

	parts.encodeAmbient(w, room)
	bin.PutCount[uint16](w, len(room.Lights))
	encodeRecords(&lightCodecs, w, g, room.Lights)
	bin.PutCount[uint16](w, len(room.StaticMeshes))
	encodeRecords(&staticMeshCodecs, w, g, room.StaticMeshes)
	w.PutI16(room.AlternateRoom)
	w.PutU16(uint16(room.Flags))
	parts.encodeTail(w, room)
}

// checkSectorGrid checks that the sectors of room fill its grid.
func checkSectorGrid(w *bin.Writer, room *trfile.Room) bool {
	if n := int(room.NumZ) * int(room.NumX); n != len(room.Sectors) {
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "%d sectors for a %dx%d grid", len(room.Sectors), room.NumZ, room.NumX))
		return false
	}
	return true
}
