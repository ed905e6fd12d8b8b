package level

import (
	"github.com/trlevel/trfile"
	"github.com/trlevel/trfile/bin"
)

var sectorCodec = recordCodec[trfile.Sector]{
	size: 8,
	decode: func(r *bin.Reader) (s trfile.Sector) {
		s.FloorDataIndex = r.U16()
		s.BoxIndex = r.U16()
		s.RoomBelow = r.U8()
		s.Floor = r.I8()
		s.RoomAbove = r.U8()
		s.Ceiling = r.I8()
		return s
	},
	encode: func(w *bin.Writer, s trfile.Sector) {
		w.PutU16(s.FloorDataIndex)
		w.PutU16(s.BoxIndex)
		w.PutU8(s.RoomBelow)
		w.PutI8(s.Floor)
		w.PutU8(s.RoomAbove)
		w.PutI8(s.Ceiling)
	},
}

var sectorCodecs = codecTable[trfile.Sector]{
	name: "sector",
	codecs: [trfile.GenerationCount]recordCodec[trfile.Sector]{
		trfile.Gen1:        sectorCodec,
		trfile.Gen1Variant: sectorCodec,
		trfile.Gen2:        sectorCodec,
		trfile.Gen3:        sectorCodec,
		trfile.Gen4:        sectorCodec,
		trfile.Gen5:        sectorCodec,
	},
}

// DecodeSector decodes a sector of generation g.
func DecodeSector(r *bin.Reader, g trfile.Generation) (trfile.Sector, error) {
	s := decodeRecord(&sectorCodecs, r, g)
	return s, r.Err()
}

// EncodeSector encodes a sector of generation g.
func EncodeSector(w *bin.Writer, g trfile.Generation, s trfile.Sector) error {
	encodeRecord(&sectorCodecs, w, g, s)
	return w.Err()
}

////////////////////////////////////////////////////////////////

var portalCodec = recordCodec[trfile.Portal]{
	size: 32,
	decode: func(r *bin.Reader) (p trfile.Portal) {
		p.AdjoiningRoom = r.U16()
		p.Normal = read16(r)
		for i := range p.Vertices {
			p.Vertices[i] = read16(r)
		}
		return p
	},
	encode: func(w *bin.Writer, p trfile.Portal) {
		w.PutU16(p.AdjoiningRoom)
		write16(w, p.Normal)
		for _, v := range p.Vertices {
			write16(w, v)
		}
	},
}

var portalCodecs = codecTable[trfile.Portal]{
	name: "portal",
	codecs: [trfile.GenerationCount]recordCodec[trfile.Portal]{
		trfile.Gen1:        portalCodec,
		trfile.Gen1Variant: portalCodec,
		trfile.Gen2:        portalCodec,
		trfile.Gen3:        portalCodec,
		trfile.Gen4:        portalCodec,
		trfile.Gen5:        portalCodec,
	},
}

// DecodePortal decodes a portal of generation g.
func DecodePortal(r *bin.Reader, g trfile.Generation) (trfile.Portal, error) {
	p := decodeRecord(&portalCodecs, r, g)
	return p, r.Err()
}

// EncodePortal encodes a portal of generation g.
func EncodePortal(w *bin.Writer, g trfile.Generation, p trfile.Portal) error {
	encodeRecord(&portalCodecs, w, g, p)
	return w.Err()
}
