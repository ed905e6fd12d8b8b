package level

import (
	"github.com/chewxy/math32"
	"github.com/trlevel/trfile"
	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
	"github.com/trlevel/trfile/packed"
)

// Size of a Gen5 light. Also used to check the declared size of the light
// section of a Gen5 room.
const light5Size = 88

var lightCodecs = codecTable[trfile.Light]{
	name: "light",
	codecs: [trfile.GenerationCount]recordCodec[trfile.Light]{
		trfile.Gen1:        {18, decodeLight1, encodeLight1},
		trfile.Gen1Variant: {18, decodeLight1, encodeLight1},
		trfile.Gen2:        {24, decodeLight2, encodeLight2},
		trfile.Gen3:        {24, decodeLight3, encodeLight3},
		trfile.Gen4:        {46, decodeLight4, encodeLight4},
		trfile.Gen5:        {light5Size, decodeLight5, encodeLight5},
	},
}

// fadeLight fills in the fields that early generations derive from the
// stored fade.
func fadeLight(l *trfile.Light) {
	l.Type = trfile.LightPoint
	l.Falloff = float32(l.Fade1)
	l.Hotspot = float32(l.Fade1) / 2
}

func decodeLight1(r *bin.Reader) (l trfile.Light) {
	l.Position = read32(r)
	l.Intensity1 = packed.Invert(r.U16())
	l.Intensity2 = l.Intensity1
	l.Fade1 = r.U32()
	l.Intensity = math32.Min(float32(l.Intensity1)/4096, 1)
	l.Color = packed.White
	fadeLight(&l)
	return l
}

func encodeLight1(w *bin.Writer, l trfile.Light) {
	write32(w, l.Position)
	w.PutU16(packed.Uninvert(l.Intensity1))
	w.PutU32(l.Fade1)
}

func decodeLight2(r *bin.Reader) (l trfile.Light) {
	l.Position = read32(r)
	l.Intensity1 = r.U16()
	l.Intensity2 = r.U16()
	l.Fade1 = r.U32()
	l.Fade2 = r.U32()
	l.Intensity = math32.Min(float32(l.Intensity1)/4096, 1)
	l.Color = packed.White
	fadeLight(&l)
	return l
}

func encodeLight2(w *bin.Writer, l trfile.Light) {
	write32(w, l.Position)
	w.PutU16(l.Intensity1)
	w.PutU16(l.Intensity2)
	w.PutU32(l.Fade1)
	w.PutU32(l.Fade2)
}

func decodeLight3(r *bin.Reader) (l trfile.Light) {
	l.Position = read32(r)
	l.Color = readColor(r, true).Float()
	l.Fade1 = r.U32()
	l.Fade2 = r.U32()
	l.Intensity = 1
	fadeLight(&l)
	return l
}

func encodeLight3(w *bin.Writer, l trfile.Light) {
	write32(w, l.Position)
	writeColor(w, l.Color.Bytes(), true)
	w.PutU32(l.Fade1)
	w.PutU32(l.Fade2)
}

func decodeLight4(r *bin.Reader) (l trfile.Light) {
	l.Position = read32(r)
	l.Color = readColor(r, false).Float()
	l.Type = trfile.LightType(r.U8())
	l.Unknown = r.U8()
	l.Intensity1 = uint16(r.U8())
	l.Intensity = float32(l.Intensity1) / 32
	l.Hotspot = r.F32()
	l.Falloff = r.F32()
	l.Length = r.F32()
	l.Cutoff = r.F32()
	l.Direction = readF(r)
	return l
}

func encodeLight4(w *bin.Writer, l trfile.Light) {
	if l.Intensity1 > 0xFF {
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "light intensity %d overflows byte", l.Intensity1))
		return
	}
	write32(w, l.Position)
	writeColor(w, l.Color.Bytes(), false)
	w.PutU8(uint8(l.Type))
	w.PutU8(l.Unknown)
	w.PutU8(uint8(l.Intensity1))
	w.PutF32(l.Hotspot)
	w.PutF32(l.Falloff)
	w.PutF32(l.Length)
	w.PutF32(l.Cutoff)
	writeF(w, l.Direction)
}

func decodeLight5(r *bin.Reader) (l trfile.Light) {
	l.Position = readF(r)
	l.Color = packed.ColorF{R: r.F32(), G: r.F32(), B: r.F32(), A: 1}
	expect32(r, "light separator", marker32)
	l.Intensity = 1
	l.Hotspot = r.F32()
	l.Falloff = r.F32()
	l.RadIn = r.F32()
	l.RadOut = r.F32()
	l.Range = r.F32()
	l.Direction = readF(r)
	l.Position2 = read32(r)
	l.Direction2 = read32(r)
	l.Type = trfile.LightType(r.U8())
	for i := 0; i < 3; i++ {
		expect8(r, "light filler", marker8)
	}
	return l
}

func encodeLight5(w *bin.Writer, l trfile.Light) {
	writeF(w, l.Position)
	w.PutF32(l.Color.R)
	w.PutF32(l.Color.G)
	w.PutF32(l.Color.B)
	w.PutU32(marker32)
	w.PutF32(l.Hotspot)
	w.PutF32(l.Falloff)
	w.PutF32(l.RadIn)
	w.PutF32(l.RadOut)
	w.PutF32(l.Range)
	writeF(w, l.Direction)
	write32(w, l.Position2)
	write32(w, l.Direction2)
	w.PutU8(uint8(l.Type))
	w.Pad(3, marker8)
}

// DecodeLight decodes a room light of generation g.
func DecodeLight(r *bin.Reader, g trfile.Generation) (trfile.Light, error) {
	l := decodeRecord(&lightCodecs, r, g)
	return l, r.Err()
}

// EncodeLight encodes a room light of generation g.
func EncodeLight(w *bin.Writer, g trfile.Generation, l trfile.Light) error {
	encodeRecord(&lightCodecs, w, g, l)
	return w.Err()
}
