package level

import (
	"github.com/trlevel/trfile"
	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
	"github.com/trlevel/trfile/packed"
)

// PaletteSize is the number of colors in a palette.
const PaletteSize = 256

// Palette holds the color tables of a Gen1 to Gen3 level.
type Palette struct {
	// Colors maps the indices of 8-bit textures. Stored with 6 bits per
	// channel, scaled to 8 bits.
	Colors [PaletteSize]packed.Color
	// Colors16 is stored by Gen2 and Gen3 after Colors, with 8 bits per
	// channel and an unused fourth byte, held in A. Nil for Gen1.
	Colors16 []packed.Color
}

// DecodePalette reads the palettes of generation g from r. Fails with
// errors.ErrCorruptRecord if a 6-bit channel exceeds 63.
func DecodePalette(r *bin.Reader, g trfile.Generation) (*Palette, error) {
	if g.Layout() > trfile.Gen3 || !g.Valid() {
		r.Fail(errors.GenerationError{Record: "palette", Generation: g})
		return nil, r.Err()
	}
	p := &Palette{}
	for i := range p.Colors {
		off := r.Pos()
		raw := r.Bytes(3)
		if r.Err() != nil {
			return nil, r.Err()
		}
		for _, v := range raw {
			if v > 63 {
				r.FailAt(off, errors.Wrapf(errors.ErrCorruptRecord, "palette entry %d: channel %d exceeds 63", i, v))
				return nil, r.Err()
			}
		}
		p.Colors[i] = packed.Color{R: raw[0] << 2, G: raw[1] << 2, B: raw[2] << 2, A: packed.Opaque}
	}
	if g >= trfile.Gen2 {
		p.Colors16 = make([]packed.Color, PaletteSize)
		for i := range p.Colors16 {
			p.Colors16[i] = readColor(r, true)
		}
	}
	if r.Err() != nil {
		return nil, r.Err()
	}
	return p, nil
}

// EncodePalette writes the palettes of generation g to w. The low two bits of
// each channel of Colors are discarded.
func EncodePalette(w *bin.Writer, g trfile.Generation, p *Palette) error {
	if g.Layout() > trfile.Gen3 || !g.Valid() {
		w.Fail(errors.GenerationError{Record: "palette", Generation: g})
		return w.Err()
	}
	if p == nil {
		w.Fail(errors.New("nil palette"))
		return w.Err()
	}
	if g >= trfile.Gen2 && len(p.Colors16) != PaletteSize {
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "16-bit palette has %d colors, expected %d", len(p.Colors16), PaletteSize))
		return w.Err()
	}
	for _, c := range p.Colors {
		w.PutBytes([]byte{c.R >> 2, c.G >> 2, c.B >> 2})
	}
	if g >= trfile.Gen2 {
		for _, c := range p.Colors16 {
			writeColor(w, c, true)
		}
	}
	return w.Err()
}

// ExpandIndexed converts the texels of an 8-bit texture to colors through
// the palette. Index 0 is transparent.
func ExpandIndexed(pixels []byte, p *Palette) ([]packed.Color, error) {
	if p == nil {
		return nil, errors.New("nil palette")
	}
	out := make([]packed.Color, len(pixels))
	for i, v := range pixels {
		if v == 0 {
			continue
		}
		out[i] = p.Colors[v]
		out[i].A = packed.Opaque
	}
	return out, nil
}

// Expand1555 converts the texels of a 16-bit texture to colors.
func Expand1555(pixels []uint16) []packed.Color {
	out := make([]packed.Color, len(pixels))
	for i, v := range pixels {
		out[i] = packed.ARGB1555(v)
	}
	return out
}
