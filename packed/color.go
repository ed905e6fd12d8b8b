package packed

// Color is a color with a byte per channel.
type Color struct {
	R, G, B, A uint8
}

// ColorF is a color with a float per channel, nominally in [0, 1].
type ColorF struct {
	R, G, B, A float32
}

// Opaque is the alpha of a fully opaque Color.
const Opaque = 255

// Float converts c to its float form.
func (c Color) Float() ColorF {
	return ColorF{
		R: ByteToUnit(c.R),
		G: ByteToUnit(c.G),
		B: ByteToUnit(c.B),
		A: ByteToUnit(c.A),
	}
}

// Bytes converts c to its byte form, rounding each channel.
func (c ColorF) Bytes() Color {
	return Color{
		R: UnitToByte(c.R),
		G: UnitToByte(c.G),
		B: UnitToByte(c.B),
		A: UnitToByte(c.A),
	}
}

// GreyF returns an opaque grey color of level v.
func GreyF(v float32) ColorF {
	return ColorF{R: v, G: v, B: v, A: 1}
}

// White is opaque white.
var White = ColorF{R: 1, G: 1, B: 1, A: 1}

// ARGB1555 expands a 16-bit texel with a 1-bit alpha and 5-bit channels.
func ARGB1555(v uint16) Color {
	c := Color{
		R: uint8(v&0x7C00>>10) << 3,
		G: uint8(v&0x03E0>>5) << 3,
		B: uint8(v&0x001F) << 3,
	}
	if v&0x8000 != 0 {
		c.A = Opaque
	}
	return c
}

// ToARGB1555 packs c into a 16-bit texel, truncating each channel to 5 bits.
// Alpha is set if c.A is at least half opaque.
func ToARGB1555(c Color) uint16 {
	v := uint16(c.R>>3)<<10 | uint16(c.G>>3)<<5 | uint16(c.B>>3)
	if c.A >= 0x80 {
		v |= 0x8000
	}
	return v
}
