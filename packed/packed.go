// Package packed implements conversions between packed on-disk numeric
// representations and in-memory units.
//
// Every transform is exact: where a decode formula is lossy for part of its
// domain, the domain over which the matching encode inverts it is documented.
package packed

import (
	"github.com/chewxy/math32"
)

////////////////////////////////////////////////////////////////
// Intensity

const intensityMax = 8191

// Invert decodes a small-is-bright intensity as (8191 - raw) << 2, wrapped to
// 16 bits. Uninvert inverts it for raw in [0, 8191].
func Invert(raw uint16) uint16 {
	return uint16((intensityMax - int32(raw)) << 2)
}

// Uninvert encodes a lighting value produced by Invert.
func Uninvert(l uint16) uint16 {
	return uint16(intensityMax - int32(l>>2))
}

// InvertSigned decodes a signed small-is-bright intensity. Negative raw values
// are sentinels and pass through unchanged. UninvertSigned inverts it for raw
// in [-32768, 8191].
func InvertSigned(raw int16) int16 {
	if raw < 0 {
		return raw
	}
	return int16((intensityMax - int32(raw)) << 2)
}

// UninvertSigned encodes a lighting value produced by InvertSigned.
func UninvertSigned(l int16) int16 {
	if l < 0 {
		return l
	}
	return int16(intensityMax - int32(l)>>2)
}

// InvertVertex decodes a vertex lighting value, which is inverted without a
// sentinel. UninvertVertex inverts it for raw in [0, 16383].
func InvertVertex(raw int16) int16 {
	return int16((intensityMax - int32(raw)) << 2)
}

// UninvertVertex encodes a lighting value produced by InvertVertex.
func UninvertVertex(l int16) int16 {
	return int16(intensityMax - int32(l)>>2)
}

////////////////////////////////////////////////////////////////
// Rotation

const rotationStep = 16384

// RotationToDegrees converts a 16-bit rotation step to degrees, as
// raw/16384 * -90.
func RotationToDegrees(raw uint16) float32 {
	return float32(raw) / rotationStep * -90
}

// DegreesToRotation converts degrees to a 16-bit rotation step, wrapping
// modulo one full turn.
func DegreesToRotation(deg float32) uint16 {
	return uint16(int32(math32.Round(deg / -90 * rotationStep)))
}

////////////////////////////////////////////////////////////////
// Channels

// ByteToUnit scales a byte channel to [0, 1].
func ByteToUnit(b uint8) float32 {
	return float32(b) / 255
}

// UnitToByte scales a [0, 1] channel to a byte, rounding to nearest and
// clamping out of range values.
func UnitToByte(f float32) uint8 {
	v := math32.Round(f * 255)
	switch {
	case v <= 0 || math32.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// Grey scales a single lighting value to a [0, 1] grey level. The result is
// not clamped.
func Grey(v, scale float32) float32 {
	return v / scale
}

// Divisors applied to 5-bit channels. They differ by generation and are not
// interchangeable.
const (
	Divisor31 float32 = 31
	Divisor62 float32 = 62
)

// Layout describes the position and width of three packed color channels,
// ordered red, green, blue.
type Layout struct {
	Shift [3]uint
	Bits  [3]uint
}

var (
	// RGB555 holds red in bits 10-14, green in 5-9 and blue in 0-4.
	RGB555 = Layout{Shift: [3]uint{10, 5, 0}, Bits: [3]uint{5, 5, 5}}
	// BGR555 holds red in bits 0-4, green in 5-9 and blue in 10-14.
	BGR555 = Layout{Shift: [3]uint{0, 5, 10}, Bits: [3]uint{5, 5, 5}}
	// RGB565 holds red in bits 11-15, green in 5-10 and blue in 0-4.
	RGB565 = Layout{Shift: [3]uint{11, 5, 0}, Bits: [3]uint{5, 6, 5}}
)

// Unpack extracts the channels of v, dividing each by divisor.
func (l Layout) Unpack(v uint16, divisor float32) (r, g, b float32) {
	var c [3]float32
	for i := range c {
		mask := uint16(1)<<l.Bits[i] - 1
		c[i] = float32(v>>l.Shift[i]&mask) / divisor
	}
	return c[0], c[1], c[2]
}

// Pack is the inverse of Unpack. Channels are rounded and clamped to their
// bit width. Bits outside of the layout are zero.
func (l Layout) Pack(r, g, b, divisor float32) uint16 {
	var v uint16
	for i, c := range [3]float32{r, g, b} {
		max := float32(uint16(1)<<l.Bits[i] - 1)
		n := math32.Round(c * divisor)
		if n < 0 || math32.IsNaN(n) {
			n = 0
		} else if n > max {
			n = max
		}
		v |= uint16(n) << l.Shift[i]
	}
	return v
}
