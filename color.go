package shade

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// RGBA is a straight (non-premultiplied) color with float32 components,
// the precision a fragment shader works in. Components are nominally in
// [0, 1]; values outside that range are kept until a framebuffer write.
type RGBA struct {
	R, G, B, A float32
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// FromColor converts a standard color.Color to a straight-alpha RGBA.
// Straight-alpha inputs keep their color channels even at zero alpha.
func FromColor(c color.Color) RGBA {
	var n color.NRGBA64
	switch v := c.(type) {
	case color.NRGBA:
		n = color.NRGBA64{
			R: uint16(v.R) * 0x101,
			G: uint16(v.G) * 0x101,
			B: uint16(v.B) * 0x101,
			A: uint16(v.A) * 0x101,
		}
	case color.NRGBA64:
		n = v
	default:
		n = color.NRGBA64Model.Convert(c).(color.NRGBA64)
	}
	return RGBA{
		R: float32(n.R) / 0xffff,
		G: float32(n.G) / 0xffff,
		B: float32(n.B) / 0xffff,
		A: float32(n.A) / 0xffff,
	}
}

// FromVec4 creates a color from a shader-style vec4.
func FromVec4(v mgl32.Vec4) RGBA {
	return RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}
}

// Vec4 returns the color as a shader-style vec4.
func (c RGBA) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// RGBA implements color.Color. The result is alpha-premultiplied and
// clamped to the unorm range.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA converts the color to an 8-bit straight-alpha color, clamping
// each component to [0, 1].
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: unorm8(c.R),
		G: unorm8(c.G),
		B: unorm8(c.B),
		A: unorm8(c.A),
	}
}

// Clamp restricts every component to [0, 1], the range of a unorm
// color target.
func (c RGBA) Clamp() RGBA {
	return RGBA{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// Lerp performs linear interpolation between two colors.
// Identical endpoints return c exactly.
func (c RGBA) Lerp(other RGBA, t float32) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func unorm8(x float32) uint8 {
	return uint8(clamp01(x)*255 + 0.5)
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Transparent = RGBA{}
)
