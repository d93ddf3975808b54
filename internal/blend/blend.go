// Package blend provides the output merger's color blending operations.
//
// Colors are straight alpha, as the fragment stage produces them.
package blend

import "github.com/gogpu/shade"

// Mode represents a blending mode.
type Mode int

const (
	// ModeAlpha blends color by source alpha and adds the alphas:
	//
	//	rgb = src.rgb*src.a + dst.rgb*(1-src.a)
	//	a   = src.a + dst.a
	ModeAlpha Mode = iota
	// ModeReplace writes the source unchanged.
	ModeReplace
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAlpha:
		return "alpha"
	case ModeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Blend combines a fragment color src with the stored color dst. Unknown
// modes blend as ModeAlpha. The result is not clamped; color targets
// clamp on store.
func Blend(src, dst shade.RGBA, mode Mode) shade.RGBA {
	switch mode {
	case ModeReplace:
		return src
	default:
		return alpha(src, dst)
	}
}

func alpha(src, dst shade.RGBA) shade.RGBA {
	inv := 1 - src.A
	return shade.RGBA{
		R: src.R*src.A + dst.R*inv,
		G: src.G*src.A + dst.G*inv,
		B: src.B*src.A + dst.B*inv,
		A: src.A + dst.A,
	}
}
