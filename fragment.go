package shade

// Composite is the lightmapped fragment stage. It combines the primary
// sample tex and the lightmap sample lm under mode and reports whether the
// fragment is written at all.
//
// A primary alpha of exactly 0.0 discards the fragment: ok is false and
// the caller must write neither color nor depth. Any other alpha, however
// small, is kept. The output alpha is always the primary alpha.
func Composite(tex, lm RGBA, mode BlendMode) (out RGBA, ok bool) {
	if tex.A == 0 {
		return RGBA{}, false
	}
	switch mode.Resolve() {
	case BlendReplace:
		return RGBA{R: lm.R, G: lm.G, B: lm.B, A: tex.A}, true
	case BlendMultiply:
		return RGBA{R: tex.R * lm.R, G: tex.G * lm.G, B: tex.B * lm.B, A: tex.A}, true
	default:
		return tex, true
	}
}

// CompositeTextured is the fragment stage of the textured variant: plain
// pass-through sampling. It has no selector and no discard path, so a
// fully transparent texel is still written and blending decides its effect.
func CompositeTextured(tex RGBA) RGBA {
	return tex
}
