package shade

import "github.com/go-gl/mathgl/mgl32"

// Variant selects one of the two shader pairs.
type Variant int

const (
	// VariantTextured is the textured-mesh pair: one combined transform
	// uniform and one texture, pass-through sampling.
	VariantTextured Variant = iota

	// VariantLightmapped is the lightmapped-atlas pair: separate global
	// and local transforms, a blend-mode selector and a lightmap texture.
	VariantLightmapped
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantTextured:
		return "textured"
	case VariantLightmapped:
		return "lightmapped"
	default:
		return "unknown"
	}
}

// Shader is one vertex + fragment stage pair with all of its bindings
// resolved for a single draw. Both methods are pure: any number of
// invocations may run concurrently and in any order.
type Shader interface {
	// Vertex runs the vertex stage for one vertex.
	Vertex(v Vertex) Varyings

	// Fragment runs the fragment stage for one interpolated record.
	// ok is false when the fragment is discarded.
	Fragment(in Varyings) (out RGBA, ok bool)
}

// TexturedShader is the textured-mesh pair.
type TexturedShader struct {
	transform mgl32.Mat4
	texture   Texture
}

// NewTexturedShader binds the combined transform and the texture.
func NewTexturedShader(transform mgl32.Mat4, tex Texture) *TexturedShader {
	return &TexturedShader{transform: transform, texture: tex}
}

// Vertex implements Shader.
func (s *TexturedShader) Vertex(v Vertex) Varyings {
	out := RunVertex(s.transform, v)
	out.LightmapUV = mgl32.Vec2{}
	return out
}

// Fragment implements Shader. The textured pair never discards.
func (s *TexturedShader) Fragment(in Varyings) (RGBA, bool) {
	return CompositeTextured(s.texture.Sample(in.UV)), true
}

// LightmapShader is the lightmapped-atlas pair.
type LightmapShader struct {
	mvp      mgl32.Mat4
	mode     BlendMode
	texture  Texture
	lightmap Texture
}

// NewLightmapShader binds the per-frame, per-draw and per-object
// parameters of one draw. The transform composition G · L is computed
// once here instead of once per vertex.
func NewLightmapShader(frame FrameParams, draw DrawParams, obj ObjectParams) *LightmapShader {
	return &LightmapShader{
		mvp:      Compose(frame.Global, obj.Local),
		mode:     draw.BlendMode,
		texture:  obj.Texture,
		lightmap: obj.Lightmap,
	}
}

// Vertex implements Shader.
func (s *LightmapShader) Vertex(v Vertex) Varyings {
	return RunVertex(s.mvp, v)
}

// Fragment implements Shader. Both textures are sampled before the
// discard test, as the GPU pair does to keep sampling in uniform control
// flow.
func (s *LightmapShader) Fragment(in Varyings) (RGBA, bool) {
	tex := s.texture.Sample(in.UV)
	lm := s.lightmap.Sample(in.LightmapUV)
	return Composite(tex, lm, s.mode)
}
