package shade

import "github.com/go-gl/mathgl/mgl32"

// Vertex holds the per-vertex attributes a mesh buffer supplies.
//
// The lightmapped vertex layout is 48 bytes:
//
//	position    (vec4<f32>) offset  0  location 0  w is ignored
//	normal      (vec4<f32>) offset 16  location 1  carried, never read
//	uv          (vec2<f32>) offset 32  location 2
//	lightmap_uv (vec2<f32>) offset 40  location 3
//
// The textured variant reads only Position.xyz and UV.
type Vertex struct {
	Position   mgl32.Vec4
	Normal     mgl32.Vec4
	UV         mgl32.Vec2
	LightmapUV mgl32.Vec2
}

// Varyings is the record the vertex stage hands to interpolation and the
// fragment stage reads back per covered pixel.
type Varyings struct {
	// Position is the clip-space position, before perspective division.
	Position   mgl32.Vec4
	UV         mgl32.Vec2
	LightmapUV mgl32.Vec2
}

// TransformPosition returns m · (p.x, p.y, p.z, 1). The incoming w is
// discarded so affine host data is always treated as a point.
func TransformPosition(m mgl32.Mat4, p mgl32.Vec4) mgl32.Vec4 {
	return m.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
}

// RunVertex is the vertex stage: it transforms the position by the
// composed matrix and copies both texture coordinate sets through.
func RunVertex(mvp mgl32.Mat4, v Vertex) Varyings {
	return Varyings{
		Position:   TransformPosition(mvp, v.Position),
		UV:         v.UV,
		LightmapUV: v.LightmapUV,
	}
}
