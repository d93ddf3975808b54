package shade

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Uniform block sizes in bytes.
const (
	// Mat4UniformSize is a mat4x4<f32>, used by every transform block.
	Mat4UniformSize = 64

	// DrawParamsUniformSize is the draw-params block: one i32 selector
	// padded to the 16-byte uniform alignment.
	DrawParamsUniformSize = 16
)

// EncodeMat4 writes m column-major, little-endian, the memory layout of
// a WGSL mat4x4<f32> and a std140 GLSL mat4.
func EncodeMat4(m mgl32.Mat4) []byte {
	buf := make([]byte, Mat4UniformSize)
	for i, f := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Bytes returns the group 0 uniform contents.
func (g GlobalTransform) Bytes() []byte { return EncodeMat4(g.Mat4()) }

// Bytes returns the model uniform contents.
func (l LocalTransform) Bytes() []byte { return EncodeMat4(l.Mat4()) }

// Bytes returns the draw-params uniform contents. The selector is written
// as-is, so an out-of-range mode reaches the GPU unchanged and takes the
// shader's fallback arm there too.
func (p DrawParams) Bytes() []byte {
	buf := make([]byte, DrawParamsUniformSize)
	binary.LittleEndian.PutUint32(buf, uint32(p.BlendMode))
	return buf
}

// EncodeVertices packs vertices into the vertex buffer layout of v.
func EncodeVertices(v Variant, vertices []Vertex) []byte {
	stride := int(VertexStride(v))
	buf := make([]byte, len(vertices)*stride)
	for i, vert := range vertices {
		b := buf[i*stride:]
		if v == VariantLightmapped {
			putFloats(b[0:], vert.Position[:]...)
			putFloats(b[16:], vert.Normal[:]...)
			putFloats(b[32:], vert.UV[:]...)
			putFloats(b[40:], vert.LightmapUV[:]...)
			continue
		}
		putFloats(b[0:], vert.Position[0], vert.Position[1], vert.Position[2])
		putFloats(b[12:], vert.UV[:]...)
	}
	return buf
}

func putFloats(b []byte, fs ...float32) {
	for i, f := range fs {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
}
