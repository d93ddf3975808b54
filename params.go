package shade

import (
	"errors"
	"fmt"
)

// Draw call errors. They describe a host contract violation; the shading
// stages themselves never fail.
var (
	// ErrUnknownVariant is returned for a Variant outside the enumeration.
	ErrUnknownVariant = errors.New("shade: unknown shader variant")


	// ErrIndexCount is returned when the index or vertex count of a
	// triangle list is not a multiple of three.
	ErrIndexCount = errors.New("shade: triangle list count is not a multiple of 3")

	// ErrIndexOutOfRange is returned when an index refers past the
	// vertex buffer.
	ErrIndexOutOfRange = errors.New("shade: index out of range")

	// ErrMissingTexture is returned when the primary texture is nil.
	ErrMissingTexture = errors.New("shade: primary texture not bound")

	// ErrMissingLightmap is returned when a lightmapped draw has no
	// lightmap texture.
	ErrMissingLightmap = errors.New("shade: lightmap texture not bound")
)

// FrameParams holds the bindings shared by every draw of one frame.
type FrameParams struct {
	Global GlobalTransform
}

// DrawParams holds the bindings that are constant for one draw call.
type DrawParams struct {
	BlendMode BlendMode
}

// ObjectParams holds the bindings owned by one drawable object.
type ObjectParams struct {
	Local    LocalTransform
	Texture  Texture
	Lightmap Texture // lightmapped variant only
}

// Mesh is an immutable triangle list. A nil Indices slice draws the
// vertices in order.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// TriangleCount returns the number of triangles in the list.
func (m *Mesh) TriangleCount() int {
	if m.Indices != nil {
		return len(m.Indices) / 3
	}
	return len(m.Vertices) / 3
}

// Index returns the vertex index of list element i.
func (m *Mesh) Index(i int) int {
	if m.Indices != nil {
		return int(m.Indices[i])
	}
	return i
}

// DrawCall carries the complete parameter set of one draw. There is no
// hidden "current" state: two draws that share a frame share it only by
// carrying equal FrameParams.
type DrawCall struct {
	Variant Variant
	Frame   FrameParams
	Draw    DrawParams
	Object  ObjectParams
	Mesh    Mesh
}

// Validate checks the host side of the binding contract: a known
// variant, bound textures and an in-range triangle list. It does not
// inspect matrix or color values. An empty mesh is valid and draws
// nothing.
func (c *DrawCall) Validate() error {
	switch c.Variant {
	case VariantTextured:
	case VariantLightmapped:
		if c.Object.Lightmap == nil {
			return ErrMissingLightmap
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownVariant, int(c.Variant))
	}
	if c.Object.Texture == nil {
		return ErrMissingTexture
	}

	n := len(c.Mesh.Vertices)
	if c.Mesh.Indices == nil {
		if n%3 != 0 {
			return fmt.Errorf("%w: %d vertices", ErrIndexCount, n)
		}
		return nil
	}
	if len(c.Mesh.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices", ErrIndexCount, len(c.Mesh.Indices))
	}
	for i, idx := range c.Mesh.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d, %d vertices", ErrIndexOutOfRange, idx, i, n)
		}
	}
	return nil
}

// Shader validates the call and resolves its bindings into a Shader.
// The textured variant folds Global and Local into its single combined
// transform uniform.
func (c *DrawCall) Shader() (Shader, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Variant == VariantTextured {
		return NewTexturedShader(Compose(c.Frame.Global, c.Object.Local), c.Object.Texture), nil
	}
	return NewLightmapShader(c.Frame, c.Draw, c.Object), nil
}
