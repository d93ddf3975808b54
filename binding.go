package shade

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// BindingGroup is a bind group index. The lightmapped pair groups its
// resources by update frequency; the textured pair uses group 0 only.
type BindingGroup uint32

const (
	GroupFrame   BindingGroup = 0 // per frame: global transform
	GroupDraw    BindingGroup = 1 // per draw call: blend mode
	GroupObject  BindingGroup = 2 // per object: local transform, sampler, lightmap
	GroupTexture BindingGroup = 3 // per texture: primary image
)

// Resource names a value the host binds. Hosts address bindings by
// Resource and let the layout supply group and slot numbers.
type Resource int

const (
	ResourceTransform       Resource = iota // textured pair: combined G · L
	ResourceGlobalTransform                 // lightmapped: per-frame G
	ResourceDrawParams                      // lightmapped: blend mode selector
	ResourceLocalTransform                  // lightmapped: per-object L
	ResourceSampler                         // shared by the texture and lightmap
	ResourceTexture                         // primary image
	ResourceLightmap                        // lightmapped: baked lighting
)

var resourceNames = [...]string{
	ResourceTransform:       "transform",
	ResourceGlobalTransform: "globals",
	ResourceDrawParams:      "draw_params",
	ResourceLocalTransform:  "model",
	ResourceSampler:         "tex_sampler",
	ResourceTexture:         "primary_texture",
	ResourceLightmap:        "lightmap_texture",
}

// String returns the resource's variable name in the shader sources.
func (r Resource) String() string {
	if r >= 0 && int(r) < len(resourceNames) {
		return resourceNames[r]
	}
	return fmt.Sprintf("Resource(%d)", int(r))
}

// BindingKind is the type of a bound resource.
type BindingKind int

const (
	// BindingUniform is a uniform buffer holding a matrix or DrawParams.
	BindingUniform BindingKind = iota
	// BindingSampler is a filtering sampler.
	BindingSampler
	// BindingTexture2D is a filterable float 2D texture.
	BindingTexture2D
)

// ShaderStage is a set of stages a binding is visible to.
type ShaderStage uint8

const (
	StageVertex   ShaderStage = 1 << iota // vertex stage
	StageFragment                         // fragment stage
)

// Binding describes one resource slot.
type Binding struct {
	Resource Resource
	Group    BindingGroup
	Slot     uint32
	Kind     BindingKind
	Stages   ShaderStage

	// Size is the uniform block size in bytes; zero for non-buffers.
	Size uint64
}

// LayoutEntry converts the binding into a WebGPU bind group layout entry.
func (b Binding) LayoutEntry() gputypes.BindGroupLayoutEntry {
	e := gputypes.BindGroupLayoutEntry{Binding: b.Slot}

	switch b.Stages {
	case StageVertex:
		e.Visibility = gputypes.ShaderStageVertex
	case StageFragment:
		e.Visibility = gputypes.ShaderStageFragment
	default:
		e.Visibility = gputypes.ShaderStageVertex | gputypes.ShaderStageFragment
	}

	switch b.Kind {
	case BindingUniform:
		e.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}
	case BindingSampler:
		e.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
	case BindingTexture2D:
		e.Texture = &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
		}
	}
	return e
}

// BindingLayout is the complete resource binding contract of a variant.
// It is the single place where group and slot numbers are assigned.
type BindingLayout struct {
	variant  Variant
	bindings []Binding
}

var texturedBindings = []Binding{
	{Resource: ResourceTransform, Group: 0, Slot: 0, Kind: BindingUniform, Stages: StageVertex, Size: Mat4UniformSize},
	{Resource: ResourceSampler, Group: 0, Slot: 1, Kind: BindingSampler, Stages: StageFragment},
	{Resource: ResourceTexture, Group: 0, Slot: 2, Kind: BindingTexture2D, Stages: StageFragment},
}

var lightmappedBindings = []Binding{
	{Resource: ResourceGlobalTransform, Group: GroupFrame, Slot: 0, Kind: BindingUniform, Stages: StageVertex, Size: Mat4UniformSize},
	{Resource: ResourceDrawParams, Group: GroupDraw, Slot: 0, Kind: BindingUniform, Stages: StageFragment, Size: DrawParamsUniformSize},
	{Resource: ResourceLocalTransform, Group: GroupObject, Slot: 0, Kind: BindingUniform, Stages: StageVertex | StageFragment, Size: Mat4UniformSize},
	{Resource: ResourceSampler, Group: GroupObject, Slot: 1, Kind: BindingSampler, Stages: StageFragment},
	{Resource: ResourceLightmap, Group: GroupObject, Slot: 2, Kind: BindingTexture2D, Stages: StageFragment},
	{Resource: ResourceTexture, Group: GroupTexture, Slot: 0, Kind: BindingTexture2D, Stages: StageFragment},
}

// LayoutFor returns the binding layout of a variant.
func LayoutFor(v Variant) (BindingLayout, error) {
	switch v {
	case VariantTextured:
		return BindingLayout{variant: v, bindings: texturedBindings}, nil
	case VariantLightmapped:
		return BindingLayout{variant: v, bindings: lightmappedBindings}, nil
	default:
		return BindingLayout{}, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
}

// Variant returns the variant this layout belongs to.
func (l BindingLayout) Variant() Variant { return l.variant }

// Bindings returns a copy of every binding in group, slot order.
func (l BindingLayout) Bindings() []Binding {
	return append([]Binding(nil), l.bindings...)
}

// Lookup returns the binding for r.
func (l BindingLayout) Lookup(r Resource) (Binding, bool) {
	for _, b := range l.bindings {
		if b.Resource == r {
			return b, true
		}
	}
	return Binding{}, false
}

// GroupCount returns the number of bind groups in the pipeline layout.
func (l BindingLayout) GroupCount() int {
	n := 0
	for _, b := range l.bindings {
		if int(b.Group)+1 > n {
			n = int(b.Group) + 1
		}
	}
	return n
}

// Group returns the bindings of group g in slot order.
func (l BindingLayout) Group(g BindingGroup) []Binding {
	var out []Binding
	for _, b := range l.bindings {
		if b.Group == g {
			out = append(out, b)
		}
	}
	return out
}

// GroupLayoutEntries returns the WebGPU layout entries of group g.
func (l BindingLayout) GroupLayoutEntries(g BindingGroup) []gputypes.BindGroupLayoutEntry {
	group := l.Group(g)
	entries := make([]gputypes.BindGroupLayoutEntry, len(group))
	for i, b := range group {
		entries[i] = b.LayoutEntry()
	}
	return entries
}

// VertexStride returns the vertex buffer stride of a variant in bytes.
func VertexStride(v Variant) uint64 {
	if v == VariantLightmapped {
		return lightmappedVertexStride
	}
	return texturedVertexStride
}

const (
	texturedVertexStride    = 20 // position vec3 + uv vec2
	lightmappedVertexStride = 48 // position vec4 + normal vec4 + uv vec2 + lightmap uv vec2
)

// VertexLayout returns the vertex buffer layout of a variant.
func VertexLayout(v Variant) []gputypes.VertexBufferLayout {
	if v == VariantLightmapped {
		return []gputypes.VertexBufferLayout{
			{
				ArrayStride: lightmappedVertexStride,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},  // position
					{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1}, // normal
					{Format: gputypes.VertexFormatFloat32x2, Offset: 32, ShaderLocation: 2}, // uv
					{Format: gputypes.VertexFormatFloat32x2, Offset: 40, ShaderLocation: 3}, // lightmap uv
				},
			},
		}
	}
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: texturedVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1}, // uv
			},
		},
	}
}
