// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shade"
)

// Pipeline errors.
var (
	// ErrNilDevice is returned when a constructor is given no device.
	ErrNilDevice = errors.New("gpu: device is nil")

	// ErrPipelineDestroyed is returned when using a destroyed pipeline.
	ErrPipelineDestroyed = errors.New("gpu: pipeline destroyed")

	// ErrVariantMismatch is returned when a resource set is built for a
	// pipeline of the other variant.
	ErrVariantMismatch = errors.New("gpu: variant mismatch")
)

// PipelineOption configures a Pipeline.
type PipelineOption func(*pipelineOptions)

type pipelineOptions struct {
	colorFormat gputypes.TextureFormat
	depthFormat gputypes.TextureFormat
	sampleCount uint32
	cullMode    gputypes.CullMode
	sampler     shade.Sampler
	spirv       bool
}

func defaultPipelineOptions() pipelineOptions {
	return pipelineOptions{
		colorFormat: gputypes.TextureFormatBGRA8Unorm,
		depthFormat: gputypes.TextureFormatDepth32Float,
		sampleCount: 1,
		cullMode:    gputypes.CullModeBack,
		sampler:     shade.DefaultSampler(),
	}
}

// WithColorFormat sets the color target format. Default BGRA8Unorm.
func WithColorFormat(f gputypes.TextureFormat) PipelineOption {
	return func(o *pipelineOptions) { o.colorFormat = f }
}

// WithDepthFormat sets the depth attachment format. Default Depth32Float.
// TextureFormatUndefined builds a pipeline without depth testing.
func WithDepthFormat(f gputypes.TextureFormat) PipelineOption {
	return func(o *pipelineOptions) { o.depthFormat = f }
}

// WithSampleCount sets the MSAA sample count. Values below 1 mean 1.
func WithSampleCount(n uint32) PipelineOption {
	return func(o *pipelineOptions) { o.sampleCount = max(n, 1) }
}

// WithCullMode sets face culling. Default back-face culling with
// counter-clockwise front faces.
func WithCullMode(m gputypes.CullMode) PipelineOption {
	return func(o *pipelineOptions) { o.cullMode = m }
}

// WithSampler sets the address and filter modes of the pipeline sampler.
func WithSampler(s shade.Sampler) PipelineOption {
	return func(o *pipelineOptions) { o.sampler = s }
}

// WithSPIRV compiles the WGSL source to SPIR-V with naga before handing
// it to the device, for backends that do not accept WGSL.
func WithSPIRV() PipelineOption {
	return func(o *pipelineOptions) { o.spirv = true }
}

// Pipeline owns the GPU objects of one shader variant: shader module,
// bind group layouts, pipeline layout, render pipeline and sampler.
type Pipeline struct {
	device  hal.Device
	variant shade.Variant
	layout  shade.BindingLayout
	opts    pipelineOptions

	shader       hal.ShaderModule
	groupLayouts []hal.BindGroupLayout
	pipeLayout   hal.PipelineLayout
	pipeline     hal.RenderPipeline
	sampler      hal.Sampler
}

// NewLightmapPipeline creates the lightmapped-atlas pipeline.
func NewLightmapPipeline(device hal.Device, opts ...PipelineOption) (*Pipeline, error) {
	return NewPipeline(device, shade.VariantLightmapped, opts...)
}

// NewTexturedPipeline creates the textured-mesh pipeline.
func NewTexturedPipeline(device hal.Device, opts ...PipelineOption) (*Pipeline, error) {
	return NewPipeline(device, shade.VariantTextured, opts...)
}

// NewPipeline creates the pipeline of variant v. On error every object
// created so far is released.
func NewPipeline(device hal.Device, v shade.Variant, opts ...PipelineOption) (*Pipeline, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	layout, err := shade.LayoutFor(v)
	if err != nil {
		return nil, fmt.Errorf("gpu: new pipeline: %w", err)
	}

	o := defaultPipelineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pipeline{device: device, variant: v, layout: layout, opts: o}
	if err := p.create(); err != nil {
		p.Destroy()
		return nil, err
	}

	shade.Logger().Info("gpu: pipeline created",
		"variant", v,
		"groups", len(p.groupLayouts),
		"color_format", o.colorFormat,
		"depth_format", o.depthFormat,
		"samples", o.sampleCount,
		"spirv", o.spirv)
	return p, nil
}

func (p *Pipeline) create() error {
	label := p.variant.String()

	src, err := ShaderSource(p.variant, DialectWGSL)
	if err != nil {
		return err
	}
	desc := &hal.ShaderModuleDescriptor{Label: label + "_shader"}
	if p.opts.spirv {
		words, err := CompileSPIRV(src.Vertex)
		if err != nil {
			return err
		}
		desc.Source = hal.ShaderSource{SPIRV: words}
	} else {
		desc.Source = hal.ShaderSource{WGSL: src.Vertex}
	}
	if p.shader, err = p.device.CreateShaderModule(desc); err != nil {
		return fmt.Errorf("gpu: create %s shader module: %w", label, err)
	}

	for g := range p.layout.GroupCount() {
		bgl, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s_group%d_layout", label, g),
			Entries: p.layout.GroupLayoutEntries(shade.BindingGroup(g)),
		})
		if err != nil {
			return fmt.Errorf("gpu: create %s bind group layout %d: %w", label, g, err)
		}
		p.groupLayouts = append(p.groupLayouts, bgl)
	}

	p.pipeLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: p.groupLayouts,
	})
	if err != nil {
		return fmt.Errorf("gpu: create %s pipeline layout: %w", label, err)
	}

	p.sampler, err = p.device.CreateSampler(samplerDescriptor(label+"_sampler", p.opts.sampler))
	if err != nil {
		return fmt.Errorf("gpu: create %s sampler: %w", label, err)
	}

	p.pipeline, err = p.device.CreateRenderPipeline(p.renderPipelineDescriptor(label))
	if err != nil {
		return fmt.Errorf("gpu: create %s render pipeline: %w", label, err)
	}
	return nil
}

// renderPipelineDescriptor assembles the fixed-function state: straight
// alpha blending of color, additive alpha, and a Less depth test with
// depth writes.
func (p *Pipeline) renderPipelineDescriptor(label string) *hal.RenderPipelineDescriptor {
	blend := OutputBlendState()
	desc := &hal.RenderPipelineDescriptor{
		Label:  label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: VertexEntryPoint,
			Buffers:    shade.VertexLayout(p.variant),
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  p.opts.cullMode,
		},
		Multisample: gputypes.MultisampleState{
			Count: p.opts.sampleCount,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{{
				Format:    p.opts.colorFormat,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	}
	if p.opts.depthFormat != gputypes.TextureFormatUndefined {
		keep := hal.StencilFaceState{
			Compare:     gputypes.CompareFunctionAlways,
			FailOp:      hal.StencilOperationKeep,
			DepthFailOp: hal.StencilOperationKeep,
			PassOp:      hal.StencilOperationKeep,
		}
		desc.DepthStencil = &hal.DepthStencilState{
			Format:            p.opts.depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      gputypes.CompareFunctionLess,
			StencilFront:      keep,
			StencilBack:       keep,
		}
	}
	return desc
}

// OutputBlendState is the color target blend of both pipelines:
// rgb = src·a + dst·(1-a), a = src.a + dst.a.
func OutputBlendState() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

// samplerDescriptor maps a software sampler description onto the HAL.
// The W axis is unused by 2D textures and always clamps.
func samplerDescriptor(label string, s shade.Sampler) *hal.SamplerDescriptor {
	return &hal.SamplerDescriptor{
		Label:        label,
		AddressModeU: AddressMode(s.AddressModeU),
		AddressModeV: AddressMode(s.AddressModeV),
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    FilterMode(s.MagFilter),
		MinFilter:    FilterMode(s.MinFilter),
		MipmapFilter: gputypes.FilterModeLinear,
		LodMaxClamp:  32,
	}
}

// AddressMode maps a shade address mode to its WebGPU equivalent.
func AddressMode(m shade.AddressMode) gputypes.AddressMode {
	switch m {
	case shade.AddressMirrorRepeat:
		return gputypes.AddressModeMirrorRepeat
	case shade.AddressClampToEdge:
		return gputypes.AddressModeClampToEdge
	default:
		return gputypes.AddressModeRepeat
	}
}

// FilterMode maps a shade filter mode to its WebGPU equivalent.
func FilterMode(m shade.FilterMode) gputypes.FilterMode {
	if m == shade.FilterNearest {
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}

// Variant returns the shader variant of the pipeline.
func (p *Pipeline) Variant() shade.Variant { return p.variant }

// Layout returns the binding layout the pipeline was built from.
func (p *Pipeline) Layout() shade.BindingLayout { return p.layout }

// RenderPipeline returns the HAL render pipeline, or nil after Destroy.
func (p *Pipeline) RenderPipeline() hal.RenderPipeline { return p.pipeline }

// Sampler returns the sampler shared by every texture of the pipeline.
func (p *Pipeline) Sampler() hal.Sampler { return p.sampler }

// GroupLayout returns the bind group layout of group g, or nil when the
// pipeline has no such group.
func (p *Pipeline) GroupLayout(g shade.BindingGroup) hal.BindGroupLayout {
	if int(g) >= len(p.groupLayouts) {
		return nil
	}
	return p.groupLayouts[g]
}

func (p *Pipeline) alive() error {
	if p == nil || p.pipeline == nil {
		return ErrPipelineDestroyed
	}
	return nil
}

// Destroy releases every GPU object of the pipeline. Safe to call
// multiple times.
func (p *Pipeline) Destroy() {
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	for _, bgl := range p.groupLayouts {
		if bgl != nil {
			p.device.DestroyBindGroupLayout(bgl)
		}
	}
	p.groupLayouts = nil
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
