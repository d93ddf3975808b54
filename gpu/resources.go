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

// ErrNilTexture is returned when a bind group needs a texture view that
// was not supplied.
var ErrNilTexture = errors.New("gpu: texture view is nil")

// uniform is one uniform buffer bound at the start of its range.
type uniform struct {
	buffer hal.Buffer
	size   uint64
}

func newUniform(device hal.Device, label string, size uint64) (uniform, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return uniform{}, fmt.Errorf("gpu: create %s: %w", label, err)
	}
	return uniform{buffer: buf, size: size}, nil
}

func (u uniform) entry(slot uint32) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding: slot,
		Resource: gputypes.BufferBinding{
			Buffer: u.buffer.NativeHandle(),
			Size:   u.size,
		},
	}
}

func (u *uniform) destroy(device hal.Device) {
	if u.buffer != nil {
		device.DestroyBuffer(u.buffer)
		u.buffer = nil
	}
}

// slot returns the slot of r in layout, which every caller has already
// matched to its variant.
func slot(layout shade.BindingLayout, r shade.Resource) uint32 {
	b, _ := layout.Lookup(r)
	return b.Slot
}

func samplerEntry(s hal.Sampler, slot uint32) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding:  slot,
		Resource: gputypes.SamplerBinding{Sampler: s.NativeHandle()},
	}
}

func textureEntry(v hal.TextureView, slot uint32) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding:  slot,
		Resource: gputypes.TextureViewBinding{TextureView: v.NativeHandle()},
	}
}

// FrameResources holds the per-frame uniform of the lightmapped pipeline:
// the global transform (group 0).
type FrameResources struct {
	device hal.Device
	queue  hal.Queue

	globals    uniform
	frameGroup hal.BindGroup
}

// NewFrameResources creates the group 0 buffer and bind group of p.
func NewFrameResources(device hal.Device, queue hal.Queue, p *Pipeline) (*FrameResources, error) {
	if err := checkLightmapped(device, queue, p, "frame resources"); err != nil {
		return nil, err
	}

	r := &FrameResources{device: device, queue: queue}
	var err error
	if r.globals, err = newUniform(device, "globals_uniform", shade.Mat4UniformSize); err != nil {
		return nil, err
	}
	r.frameGroup, err = device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "frame_bind_group",
		Layout:  p.GroupLayout(shade.GroupFrame),
		Entries: []gputypes.BindGroupEntry{r.globals.entry(slot(p.layout, shade.ResourceGlobalTransform))},
	})
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("gpu: create frame bind group: %w", err)
	}
	return r, nil
}

// WriteFrame uploads the global transform.
func (r *FrameResources) WriteFrame(f shade.FrameParams) error {
	if err := r.queue.WriteBuffer(r.globals.buffer, 0, f.Global.Bytes()); err != nil {
		return fmt.Errorf("gpu: write globals: %w", err)
	}
	return nil
}

// FrameGroup returns the group 0 bind group.
func (r *FrameResources) FrameGroup() hal.BindGroup { return r.frameGroup }

// Destroy releases the buffer and bind group. Safe to call multiple
// times.
func (r *FrameResources) Destroy() {
	if r.frameGroup != nil {
		r.device.DestroyBindGroup(r.frameGroup)
		r.frameGroup = nil
	}
	r.globals.destroy(r.device)
}

// DrawResources is the draw-params block (group 1) of one draw call.
//
// Queue writes land before the submitted commands execute, so draws in
// the same submission must not share a DrawResources unless their
// parameters are equal. Keep one per draw, or one per blend mode.
type DrawResources struct {
	device hal.Device
	queue  hal.Queue

	params    shade.DrawParams
	buffer    uniform
	drawGroup hal.BindGroup
}

// NewDrawResources creates a group 1 buffer and bind group of p holding
// params.
func NewDrawResources(device hal.Device, queue hal.Queue, p *Pipeline, params shade.DrawParams) (*DrawResources, error) {
	if err := checkLightmapped(device, queue, p, "draw resources"); err != nil {
		return nil, err
	}

	r := &DrawResources{device: device, queue: queue}
	var err error
	if r.buffer, err = newUniform(device, "draw_params_uniform", shade.DrawParamsUniformSize); err != nil {
		return nil, err
	}
	r.drawGroup, err = device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "draw_bind_group",
		Layout:  p.GroupLayout(shade.GroupDraw),
		Entries: []gputypes.BindGroupEntry{r.buffer.entry(slot(p.layout, shade.ResourceDrawParams))},
	})
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("gpu: create draw bind group: %w", err)
	}
	if err := r.Write(params); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

// Write uploads the blend-mode selector. Out-of-range modes are written
// unchanged; the fragment stage treats them as raw.
func (r *DrawResources) Write(d shade.DrawParams) error {
	if !d.BlendMode.Valid() {
		shade.Logger().Debug("gpu: unknown blend mode falls back to raw", "mode", d.BlendMode)
	}
	if err := r.queue.WriteBuffer(r.buffer.buffer, 0, d.Bytes()); err != nil {
		return fmt.Errorf("gpu: write draw params: %w", err)
	}
	r.params = d
	return nil
}

// Params returns the last parameters written.
func (r *DrawResources) Params() shade.DrawParams { return r.params }

// Group returns the group 1 bind group.
func (r *DrawResources) Group() hal.BindGroup { return r.drawGroup }

// Destroy releases the buffer and bind group. Safe to call multiple
// times.
func (r *DrawResources) Destroy() {
	if r.drawGroup != nil {
		r.device.DestroyBindGroup(r.drawGroup)
		r.drawGroup = nil
	}
	r.buffer.destroy(r.device)
}

func checkLightmapped(device hal.Device, queue hal.Queue, p *Pipeline, what string) error {
	if device == nil || queue == nil {
		return ErrNilDevice
	}
	if err := p.alive(); err != nil {
		return err
	}
	if p.variant != shade.VariantLightmapped {
		return fmt.Errorf("gpu: %s for %v pipeline: %w", what, p.variant, ErrVariantMismatch)
	}
	return nil
}

// ObjectResources holds the per-object bind group. For the lightmapped
// pipeline it is group 2 (model transform, sampler, lightmap); for the
// textured pipeline it is group 0 (combined transform, sampler, texture).
type ObjectResources struct {
	device  hal.Device
	queue   hal.Queue
	variant shade.Variant

	transform uniform
	group     hal.BindGroup
	groupIdx  shade.BindingGroup
}

// NewObjectResources creates the object bind group of p. view is the
// lightmap for the lightmapped pipeline and the primary texture for the
// textured one.
func NewObjectResources(device hal.Device, queue hal.Queue, p *Pipeline, view hal.TextureView) (*ObjectResources, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if err := p.alive(); err != nil {
		return nil, err
	}
	if view == nil {
		return nil, ErrNilTexture
	}

	r := &ObjectResources{device: device, queue: queue, variant: p.variant}
	if err := r.create(p, view); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *ObjectResources) create(p *Pipeline, view hal.TextureView) error {
	transformRes, viewRes, group := shade.ResourceLocalTransform, shade.ResourceLightmap, shade.GroupObject
	if r.variant == shade.VariantTextured {
		transformRes, viewRes, group = shade.ResourceTransform, shade.ResourceTexture, 0
	}
	r.groupIdx = group

	var err error
	label := r.variant.String() + "_object"
	if r.transform, err = newUniform(r.device, label+"_uniform", shade.Mat4UniformSize); err != nil {
		return err
	}
	r.group, err = r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind_group",
		Layout: p.GroupLayout(group),
		Entries: []gputypes.BindGroupEntry{
			r.transform.entry(slot(p.layout, transformRes)),
			samplerEntry(p.Sampler(), slot(p.layout, shade.ResourceSampler)),
			textureEntry(view, slot(p.layout, viewRes)),
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create %s bind group: %w", label, err)
	}
	return nil
}

// WriteLocal uploads the model transform of a lightmapped object.
func (r *ObjectResources) WriteLocal(l shade.LocalTransform) error {
	if r.variant != shade.VariantLightmapped {
		return fmt.Errorf("gpu: write local transform on %v object: %w", r.variant, ErrVariantMismatch)
	}
	if err := r.queue.WriteBuffer(r.transform.buffer, 0, l.Bytes()); err != nil {
		return fmt.Errorf("gpu: write model: %w", err)
	}
	return nil
}

// WriteTransform uploads the combined transform of a textured object.
func (r *ObjectResources) WriteTransform(g shade.GlobalTransform, l shade.LocalTransform) error {
	if r.variant != shade.VariantTextured {
		return fmt.Errorf("gpu: write combined transform on %v object: %w", r.variant, ErrVariantMismatch)
	}
	if err := r.queue.WriteBuffer(r.transform.buffer, 0, shade.EncodeMat4(shade.Compose(g, l))); err != nil {
		return fmt.Errorf("gpu: write transform: %w", err)
	}
	return nil
}

// Group returns the bind group and the index it binds at.
func (r *ObjectResources) Group() (shade.BindingGroup, hal.BindGroup) { return r.groupIdx, r.group }

// Destroy releases the buffer and bind group. Safe to call multiple times.
func (r *ObjectResources) Destroy() {
	if r.group != nil {
		r.device.DestroyBindGroup(r.group)
		r.group = nil
	}
	r.transform.destroy(r.device)
}

// TextureBinding is the group 3 bind group of the lightmapped pipeline,
// shared by every object drawn with the same primary texture.
type TextureBinding struct {
	device hal.Device
	group  hal.BindGroup
}

// NewTextureBinding binds view as the primary texture of p.
func NewTextureBinding(device hal.Device, p *Pipeline, view hal.TextureView) (*TextureBinding, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if err := p.alive(); err != nil {
		return nil, err
	}
	if p.variant != shade.VariantLightmapped {
		return nil, fmt.Errorf("gpu: texture binding for %v pipeline: %w", p.variant, ErrVariantMismatch)
	}
	if view == nil {
		return nil, ErrNilTexture
	}

	group, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "primary_texture_bind_group",
		Layout:  p.GroupLayout(shade.GroupTexture),
		Entries: []gputypes.BindGroupEntry{textureEntry(view, slot(p.layout, shade.ResourceTexture))},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture bind group: %w", err)
	}
	return &TextureBinding{device: device, group: group}, nil
}

// Group returns the bind group.
func (t *TextureBinding) Group() hal.BindGroup { return t.group }

// Destroy releases the bind group. Safe to call multiple times.
func (t *TextureBinding) Destroy() {
	if t.group != nil {
		t.device.DestroyBindGroup(t.group)
		t.group = nil
	}
}
