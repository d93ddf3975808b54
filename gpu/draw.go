// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shade"
)

// ErrIncompleteDraw is returned by Record when a bind group the variant
// needs is missing.
var ErrIncompleteDraw = errors.New("gpu: draw is missing resources")

// MeshBuffers is a mesh uploaded in the vertex layout of one variant.
type MeshBuffers struct {
	device  hal.Device
	variant shade.Variant
	vertex  hal.Buffer
	index   hal.Buffer
	count   uint32
}

// NewMeshBuffers uploads mesh for variant v. Index data is 32-bit. An
// empty mesh allocates nothing and records no draw.
func NewMeshBuffers(device hal.Device, queue hal.Queue, v shade.Variant, mesh *shade.Mesh) (*MeshBuffers, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if _, err := shade.LayoutFor(v); err != nil {
		return nil, fmt.Errorf("gpu: mesh buffers: %w", err)
	}

	m := &MeshBuffers{device: device, variant: v, count: uint32(mesh.TriangleCount() * 3)}
	if len(mesh.Vertices) == 0 {
		m.count = 0
		return m, nil
	}
	if err := m.upload(queue, mesh); err != nil {
		m.Destroy()
		return nil, err
	}
	return m, nil
}

func (m *MeshBuffers) upload(queue hal.Queue, mesh *shade.Mesh) error {
	data := shade.EncodeVertices(m.variant, mesh.Vertices)
	var err error
	m.vertex, err = m.device.CreateBuffer(&hal.BufferDescriptor{
		Label: m.variant.String() + "_vertices",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create vertex buffer: %w", err)
	}
	if err := queue.WriteBuffer(m.vertex, 0, data); err != nil {
		return fmt.Errorf("gpu: write vertex buffer: %w", err)
	}

	if len(mesh.Indices) == 0 {
		return nil
	}
	idx := make([]byte, len(mesh.Indices)*4)
	for i, v := range mesh.Indices {
		binary.LittleEndian.PutUint32(idx[i*4:], v)
	}
	m.index, err = m.device.CreateBuffer(&hal.BufferDescriptor{
		Label: m.variant.String() + "_indices",
		Size:  uint64(len(idx)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create index buffer: %w", err)
	}
	if err := queue.WriteBuffer(m.index, 0, idx); err != nil {
		return fmt.Errorf("gpu: write index buffer: %w", err)
	}
	return nil
}

// Count returns the number of vertices the draw consumes.
func (m *MeshBuffers) Count() uint32 { return m.count }

// Indexed reports whether the mesh has an index buffer.
func (m *MeshBuffers) Indexed() bool { return m.index != nil }

// Destroy releases the buffers. Safe to call multiple times.
func (m *MeshBuffers) Destroy() {
	if m.vertex != nil {
		m.device.DestroyBuffer(m.vertex)
		m.vertex = nil
	}
	if m.index != nil {
		m.device.DestroyBuffer(m.index)
		m.index = nil
	}
}

// Draw is the resource set of one recorded draw. Frame, Params and
// Texture are used by the lightmapped pipeline only.
type Draw struct {
	Frame   *FrameResources
	Params  *DrawResources
	Object  *ObjectResources
	Texture *TextureBinding
	Mesh    *MeshBuffers
}

// Record sets the pipeline and bind groups and issues the draw into rp.
// Uniform contents must already be written; Record only encodes commands.
// An empty mesh encodes nothing.
func (p *Pipeline) Record(rp hal.RenderPassEncoder, d Draw) error {
	if err := p.alive(); err != nil {
		return err
	}
	if d.Object == nil || d.Mesh == nil {
		return ErrIncompleteDraw
	}
	if d.Object.variant != p.variant || d.Mesh.variant != p.variant {
		return fmt.Errorf("gpu: record %v draw: %w", p.variant, ErrVariantMismatch)
	}
	lightmapped := p.variant == shade.VariantLightmapped
	if lightmapped && (d.Frame == nil || d.Params == nil || d.Texture == nil) {
		return ErrIncompleteDraw
	}
	if d.Mesh.count == 0 {
		return nil
	}

	rp.SetPipeline(p.pipeline)
	if lightmapped {
		rp.SetBindGroup(uint32(shade.GroupFrame), d.Frame.FrameGroup(), nil)
		rp.SetBindGroup(uint32(shade.GroupDraw), d.Params.Group(), nil)
		rp.SetBindGroup(uint32(shade.GroupTexture), d.Texture.Group(), nil)
	}
	g, bg := d.Object.Group()
	rp.SetBindGroup(uint32(g), bg, nil)

	rp.SetVertexBuffer(0, d.Mesh.vertex, 0)
	if d.Mesh.Indexed() {
		rp.SetIndexBuffer(d.Mesh.index, gputypes.IndexFormatUint32, 0)
		rp.DrawIndexed(d.Mesh.count, 1, 0, 0, 0)
	} else {
		rp.Draw(d.Mesh.count, 1, 0, 0)
	}
	return nil
}
