// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shade"
)

// ErrTextureFormat is returned for upload formats other than RGBA8Unorm
// and RGBA16Float.
var ErrTextureFormat = errors.New("gpu: unsupported texture upload format")

// Texture is a sampled texture and its default view.
type Texture struct {
	device  hal.Device
	texture hal.Texture
	view    hal.TextureView
	format  gputypes.TextureFormat
	width   uint32
	height  uint32
}

// UploadTexture creates an RGBA8Unorm texture with the contents of tex.
// Texels are stored with straight alpha, as the fragment stage expects.
//
// Alpha is quantized to 1/255: texels with 0 < alpha < 1/510 become 0 and
// are discarded by the GPU fragment stage while the software executor
// keeps them. Use UploadTextureFormat with RGBA16Float where that
// matters.
func UploadTexture(device hal.Device, queue hal.Queue, tex *shade.ImageTexture, label string) (*Texture, error) {
	return UploadTextureFormat(device, queue, tex, label, gputypes.TextureFormatRGBA8Unorm)
}

// UploadTextureFormat is UploadTexture with an explicit storage format,
// RGBA8Unorm or RGBA16Float. Half floats keep every alpha of 6e-8 or more
// non-zero and remain filterable.
func UploadTextureFormat(device hal.Device, queue hal.Queue, tex *shade.ImageTexture, label string, format gputypes.TextureFormat) (*Texture, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if tex == nil {
		return nil, ErrNilTexture
	}
	var data []byte
	var texelSize uint32
	switch format {
	case gputypes.TextureFormatRGBA8Unorm:
		data, texelSize = TexelBytes(tex), 4
	case gputypes.TextureFormatRGBA16Float:
		data, texelSize = TexelBytesHalf(tex), 8
	default:
		return nil, fmt.Errorf("%w: %v", ErrTextureFormat, format)
	}
	w, h := uint32(tex.Width()), uint32(tex.Height())

	t := &Texture{device: device, format: format, width: w, height: h}
	var err error
	t.texture, err = device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture %s: %w", label, err)
	}

	t.view, err = device.CreateTextureView(t.texture, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("gpu: create texture view %s: %w", label, err)
	}

	err = queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.texture, Aspect: gputypes.TextureAspectAll},
		data,
		&hal.ImageDataLayout{BytesPerRow: w * texelSize, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("gpu: upload texture %s: %w", label, err)
	}
	return t, nil
}

// TexelBytes returns the texels of tex as tightly packed RGBA8 rows.
func TexelBytes(tex *shade.ImageTexture) []byte {
	w, h := tex.Width(), tex.Height()
	out := make([]byte, 0, w*h*4)
	for y := range h {
		for x := range w {
			c := tex.Texel(x, y).NRGBA()
			out = append(out, c.R, c.G, c.B, c.A)
		}
	}
	return out
}

// TexelBytesHalf returns the texels of tex as tightly packed RGBA16Float
// rows, little-endian.
func TexelBytesHalf(tex *shade.ImageTexture) []byte {
	w, h := tex.Width(), tex.Height()
	out := make([]byte, w*h*8)
	i := 0
	for y := range h {
		for x := range w {
			c := tex.Texel(x, y)
			for _, v := range [4]float32{c.R, c.G, c.B, c.A} {
				binary.LittleEndian.PutUint16(out[i:], halfBits(v))
				i += 2
			}
		}
	}
	return out
}

// halfBits converts f to IEEE 754 binary16, rounding to nearest even.
func halfBits(f float32) uint16 {
	b := math.Float32bits(f)
	sign := uint16(b>>16) & 0x8000
	exp := int32(b>>23&0xff) - 127 + 15
	mant := b & 0x7fffff

	switch {
	case b&0x7fffffff > 0x7f800000: // NaN
		return sign | 0x7e00
	case exp >= 0x1f: // overflow and Inf
		return sign | 0x7c00
	case exp <= 0:
		if exp < -10 {
			return sign
		}
		// Subnormal: shift the implicit bit in, then round.
		mant |= 0x800000
		shift := uint32(14 - exp)
		half := mant >> shift
		rem := mant & (1<<shift - 1)
		mid := uint32(1) << (shift - 1)
		if rem > mid || (rem == mid && half&1 == 1) {
			half++
		}
		return sign | uint16(half)
	}

	half := uint32(exp)<<10 | mant>>13
	rem := mant & 0x1fff
	if rem > 0x1000 || (rem == 0x1000 && half&1 == 1) {
		half++ // may carry into the exponent, which is correct
	}
	return sign | uint16(half)
}

// Format returns the storage format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// View returns the texture view bind groups reference.
func (t *Texture) View() hal.TextureView { return t.view }

// Size returns the texture dimensions in texels.
func (t *Texture) Size() (width, height uint32) { return t.width, t.height }

// Destroy releases the view and texture. Safe to call multiple times.
func (t *Texture) Destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}
