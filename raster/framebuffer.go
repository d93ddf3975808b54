// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/gogpu/shade"
)

// ClearDepth is the depth value a cleared depth buffer holds: the far
// plane of the [0, 1] depth range.
const ClearDepth = 1.0

// Framebuffer is a color target with an attached depth buffer.
//
// Colors are stored as straight-alpha float32, clamped to [0, 1] on
// store like a unorm target. Depth is float32.
type Framebuffer struct {
	width  int
	height int
	color  []shade.RGBA
	depth  []float32
}

// NewFramebuffer creates a framebuffer cleared to transparent black and
// depth ClearDepth.
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	fb := &Framebuffer{
		width:  width,
		height: height,
		color:  make([]shade.RGBA, width*height),
		depth:  make([]float32, width*height),
	}
	fb.ClearDepth(ClearDepth)
	return fb, nil
}

// Width returns the framebuffer width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the framebuffer height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Clear fills the color target with c.
func (fb *Framebuffer) Clear(c shade.RGBA) {
	c = c.Clamp()
	for i := range fb.color {
		fb.color[i] = c
	}
}

// ClearDepth fills the depth buffer with d.
func (fb *Framebuffer) ClearDepth(d float32) {
	for i := range fb.depth {
		fb.depth[i] = d
	}
}

// GetPixel returns the stored color at (x, y), or transparent black
// outside the target.
func (fb *Framebuffer) GetPixel(x, y int) shade.RGBA {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return shade.Transparent
	}
	return fb.color[y*fb.width+x]
}

// SetPixel stores c at (x, y). Out-of-bounds writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c shade.RGBA) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return
	}
	fb.color[y*fb.width+x] = c.Clamp()
}

// Depth returns the stored depth at (x, y), or ClearDepth outside the
// target.
func (fb *Framebuffer) Depth(x, y int) float32 {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return ClearDepth
	}
	return fb.depth[y*fb.width+x]
}

// ToImage converts the color target to an 8-bit straight-alpha image.
func (fb *Framebuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.width, fb.height))
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			img.SetNRGBA(x, y, fb.color[y*fb.width+x].NRGBA())
		}
	}
	return img
}

// SavePNG saves the color target to a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, fb.ToImage())
}

// At implements the image.Image interface.
func (fb *Framebuffer) At(x, y int) color.Color {
	return fb.GetPixel(x, y).NRGBA()
}

// Bounds implements the image.Image interface.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

// ColorModel implements the image.Image interface.
func (fb *Framebuffer) ColorModel() color.Model {
	return color.NRGBAModel
}
