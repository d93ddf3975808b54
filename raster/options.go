// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import "github.com/gogpu/shade/internal/blend"

// BlendMode selects how a shaded fragment merges with the stored color.
type BlendMode int

const (
	// BlendAlpha blends color by source alpha and adds the alphas, the
	// pipeline blend state of the lightmapped renderer.
	BlendAlpha BlendMode = iota
	// BlendReplace overwrites the stored color. Use it to inspect raw
	// fragment output.
	BlendReplace
)

func (m BlendMode) mode() blend.Mode {
	if m == BlendReplace {
		return blend.ModeReplace
	}
	return blend.ModeAlpha
}

// CullMode selects which triangle faces are skipped. Front faces wind
// counter-clockwise in normalized device coordinates.
type CullMode int

const (
	// CullBack skips clockwise triangles. It is the default.
	CullBack CullMode = iota
	// CullNone draws both faces.
	CullNone
	// CullFront skips counter-clockwise triangles.
	CullFront
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r := raster.NewRenderer(raster.WithWorkers(4), raster.WithCullMode(raster.CullNone))
type Option func(*options)

type options struct {
	workers   int
	blend     BlendMode
	cull      CullMode
	depthTest bool
}

func defaultOptions() options {
	return options{
		workers:   0, // GOMAXPROCS
		blend:     BlendAlpha,
		cull:      CullBack,
		depthTest: true,
	}
}

// WithWorkers sets the number of shading goroutines. Zero or a negative
// value uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithBlend sets the output blend mode.
func WithBlend(m BlendMode) Option {
	return func(o *options) {
		o.blend = m
	}
}

// WithCullMode sets the face culling mode.
func WithCullMode(c CullMode) Option {
	return func(o *options) {
		o.cull = c
	}
}

// WithDepthTest enables or disables the Less depth test and depth
// writes. It is enabled by default.
func WithDepthTest(enabled bool) Option {
	return func(o *options) {
		o.depthTest = enabled
	}
}
