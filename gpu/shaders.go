// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/shade"
)

//go:embed shaders/lightmap.wgsl
var lightmapWGSL string

//go:embed shaders/textured.wgsl
var texturedWGSL string

//go:embed shaders/lightmap.vert
var lightmapVert string

//go:embed shaders/lightmap.frag
var lightmapFrag string

//go:embed shaders/textured.vert
var texturedVert string

//go:embed shaders/textured.frag
var texturedFrag string

// Entry points of the WGSL modules. GLSL stages use main.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Shader errors.
var (
	// ErrUnknownDialect is returned for a Dialect outside the enumeration.
	ErrUnknownDialect = errors.New("gpu: unknown shader dialect")

	// ErrEmptySPIRV is returned when compilation yields no words.
	ErrEmptySPIRV = errors.New("gpu: empty SPIR-V output")
)

// Dialect is a shading language the sources are shipped in.
type Dialect int

const (
	// DialectWGSL is one module holding both stages.
	DialectWGSL Dialect = iota

	// DialectGLSL is GLSL 450 with separate vertex and fragment sources.
	DialectGLSL
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectWGSL:
		return "wgsl"
	case DialectGLSL:
		return "glsl"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// Source is the shader text of one variant in one dialect. For WGSL both
// fields hold the same module.
type Source struct {
	Vertex   string
	Fragment string
}

// ShaderSource returns the embedded source of variant v in dialect d.
func ShaderSource(v shade.Variant, d Dialect) (Source, error) {
	switch v {
	case shade.VariantLightmapped, shade.VariantTextured:
	default:
		return Source{}, fmt.Errorf("gpu: shader source %v: %w", v, shade.ErrUnknownVariant)
	}

	switch d {
	case DialectWGSL:
		src := texturedWGSL
		if v == shade.VariantLightmapped {
			src = lightmapWGSL
		}
		return Source{Vertex: src, Fragment: src}, nil
	case DialectGLSL:
		if v == shade.VariantLightmapped {
			return Source{Vertex: lightmapVert, Fragment: lightmapFrag}, nil
		}
		return Source{Vertex: texturedVert, Fragment: texturedFrag}, nil
	default:
		return Source{}, fmt.Errorf("gpu: shader source %v: %w", d, ErrUnknownDialect)
	}
}

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile shader: %w", err)
	}
	if len(spirvBytes) < 4 {
		return nil, ErrEmptySPIRV
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
