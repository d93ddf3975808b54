// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shade"
)

func varying(x, y, z float32) shade.Varyings {
	return shade.Varyings{Position: mgl32.Vec4{x, y, z, 1}}
}

func TestClipNear(t *testing.T) {
	tests := []struct {
		name  string
		in    []shade.Varyings
		wantN int
	}{
		{"all in front", []shade.Varyings{varying(0, 0, 0.5), varying(1, 0, 0.5), varying(0, 1, 0.5)}, 3},
		{"all behind", []shade.Varyings{varying(0, 0, -1), varying(1, 0, -1), varying(0, 1, -1)}, 0},
		{"one behind", []shade.Varyings{varying(0, 0, 0.5), varying(1, 0, 0.5), varying(0, 1, -0.5)}, 4},
		{"two behind", []shade.Varyings{varying(0, 0, 0.5), varying(1, 0, -0.5), varying(0, 1, -0.5)}, 3},
		{"on the plane", []shade.Varyings{varying(0, 0, 0), varying(1, 0, 0), varying(0, 1, 0)}, 3},
		{"NaN is outside", []shade.Varyings{varying(0, 0, float32(math.NaN())), varying(1, 0, -1), varying(0, 1, -1)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := clipNear(tt.in, nil)
			if len(out) != tt.wantN {
				t.Fatalf("clipNear() = %d vertices, want %d", len(out), tt.wantN)
			}
			for i, v := range out {
				if v.Position[2] < 0 {
					t.Errorf("vertex %d z = %v, behind near plane", i, v.Position[2])
				}
			}
		})
	}
}

func TestClipNear_InterpolatesVaryings(t *testing.T) {
	a := shade.Varyings{Position: mgl32.Vec4{0, 0, 1, 1}, UV: mgl32.Vec2{0, 0}, LightmapUV: mgl32.Vec2{1, 1}}
	b := shade.Varyings{Position: mgl32.Vec4{2, 0, -1, 1}, UV: mgl32.Vec2{1, 0}, LightmapUV: mgl32.Vec2{0, 0}}
	c := shade.Varyings{Position: mgl32.Vec4{0, 2, 1, 1}}

	out := clipNear([]shade.Varyings{a, b, c}, nil)
	mid := out[1]
	if mid.Position != (mgl32.Vec4{1, 0, 0, 1}) {
		t.Errorf("intersection position = %v, want (1, 0, 0, 1)", mid.Position)
	}
	if mid.UV != (mgl32.Vec2{0.5, 0}) || mid.LightmapUV != (mgl32.Vec2{0.5, 0.5}) {
		t.Errorf("intersection uv = %v, %v", mid.UV, mid.LightmapUV)
	}
}

func TestToScreen(t *testing.T) {
	sv, ok := toScreen(shade.Varyings{Position: mgl32.Vec4{-2, 2, 1, 2}}, 100, 50)
	if !ok {
		t.Fatal("toScreen rejected a visible vertex")
	}
	if sv.x != 0 || sv.y != 0 {
		t.Errorf("top-left corner = (%d, %d), want (0, 0)", sv.x, sv.y)
	}
	if sv.z != 0.5 || sv.invW != 0.5 {
		t.Errorf("z, 1/w = %v, %v, want 0.5, 0.5", sv.z, sv.invW)
	}

	sv, _ = toScreen(varying(1, -1, 0), 100, 50)
	if sv.x != 100*subpixelScale || sv.y != 50*subpixelScale {
		t.Errorf("bottom-right corner = (%d, %d)", sv.x, sv.y)
	}

	for _, w := range []float32{0, -1, float32(math.NaN())} {
		if _, ok := toScreen(shade.Varyings{Position: mgl32.Vec4{0, 0, 0, w}}, 10, 10); ok {
			t.Errorf("toScreen accepted w = %v", w)
		}
	}
}

func TestSharedEdgeCoveredOnce(t *testing.T) {
	// Two triangles sharing a diagonal that passes through pixel centers.
	pts := []screenVertex{
		{x: pixelCenter(0), y: pixelCenter(0)},
		{x: pixelCenter(8), y: pixelCenter(0)},
		{x: pixelCenter(8), y: pixelCenter(8)},
		{x: pixelCenter(0), y: pixelCenter(8)},
	}
	t1, _, ok1 := setupTriangle(pts[0], pts[1], pts[2], CullNone, 16, 16)
	t2, _, ok2 := setupTriangle(pts[0], pts[2], pts[3], CullNone, 16, 16)
	if !ok1 || !ok2 {
		t.Fatal("setupTriangle rejected a valid triangle")
	}

	inside := func(tri triangle, px, py int) bool {
		x, y := pixelCenter(px), pixelCenter(py)
		a, b, c := tri.v[0], tri.v[1], tri.v[2]
		return covers(edge(b.x, b.y, c.x, c.y, x, y), tri.tl[0]) &&
			covers(edge(c.x, c.y, a.x, a.y, x, y), tri.tl[1]) &&
			covers(edge(a.x, a.y, b.x, b.y, x, y), tri.tl[2])
	}
	for i := 1; i < 8; i++ {
		n := 0
		if inside(t1, i, i) {
			n++
		}
		if inside(t2, i, i) {
			n++
		}
		if n != 1 {
			t.Errorf("diagonal pixel (%d, %d) covered %d times", i, i, n)
		}
	}
}
