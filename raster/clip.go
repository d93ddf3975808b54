// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shade"
)

// lerpVaryings interpolates every varying linearly in clip space.
func lerpVaryings(a, b shade.Varyings, t float32) shade.Varyings {
	return shade.Varyings{
		Position:   a.Position.Add(b.Position.Sub(a.Position).Mul(t)),
		UV:         a.UV.Add(b.UV.Sub(a.UV).Mul(t)),
		LightmapUV: a.LightmapUV.Add(b.LightmapUV.Sub(a.LightmapUV).Mul(t)),
	}
}

// clipNear clips a convex polygon against the near plane z >= 0 of the
// [0, 1] depth range and appends the result to out. NaN positions count
// as outside.
func clipNear(in, out []shade.Varyings) []shade.Varyings {
	out = out[:0]
	for i := range in {
		a := in[i]
		b := in[(i+1)%len(in)]
		da, db := a.Position[2], b.Position[2]
		aIn, bIn := da >= 0, db >= 0
		if aIn {
			out = append(out, a)
		}
		if aIn != bIn {
			out = append(out, lerpVaryings(a, b, da/(da-db)))
		}
	}
	return out
}

// Scan conversion runs on a fixed-point grid so the edge functions are
// exact: a pixel center on an edge shared by two triangles gets edge
// values of exactly opposite sign and is shaded once.
const (
	subpixelBits  = 8
	subpixelScale = 1 << subpixelBits
	subpixelHalf  = subpixelScale / 2

	// coordLimit bounds snapped coordinates so edge products fit in int64.
	coordLimit = 1 << 20
)

// screenVertex is a vertex after perspective division and the viewport
// transform.
type screenVertex struct {
	x, y   int64 // snapped window position, subpixel units
	z      float32
	invW   float32
	uv, lm mgl32.Vec2
}

// toScreen maps a clip-space vertex to window coordinates with the origin
// at the top-left corner. ok is false when w is not positive or the
// position is not finite.
func toScreen(v shade.Varyings, width, height float32) (screenVertex, bool) {
	w := v.Position[3]
	if !(w > 0) {
		return screenVertex{}, false
	}
	inv := 1 / w
	x := (v.Position[0]*inv + 1) * 0.5 * width
	y := (1 - v.Position[1]*inv) * 0.5 * height
	fx, okX := snap(x)
	fy, okY := snap(y)
	if !okX || !okY {
		return screenVertex{}, false
	}
	return screenVertex{
		x:    fx,
		y:    fy,
		z:    v.Position[2] * inv,
		invW: inv,
		uv:   v.UV,
		lm:   v.LightmapUV,
	}, true
}

func snap(v float32) (int64, bool) {
	f := math.Round(float64(v) * subpixelScale)
	if math.IsNaN(f) {
		return 0, false
	}
	if f > coordLimit*subpixelScale {
		f = coordLimit * subpixelScale
	} else if f < -coordLimit*subpixelScale {
		f = -coordLimit * subpixelScale
	}
	return int64(f), true
}

// pixelCenter returns the subpixel coordinate of the center of pixel i.
func pixelCenter(i int) int64 {
	return int64(i)*subpixelScale + subpixelHalf
}

// edge is the doubled signed area of (a, b, p). It is positive when p is
// on the inner side of a -> b for a triangle with positive area.
func edge(ax, ay, bx, by, px, py int64) int64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether a -> b is a top or left edge. Pixel centers
// exactly on an edge belong to the triangle only for those edges.
func topLeft(a, b screenVertex) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return dy < 0 || (dy == 0 && dx > 0)
}

// triangle is a screen-space triangle ready for scan conversion. Vertices
// are ordered so area is positive.
type triangle struct {
	v    [3]screenVertex
	area int64
	tl   [3]bool // top-left flag of the edge opposite each vertex
	bbox image.Rectangle
}

// setupTriangle orders the vertices, applies face culling and computes
// the pixel bounding box. ok is false for culled or degenerate triangles.
func setupTriangle(a, b, c screenVertex, cull CullMode, width, height int) (t triangle, culled, ok bool) {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return triangle{}, false, false
	}

	// Screen y points down, so a counter-clockwise NDC triangle has
	// negative screen area.
	front := area < 0
	if (cull == CullBack && !front) || (cull == CullFront && front) {
		return triangle{}, true, false
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}

	t = triangle{v: [3]screenVertex{a, b, c}, area: area}
	t.tl = [3]bool{topLeft(b, c), topLeft(c, a), topLeft(a, b)}

	t.bbox = image.Rect(
		clampPixel(floorDiv(min(a.x, b.x, c.x)), width),
		clampPixel(floorDiv(min(a.y, b.y, c.y)), height),
		clampPixel(ceilDiv(max(a.x, b.x, c.x)), width),
		clampPixel(ceilDiv(max(a.y, b.y, c.y)), height),
	)
	if t.bbox.Empty() {
		return triangle{}, false, false
	}
	return t, false, true
}

func floorDiv(v int64) int64 {
	if v >= 0 {
		return v / subpixelScale
	}
	return -((-v + subpixelScale - 1) / subpixelScale)
}

func ceilDiv(v int64) int64 {
	return -floorDiv(-v)
}

func clampPixel(v int64, limit int) int {
	if v < 0 {
		return 0
	}
	if v > int64(limit) {
		return limit
	}
	return int(v)
}
