// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster is a software executor for shade draw calls.
//
// It plays the part of the fixed-function hardware around the two shading
// stages: primitive assembly, near-plane clipping, face culling, scan
// conversion with perspective-correct interpolation, the depth test and
// output blending. The render target is split into tiles that are shaded
// in parallel; each tile is owned by one goroutine for the whole draw.
package raster

import (
	"errors"
	"fmt"

	"github.com/gogpu/shade"
	"github.com/gogpu/shade/internal/blend"
	"github.com/gogpu/shade/internal/parallel"
)

// Renderer errors.
var (
	// ErrInvalidSize is returned for a framebuffer with a zero or
	// negative dimension.
	ErrInvalidSize = errors.New("raster: invalid framebuffer size")

	// ErrNilFramebuffer is returned when Draw is given no target.
	ErrNilFramebuffer = errors.New("raster: nil framebuffer")

	// ErrClosed is returned by Draw after Close.
	ErrClosed = errors.New("raster: renderer closed")
)

// vertexChunk is the number of vertices one vertex-stage work item runs.
const vertexChunk = 1024

// Stats counts what happened to the primitives and fragments of a draw.
type Stats struct {
	Triangles     int // submitted
	Culled        int // rejected by face culling
	Clipped       int // entirely behind the near plane
	Fragments     int // covered pixels that reached the fragment stage
	Discarded     int // fragments the fragment stage discarded
	DepthRejected int // fragments that failed the depth test
	Written       int // fragments written to the target
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Triangles += o.Triangles
	s.Culled += o.Culled
	s.Clipped += o.Clipped
	s.Fragments += o.Fragments
	s.Discarded += o.Discarded
	s.DepthRejected += o.DepthRejected
	s.Written += o.Written
}

// Renderer executes draw calls on the CPU.
//
// Thread safety: Draw may be called from one goroutine at a time per
// Framebuffer. The renderer itself holds no per-draw state.
type Renderer struct {
	pool *parallel.WorkerPool
	opts options
}

// NewRenderer creates a renderer and starts its worker pool.
func NewRenderer(opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer{pool: parallel.NewWorkerPool(o.workers), opts: o}
}

// Close stops the worker pool. Close is safe to call multiple times.
func (r *Renderer) Close() {
	r.pool.Close()
}

// Workers returns the number of shading goroutines.
func (r *Renderer) Workers() int {
	return r.pool.Workers()
}

// Draw runs one draw call into fb. The call is validated first; an
// invalid call leaves fb untouched.
func (r *Renderer) Draw(fb *Framebuffer, call *shade.DrawCall) (Stats, error) {
	if fb == nil {
		return Stats{}, ErrNilFramebuffer
	}
	if !r.pool.IsRunning() {
		shade.Logger().Warn("raster: draw on closed renderer")
		return Stats{}, ErrClosed
	}
	s, err := call.Shader()
	if err != nil {
		return Stats{}, fmt.Errorf("raster: draw: %w", err)
	}

	varyings := r.runVertexStage(s, call.Mesh.Vertices)

	stats := Stats{Triangles: call.Mesh.TriangleCount()}
	tris := r.assemble(&call.Mesh, varyings, fb, &stats)

	tiles := parallel.Grid(fb.width, fb.height)
	bins := binTriangles(tris, fb.width, fb.height, len(tiles))

	tileStats := make([]Stats, len(tiles))
	work := make([]func(), 0, len(tiles))
	for i, tile := range tiles {
		if len(bins[i]) == 0 {
			continue
		}
		work = append(work, func() {
			r.shadeTile(fb, tile, bins[i], s, &tileStats[i])
		})
	}
	r.pool.ExecuteAll(work)

	for i := range tileStats {
		stats.Add(tileStats[i])
	}

	shade.Logger().Debug("raster: draw",
		"variant", call.Variant,
		"blend_mode", call.Draw.BlendMode,
		"triangles", stats.Triangles,
		"culled", stats.Culled,
		"clipped", stats.Clipped,
		"fragments", stats.Fragments,
		"discarded", stats.Discarded,
		"written", stats.Written)
	return stats, nil
}

// runVertexStage invokes the vertex stage once per vertex.
func (r *Renderer) runVertexStage(s shade.Shader, vertices []shade.Vertex) []shade.Varyings {
	out := make([]shade.Varyings, len(vertices))
	var work []func()
	for start := 0; start < len(vertices); start += vertexChunk {
		end := min(start+vertexChunk, len(vertices))
		work = append(work, func() {
			for i := start; i < end; i++ {
				out[i] = s.Vertex(vertices[i])
			}
		})
	}
	r.pool.ExecuteAll(work)
	return out
}

// assemble builds screen-space triangles in submission order.
func (r *Renderer) assemble(mesh *shade.Mesh, varyings []shade.Varyings, fb *Framebuffer, stats *Stats) []triangle {
	w, h := float32(fb.width), float32(fb.height)
	tris := make([]triangle, 0, mesh.TriangleCount())

	var poly, clipped [9]shade.Varyings
	for t := 0; t < mesh.TriangleCount(); t++ {
		in := poly[:3]
		for k := range 3 {
			in[k] = varyings[mesh.Index(t*3+k)]
		}

		out := in
		if !inFrontOfNear(in) {
			out = clipNear(in, clipped[:0])
		}
		if len(out) < 3 {
			stats.Clipped++
			continue
		}

		var sv [9]screenVertex
		visible := true
		for k, v := range out {
			var ok bool
			if sv[k], ok = toScreen(v, w, h); !ok {
				visible = false
				break
			}
		}
		if !visible {
			stats.Clipped++
			continue
		}

		for k := 1; k+1 < len(out); k++ {
			tri, culled, ok := setupTriangle(sv[0], sv[k], sv[k+1], r.opts.cull, fb.width, fb.height)
			if culled {
				stats.Culled++
			}
			if ok {
				tris = append(tris, tri)
			}
		}
	}
	return tris
}

func inFrontOfNear(vs []shade.Varyings) bool {
	for _, v := range vs {
		if !(v.Position[2] >= 0) {
			return false
		}
	}
	return true
}

// binTriangles lists, per tile, the triangles whose bounding box reaches
// into it, keeping submission order.
func binTriangles(tris []triangle, width, height, n int) [][]*triangle {
	cols := (width + parallel.TileWidth - 1) / parallel.TileWidth
	bins := make([][]*triangle, n)
	for i := range tris {
		t := &tris[i]
		x0 := t.bbox.Min.X / parallel.TileWidth
		x1 := (t.bbox.Max.X - 1) / parallel.TileWidth
		y0 := t.bbox.Min.Y / parallel.TileHeight
		y1 := (t.bbox.Max.Y - 1) / parallel.TileHeight
		for ty := y0; ty <= y1; ty++ {
			for tx := x0; tx <= x1; tx++ {
				idx := ty*cols + tx
				bins[idx] = append(bins[idx], t)
			}
		}
	}
	return bins
}

// shadeTile scan-converts the binned triangles inside one tile. Only
// this call touches the tile's pixels during the draw.
func (r *Renderer) shadeTile(fb *Framebuffer, tile parallel.Tile, tris []*triangle, s shade.Shader, st *Stats) {
	mode := r.opts.blend.mode()
	for _, t := range tris {
		rect := t.bbox.Intersect(tile.Rect)
		if rect.Empty() {
			continue
		}
		a, b, c := &t.v[0], &t.v[1], &t.v[2]
		invArea := 1 / float32(t.area)

		for py := rect.Min.Y; py < rect.Max.Y; py++ {
			y := pixelCenter(py)
			for px := rect.Min.X; px < rect.Max.X; px++ {
				x := pixelCenter(px)

				w0 := edge(b.x, b.y, c.x, c.y, x, y)
				w1 := edge(c.x, c.y, a.x, a.y, x, y)
				w2 := edge(a.x, a.y, b.x, b.y, x, y)
				if !covers(w0, t.tl[0]) || !covers(w1, t.tl[1]) || !covers(w2, t.tl[2]) {
					continue
				}

				b0 := float32(w0) * invArea
				b1 := float32(w1) * invArea
				b2 := float32(w2) * invArea

				// Written relative to the first vertex so a constant depth
				// interpolates exactly.
				z := a.z + b1*(b.z-a.z) + b2*(c.z-a.z)
				if z < 0 || z > 1 {
					continue
				}

				idx := py*fb.width + px
				if r.opts.depthTest && !(z < fb.depth[idx]) {
					st.DepthRejected++
					continue
				}

				st.Fragments++
				out, ok := s.Fragment(interpolate(a, b, c, b0, b1, b2, px, py, z))
				if !ok {
					st.Discarded++
					continue
				}

				if r.opts.depthTest {
					fb.depth[idx] = z
				}
				fb.color[idx] = blend.Blend(out, fb.color[idx], mode).Clamp()
				st.Written++
			}
		}
	}
}

func covers(w int64, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}

// interpolate builds the fragment record. Texture coordinates are
// perspective-correct; Position holds the window-space x, y, depth and
// the interpolated clip w.
func interpolate(a, b, c *screenVertex, b0, b1, b2 float32, px, py int, z float32) shade.Varyings {
	p0, p1, p2 := b0*a.invW, b1*b.invW, b2*c.invW
	sum := p0 + p1 + p2
	p0, p1, p2 = p0/sum, p1/sum, p2/sum

	v := shade.Varyings{}
	v.Position[0] = float32(px) + 0.5
	v.Position[1] = float32(py) + 0.5
	v.Position[2] = z
	v.Position[3] = 1 / sum
	v.UV = a.uv.Mul(p0).Add(b.uv.Mul(p1)).Add(c.uv.Mul(p2))
	v.LightmapUV = a.lm.Mul(p0).Add(b.lm.Mul(p1)).Add(c.lm.Mul(p2))
	return v
}
