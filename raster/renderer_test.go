// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shade"
)

// quad covers the whole viewport at depth z, counter-clockwise in NDC.
func quad(z float32) []shade.Vertex {
	pos := []mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, -1}, {1, 1}, {-1, 1}}
	vs := make([]shade.Vertex, len(pos))
	for i, p := range pos {
		uv := mgl32.Vec2{(p[0] + 1) / 2, (1 - p[1]) / 2}
		vs[i] = shade.Vertex{
			Position:   mgl32.Vec4{p[0], p[1], z, 1},
			UV:         uv,
			LightmapUV: uv,
		}
	}
	return vs
}

func lightmapCall(tex, lm shade.RGBA, mode shade.BlendMode, z float32) *shade.DrawCall {
	return &shade.DrawCall{
		Variant: shade.VariantLightmapped,
		Frame:   shade.FrameParams{Global: shade.IdentityGlobal()},
		Draw:    shade.DrawParams{BlendMode: mode},
		Object: shade.ObjectParams{
			Local:    shade.IdentityLocal(),
			Texture:  shade.NewSolidTexture(tex),
			Lightmap: shade.NewSolidTexture(lm),
		},
		Mesh: shade.Mesh{Vertices: quad(z)},
	}
}

func newTarget(t *testing.T, w, h int) *Framebuffer {
	t.Helper()
	fb, err := NewFramebuffer(w, h)
	if err != nil {
		t.Fatalf("NewFramebuffer: %v", err)
	}
	return fb
}

func draw(t *testing.T, r *Renderer, fb *Framebuffer, call *shade.DrawCall) Stats {
	t.Helper()
	st, err := r.Draw(fb, call)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	return st
}

func eachPixel(fb *Framebuffer, fn func(x, y int)) {
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			fn(x, y)
		}
	}
}

func TestDraw_MultiplyFullScreen(t *testing.T) {
	r := NewRenderer(WithWorkers(4))
	defer r.Close()

	fb := newTarget(t, 97, 131)
	call := lightmapCall(shade.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}, shade.RGBA{R: 0.2, G: 0.4, B: 0.6, A: 1}, shade.BlendMultiply, 0.5)
	st := draw(t, r, fb, call)

	want := shade.RGBA{R: 0.1, G: 0.2, B: 0.3, A: 1}
	eachPixel(fb, func(x, y int) {
		if got := fb.GetPixel(x, y); got != want {
			t.Fatalf("pixel (%d, %d) = %+v, want %+v", x, y, got, want)
		}
		if d := fb.Depth(x, y); d != 0.5 {
			t.Fatalf("depth (%d, %d) = %v, want 0.5", x, y, d)
		}
	})

	// Every pixel is covered exactly once: a second hit would fail the
	// Less depth test against the first.
	if st.Written != 97*131 || st.DepthRejected != 0 {
		t.Errorf("stats = %+v, want %d writes and no depth rejects", st, 97*131)
	}
	if st.Triangles != 2 || st.Culled != 0 {
		t.Errorf("stats = %+v, want 2 triangles none culled", st)
	}
}

func TestDraw_ZeroAlphaLeavesSentinel(t *testing.T) {
	r := NewRenderer()
	defer r.Close()

	sentinel := shade.RGBA{R: 0.125, G: 0.25, B: 0.75, A: 0.5}
	for _, mode := range []shade.BlendMode{shade.BlendRaw, shade.BlendReplace, shade.BlendMultiply, 99} {
		fb := newTarget(t, 40, 30)
		fb.Clear(sentinel)

		call := lightmapCall(shade.RGBA{R: 1, G: 1, B: 1, A: 0}, shade.White, mode, 0.25)
		st := draw(t, r, fb, call)

		eachPixel(fb, func(x, y int) {
			if got := fb.GetPixel(x, y); got != sentinel {
				t.Fatalf("mode %v pixel (%d, %d) = %+v, want sentinel", mode, x, y, got)
			}
			if d := fb.Depth(x, y); d != ClearDepth {
				t.Fatalf("mode %v depth (%d, %d) = %v, want %v", mode, x, y, d, float32(ClearDepth))
			}
		})
		if st.Discarded != 40*30 || st.Written != 0 {
			t.Errorf("mode %v stats = %+v, want every fragment discarded", mode, st)
		}
	}
}

func TestDraw_SmallAlphaWrites(t *testing.T) {
	r := NewRenderer(WithBlend(BlendReplace))
	defer r.Close()

	fb := newTarget(t, 8, 8)
	fb.Clear(shade.White)
	st := draw(t, r, fb, lightmapCall(shade.RGBA{R: 0, G: 0, B: 0, A: 0.0001}, shade.White, shade.BlendRaw, 0.5))

	if st.Discarded != 0 || st.Written != 64 {
		t.Errorf("stats = %+v, want 64 writes", st)
	}
	if got := fb.GetPixel(3, 3); got.A != 0.0001 {
		t.Errorf("alpha = %v, want 0.0001", got.A)
	}
}

func TestDraw_DiscardDoesNotOcclude(t *testing.T) {
	r := NewRenderer()
	defer r.Close()

	fb := newTarget(t, 16, 16)
	draw(t, r, fb, lightmapCall(shade.Transparent, shade.White, shade.BlendRaw, 0.1))
	draw(t, r, fb, lightmapCall(shade.Red, shade.White, shade.BlendRaw, 0.9))

	if got := fb.GetPixel(8, 8); got != (shade.RGBA{R: 1, G: 0, B: 0, A: 1}) {
		t.Errorf("pixel = %+v, want red behind discarded quad", got)
	}
	if d := fb.Depth(8, 8); d != 0.9 {
		t.Errorf("depth = %v, want 0.9", d)
	}
}

func TestDraw_DepthTest(t *testing.T) {
	r := NewRenderer(WithBlend(BlendReplace))
	defer r.Close()

	fb := newTarget(t, 10, 10)
	draw(t, r, fb, lightmapCall(shade.Red, shade.White, shade.BlendRaw, 0.3))
	st := draw(t, r, fb, lightmapCall(shade.Green, shade.White, shade.BlendRaw, 0.6))
	if got := fb.GetPixel(5, 5); got != shade.Red {
		t.Errorf("far quad overwrote near quad: %+v", got)
	}
	if st.DepthRejected != 100 {
		t.Errorf("DepthRejected = %d, want 100", st.DepthRejected)
	}

	// Equal depth fails Less.
	draw(t, r, fb, lightmapCall(shade.Blue, shade.White, shade.BlendRaw, 0.3))
	if got := fb.GetPixel(5, 5); got != shade.Red {
		t.Errorf("equal-depth quad passed the Less test: %+v", got)
	}

	draw(t, r, fb, lightmapCall(shade.Blue, shade.White, shade.BlendRaw, 0.1))
	if got := fb.GetPixel(5, 5); got != shade.Blue {
		t.Errorf("nearer quad = %+v, want blue", got)
	}
}

func TestDraw_DepthTestDisabled(t *testing.T) {
	r := NewRenderer(WithBlend(BlendReplace), WithDepthTest(false))
	defer r.Close()

	fb := newTarget(t, 4, 4)
	draw(t, r, fb, lightmapCall(shade.Red, shade.White, shade.BlendRaw, 0.3))
	draw(t, r, fb, lightmapCall(shade.Green, shade.White, shade.BlendRaw, 0.6))
	if got := fb.GetPixel(1, 1); got != shade.Green {
		t.Errorf("pixel = %+v, want last draw", got)
	}
	if d := fb.Depth(1, 1); d != ClearDepth {
		t.Errorf("depth written with depth test off: %v", d)
	}
}

func TestDraw_UnknownModeMatchesRaw(t *testing.T) {
	r := NewRenderer()
	defer r.Close()

	tex := shade.RGBA{R: 0.3, G: 0.6, B: 0.9, A: 0.7}
	lm := shade.RGBA{R: 0.1, G: 0.2, B: 0.4, A: 1}

	raw := newTarget(t, 12, 9)
	draw(t, r, raw, lightmapCall(tex, lm, shade.BlendRaw, 0.5))

	for _, mode := range []shade.BlendMode{3, 99, -1} {
		fb := newTarget(t, 12, 9)
		draw(t, r, fb, lightmapCall(tex, lm, mode, 0.5))
		eachPixel(fb, func(x, y int) {
			a, b := fb.GetPixel(x, y), raw.GetPixel(x, y)
			if math.Float32bits(a.R) != math.Float32bits(b.R) ||
				math.Float32bits(a.G) != math.Float32bits(b.G) ||
				math.Float32bits(a.B) != math.Float32bits(b.B) ||
				math.Float32bits(a.A) != math.Float32bits(b.A) {
				t.Fatalf("mode %v pixel (%d, %d) = %+v, want Raw %+v", mode, x, y, a, b)
			}
		})
	}
}

func TestDraw_TransformOrder(t *testing.T) {
	r := NewRenderer(WithBlend(BlendReplace))
	defer r.Close()

	// G · L scales the quad to [-0.5, 0.5] and then moves it to [-1, 0]:
	// exactly the left half of the target.
	call := lightmapCall(shade.White, shade.White, shade.BlendRaw, 0.5)
	call.Frame.Global = shade.GlobalTransform(mgl32.Translate3D(-0.5, 0, 0))
	call.Object.Local = shade.LocalTransform(mgl32.Scale3D(0.5, 1, 1))

	fb := newTarget(t, 8, 4)
	draw(t, r, fb, call)

	for x := 0; x < 8; x++ {
		covered := fb.GetPixel(x, 2) == shade.White
		if want := x < 4; covered != want {
			t.Errorf("column %d covered = %v, want %v", x, covered, want)
		}
	}
}

func TestDraw_Culling(t *testing.T) {
	cw := []shade.Vertex{
		{Position: mgl32.Vec4{-1, -1, 0.5, 1}},
		{Position: mgl32.Vec4{0, 1, 0.5, 1}},
		{Position: mgl32.Vec4{1, -1, 0.5, 1}},
	}
	tests := []struct {
		name       string
		cull       CullMode
		vertices   []shade.Vertex
		wantCulled int
	}{
		{"back cull drops clockwise", CullBack, cw, 1},
		{"no cull keeps clockwise", CullNone, cw, 0},
		{"front cull drops counter-clockwise", CullFront, quad(0.5)[:3], 1},
		{"back cull keeps counter-clockwise", CullBack, quad(0.5)[:3], 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(WithCullMode(tt.cull))
			defer r.Close()

			call := lightmapCall(shade.White, shade.White, shade.BlendRaw, 0)
			call.Mesh = shade.Mesh{Vertices: tt.vertices}
			st := draw(t, r, newTarget(t, 16, 16), call)
			if st.Culled != tt.wantCulled {
				t.Errorf("Culled = %d, want %d", st.Culled, tt.wantCulled)
			}
			if (st.Written == 0) != (tt.wantCulled == 1) {
				t.Errorf("Written = %d with Culled = %d", st.Written, st.Culled)
			}
		})
	}
}

func TestDraw_NearClip(t *testing.T) {
	r := NewRenderer(WithCullMode(CullNone))
	defer r.Close()

	behind := lightmapCall(shade.White, shade.White, shade.BlendRaw, -0.5)
	behind.Mesh.Vertices = behind.Mesh.Vertices[:3]
	st := draw(t, r, newTarget(t, 16, 16), behind)
	if st.Clipped != 1 || st.Written != 0 {
		t.Errorf("behind near plane: stats = %+v, want clipped", st)
	}

	// One vertex behind the plane: part of the triangle survives.
	partial := lightmapCall(shade.White, shade.White, shade.BlendRaw, 0.5)
	partial.Mesh.Vertices = partial.Mesh.Vertices[:3]
	partial.Mesh.Vertices[2].Position[2] = -0.5
	fb := newTarget(t, 16, 16)
	st = draw(t, r, fb, partial)
	if st.Clipped != 0 || st.Written == 0 {
		t.Errorf("partially clipped: stats = %+v", st)
	}
	eachPixel(fb, func(x, y int) {
		if d := fb.Depth(x, y); d < 0 {
			t.Fatalf("depth (%d, %d) = %v, behind near plane", x, y, d)
		}
	})
}

func TestDraw_TexturedVariant(t *testing.T) {
	r := NewRenderer(WithBlend(BlendReplace))
	defer r.Close()

	call := &shade.DrawCall{
		Variant: shade.VariantTextured,
		Frame:   shade.FrameParams{Global: shade.IdentityGlobal()},
		Object: shade.ObjectParams{
			Local:   shade.IdentityLocal(),
			Texture: shade.NewSolidTexture(shade.Transparent),
		},
		Mesh: shade.Mesh{Vertices: quad(0.5)},
	}
	fb := newTarget(t, 6, 6)
	fb.Clear(shade.White)
	st := draw(t, r, fb, call)

	if st.Discarded != 0 || st.Written != 36 {
		t.Errorf("stats = %+v, want every fragment written", st)
	}
	if got := fb.GetPixel(2, 2); got != shade.Transparent {
		t.Errorf("pixel = %+v, want the transparent texel", got)
	}
}

func TestDraw_PerspectiveTexturing(t *testing.T) {
	r := NewRenderer(WithBlend(BlendReplace), WithCullMode(CullNone))
	defer r.Close()

	// Left half red, right half green, nearest sampling.
	s := shade.Sampler{
		AddressModeU: shade.AddressClampToEdge,
		AddressModeV: shade.AddressClampToEdge,
		MagFilter:    shade.FilterNearest,
		MinFilter:    shade.FilterNearest,
	}
	tex, err := shade.NewTexture(2, 1, []shade.RGBA{shade.Red, shade.Green}, s)
	if err != nil {
		t.Fatal(err)
	}

	cam := shade.NewCamera(mgl32.Vec3{0, 0, -3}, 64, 64)
	call := &shade.DrawCall{
		Variant: shade.VariantTextured,
		Frame:   shade.FrameParams{Global: cam.GlobalTransform()},
		Object:  shade.ObjectParams{Local: shade.IdentityLocal(), Texture: tex},
		Mesh:    shade.Mesh{Vertices: quad(0)},
	}
	fb := newTarget(t, 64, 64)
	st := draw(t, r, fb, call)
	if st.Written == 0 {
		t.Fatal("nothing drawn")
	}

	// Camera looks down +Z, so world -X is on the right of the screen and
	// u = 0 (red) lands right of center.
	if got := fb.GetPixel(40, 32); got != shade.Red {
		t.Errorf("right of center = %+v, want red", got)
	}
	if got := fb.GetPixel(24, 32); got != shade.Green {
		t.Errorf("left of center = %+v, want green", got)
	}
}

func TestDraw_WorkerCountDeterministic(t *testing.T) {
	call := lightmapCall(shade.RGBA{R: 0.9, G: 0.5, B: 0.1, A: 0.6}, shade.RGBA{R: 0.5, G: 1, B: 0.5, A: 1}, shade.BlendMultiply, 0.5)
	var verts []shade.Vertex
	for i := range 20 {
		off := float32(i)*0.05 - 0.5
		for _, v := range quad(0.9 - float32(i)*0.04) {
			v.Position[0] = v.Position[0]*0.4 + off
			v.Position[1] = v.Position[1]*0.4 - off
			verts = append(verts, v)
		}
	}
	call.Mesh.Vertices = verts

	render := func(workers int) *Framebuffer {
		r := NewRenderer(WithWorkers(workers))
		defer r.Close()
		fb := newTarget(t, 200, 150)
		draw(t, r, fb, call)
		return fb
	}
	one, many := render(1), render(8)
	eachPixel(one, func(x, y int) {
		if one.GetPixel(x, y) != many.GetPixel(x, y) || one.Depth(x, y) != many.Depth(x, y) {
			t.Fatalf("pixel (%d, %d) differs between 1 and 8 workers", x, y)
		}
	})
}

func TestDraw_EmptyMesh(t *testing.T) {
	r := NewRenderer()
	defer r.Close()

	sentinel := shade.RGBA{R: 0.5, A: 1}
	fb := newTarget(t, 8, 8)
	fb.Clear(sentinel)

	call := lightmapCall(shade.White, shade.White, shade.BlendRaw, 0)
	call.Mesh = shade.Mesh{}
	if st := draw(t, r, fb, call); st != (Stats{}) {
		t.Errorf("stats = %+v, want zero", st)
	}
	eachPixel(fb, func(x, y int) {
		if got := fb.GetPixel(x, y); got != sentinel {
			t.Fatalf("pixel (%d, %d) = %+v, want untouched", x, y, got)
		}
	})
}

func TestDraw_Errors(t *testing.T) {
	r := NewRenderer()
	fb := newTarget(t, 4, 4)

	if _, err := r.Draw(nil, lightmapCall(shade.White, shade.White, shade.BlendRaw, 0)); !errors.Is(err, ErrNilFramebuffer) {
		t.Errorf("Draw(nil) error = %v, want %v", err, ErrNilFramebuffer)
	}

	bad := lightmapCall(shade.White, shade.White, shade.BlendRaw, 0)
	bad.Object.Lightmap = nil
	if _, err := r.Draw(fb, bad); !errors.Is(err, shade.ErrMissingLightmap) {
		t.Errorf("Draw(no lightmap) error = %v, want %v", err, shade.ErrMissingLightmap)
	}

	r.Close()
	if _, err := r.Draw(fb, lightmapCall(shade.White, shade.White, shade.BlendRaw, 0)); !errors.Is(err, ErrClosed) {
		t.Errorf("Draw after Close error = %v, want %v", err, ErrClosed)
	}
}

func BenchmarkDraw(b *testing.B) {
	r := NewRenderer()
	defer r.Close()

	fb, _ := NewFramebuffer(512, 512)
	call := lightmapCall(shade.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}, shade.RGBA{R: 0.2, G: 0.4, B: 0.6, A: 1}, shade.BlendMultiply, 0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fb.ClearDepth(ClearDepth)
		_, _ = r.Draw(fb, call)
	}
}
