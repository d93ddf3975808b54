package main

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shade"
	"github.com/gogpu/shade/raster"
)

// Procedural texture sizes.
const (
	checkerSize  = 64
	checkerCells = 8
	lightmapSize = 32
)

// Scene is a loaded config ready to render.
type Scene struct {
	cfg    Config
	camera *shade.Camera
	calls  []shade.DrawCall
}

// NewScene loads the textures of cfg through textures and builds one
// draw call per object. Relative texture paths resolve against baseDir.
func NewScene(cfg Config, baseDir string, textures *shade.TextureCache) (*Scene, error) {
	cam := shade.NewCamera(mgl32.Vec3(cfg.Camera.Position), float32(cfg.Width), float32(cfg.Height))
	cam.SetYawPitchRoll(
		mgl32.DegToRad(cfg.Camera.Yaw),
		mgl32.DegToRad(cfg.Camera.Pitch),
		mgl32.DegToRad(cfg.Camera.Roll))
	cam.Update()

	s := &Scene{cfg: cfg, camera: cam}
	frame := shade.FrameParams{Global: cam.GlobalTransform()}
	draw := shade.DrawParams{BlendMode: cfg.Mode}

	for i, o := range cfg.Objects {
		obj, err := loadObject(o, i, baseDir, textures)
		if err != nil {
			return nil, err
		}
		s.calls = append(s.calls, shade.DrawCall{
			Variant: shade.VariantLightmapped,
			Frame:   frame,
			Draw:    draw,
			Object:  obj,
			Mesh:    quadMesh(),
		})
	}
	return s, nil
}

func loadObject(o ObjectConfig, index int, baseDir string, textures *shade.TextureCache) (shade.ObjectParams, error) {
	sampler := shade.DefaultSampler()
	if o.Nearest {
		sampler.MagFilter, sampler.MinFilter = shade.FilterNearest, shade.FilterNearest
	}

	var tex, lm shade.Texture
	var err error
	if o.Texture != "" {
		if tex, err = textures.Load(resolve(baseDir, o.Texture), sampler); err != nil {
			return shade.ObjectParams{}, fmt.Errorf("object %q: %w", o.Name, err)
		}
	} else {
		tex = checkerTexture(index, sampler)
	}
	if o.Lightmap != "" {
		if lm, err = textures.Load(resolve(baseDir, o.Lightmap), sampler); err != nil {
			return shade.ObjectParams{}, fmt.Errorf("object %q: %w", o.Name, err)
		}
	} else {
		lm = spotLightmap(sampler)
	}

	local := mgl32.Translate3D(o.Position[0], o.Position[1], o.Position[2]).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(o.Rotation))).
		Mul4(mgl32.Scale3D(o.Size[0]/2, o.Size[1]/2, 1))
	return shade.ObjectParams{Local: shade.LocalTransform(local), Texture: tex, Lightmap: lm}, nil
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// quadMesh is the unit quad in the XY plane, facing a camera that looks
// down +Z. Texture v grows downward.
func quadMesh() shade.Mesh {
	v := func(x, y, u, vv float32) shade.Vertex {
		return shade.Vertex{
			Position:   mgl32.Vec4{x, y, 0, 1},
			Normal:     mgl32.Vec4{0, 0, -1, 0},
			UV:         mgl32.Vec2{u, vv},
			LightmapUV: mgl32.Vec2{u, vv},
		}
	}
	return shade.Mesh{
		Vertices: []shade.Vertex{
			v(1, -1, 0, 1),
			v(-1, -1, 1, 1),
			v(-1, 1, 1, 0),
			v(1, 1, 0, 0),
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// checkerTexture is a two-tone checkerboard. Every fourth cell is fully
// transparent and is discarded by the fragment stage.
func checkerTexture(seed int, s shade.Sampler) *shade.ImageTexture {
	palette := [][2]shade.RGBA{
		{shade.RGB(0.85, 0.75, 0.55), shade.RGB(0.55, 0.35, 0.25)},
		{shade.RGB(0.45, 0.65, 0.85), shade.RGB(0.2, 0.3, 0.5)},
	}
	colors := palette[seed%len(palette)]

	cell := checkerSize / checkerCells
	texels := make([]shade.RGBA, checkerSize*checkerSize)
	for y := range checkerSize {
		for x := range checkerSize {
			cx, cy := x/cell, y/cell
			c := colors[(cx+cy)%2]
			if cx%4 == 1 && cy%4 == 1 {
				c.A = 0
			}
			texels[y*checkerSize+x] = c
		}
	}
	t, _ := shade.NewTexture(checkerSize, checkerSize, texels, s)
	return t
}

// spotLightmap is a warm radial falloff around the texture center.
func spotLightmap(s shade.Sampler) *shade.ImageTexture {
	texels := make([]shade.RGBA, lightmapSize*lightmapSize)
	half := float64(lightmapSize) / 2
	for y := range lightmapSize {
		for x := range lightmapSize {
			dx := (float64(x) + 0.5 - half) / half
			dy := (float64(y) + 0.5 - half) / half
			i := float32(math.Max(0.15, 1-math.Sqrt(dx*dx+dy*dy)*0.8))
			texels[y*lightmapSize+x] = shade.RGB(i, i*0.9, i*0.75)
		}
	}
	t, _ := shade.NewTexture(lightmapSize, lightmapSize, texels, s)
	return t
}

// Render draws the scene into a new framebuffer.
func (s *Scene) Render() (*raster.Framebuffer, raster.Stats, error) {
	fb, err := raster.NewFramebuffer(s.cfg.Width, s.cfg.Height)
	if err != nil {
		return nil, raster.Stats{}, err
	}
	c := s.cfg.Clear
	fb.Clear(shade.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]})

	r := raster.NewRenderer(s.cfg.rasterOptions()...)
	defer r.Close()

	var total raster.Stats
	for i := range s.calls {
		st, err := r.Draw(fb, &s.calls[i])
		if err != nil {
			return nil, total, fmt.Errorf("object %q: %w", s.cfg.Objects[i].Name, err)
		}
		total.Add(st)
	}
	return fb, total, nil
}
