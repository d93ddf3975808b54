package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/shade"
	"github.com/gogpu/shade/raster"
)

// Config is the scene description read from a TOML file.
//
// Example:
//
//	width = 640
//	height = 480
//	mode = "multiply"
//
//	[camera]
//	position = [0.0, 0.0, -6.0]
//
//	[[object]]
//	name = "wall"
//	position = [0.0, 0.0, 0.0]
//	size = [4.0, 4.0]
//	lightmap = "lightmaps/wall.png"
type Config struct {
	Width   int             `toml:"width"`
	Height  int             `toml:"height"`
	Mode    shade.BlendMode `toml:"mode"`
	Output  string          `toml:"output"`
	Workers int             `toml:"workers"`
	Blend   string          `toml:"blend"` // output blending: alpha or replace
	Cull    string          `toml:"cull"`  // back, front or none
	Clear   [4]float32      `toml:"clear"`

	Camera  CameraConfig   `toml:"camera"`
	Objects []ObjectConfig `toml:"object"`
}

// CameraConfig places the camera. Angles are in degrees.
type CameraConfig struct {
	Position [3]float32 `toml:"position"`
	Yaw      float32    `toml:"yaw"`
	Pitch    float32    `toml:"pitch"`
	Roll     float32    `toml:"roll"`
}

// ObjectConfig is one lightmapped quad. Texture paths are relative to the
// config file; an empty path selects a procedural texture.
type ObjectConfig struct {
	Name     string     `toml:"name"`
	Position [3]float32 `toml:"position"`
	Size     [2]float32 `toml:"size"`
	Rotation float32    `toml:"rotation"` // degrees about +Y
	Texture  string     `toml:"texture"`
	Lightmap string     `toml:"lightmap"`
	Nearest  bool       `toml:"nearest"`
}

// Config errors.
var (
	errInvalidSize   = errors.New("shadedemo: width and height must be positive")
	errInvalidBlend  = errors.New("shadedemo: blend must be alpha or replace")
	errInvalidCull   = errors.New("shadedemo: cull must be back, front or none")
	errInvalidObject = errors.New("shadedemo: object size must be positive")
)

// DefaultConfig returns the built-in scene: a checkered wall with holes
// in front of a second, rotated panel.
func DefaultConfig() Config {
	return Config{
		Width:  640,
		Height: 480,
		Mode:   shade.BlendMultiply,
		Output: "shadedemo.png",
		Blend:  "alpha",
		Cull:   "back",
		Clear:  [4]float32{0.08, 0.09, 0.12, 1},
		Camera: CameraConfig{Position: [3]float32{0, 0.5, -7}, Pitch: -4},
		Objects: []ObjectConfig{
			{Name: "wall", Position: [3]float32{0, 0, 0}, Size: [2]float32{4, 3}},
			{Name: "panel", Position: [3]float32{1.5, 0.5, 2}, Size: [2]float32{3, 3}, Rotation: 30},
		},
	}
}

// LoadConfig reads path over the defaults. Unknown keys are errors so
// that typos do not silently fall back to a default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return cfg, fmt.Errorf("shadedemo: open config: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("shadedemo: %s:\n%s", path, strict.String())
		}
		var decErr *toml.DecodeError
		if errors.As(err, &decErr) {
			row, col := decErr.Position()
			return cfg, fmt.Errorf("shadedemo: %s:%d:%d: %w", path, row, col, err)
		}
		return cfg, fmt.Errorf("shadedemo: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges the TOML types cannot express.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", errInvalidSize, c.Width, c.Height)
	}
	if _, err := c.rasterBlend(); err != nil {
		return err
	}
	if _, err := c.rasterCull(); err != nil {
		return err
	}
	for _, o := range c.Objects {
		if o.Size[0] <= 0 || o.Size[1] <= 0 {
			return fmt.Errorf("%w: %q", errInvalidObject, o.Name)
		}
	}
	return nil
}

func (c *Config) rasterBlend() (raster.BlendMode, error) {
	switch strings.ToLower(c.Blend) {
	case "", "alpha":
		return raster.BlendAlpha, nil
	case "replace":
		return raster.BlendReplace, nil
	default:
		return raster.BlendAlpha, fmt.Errorf("%w: %q", errInvalidBlend, c.Blend)
	}
}

func (c *Config) rasterCull() (raster.CullMode, error) {
	switch strings.ToLower(c.Cull) {
	case "", "back":
		return raster.CullBack, nil
	case "front":
		return raster.CullFront, nil
	case "none":
		return raster.CullNone, nil
	default:
		return raster.CullBack, fmt.Errorf("%w: %q", errInvalidCull, c.Cull)
	}
}

// rasterOptions returns the renderer options of a validated config.
func (c *Config) rasterOptions() []raster.Option {
	blend, _ := c.rasterBlend()
	cull, _ := c.rasterCull()
	return []raster.Option{
		raster.WithWorkers(c.Workers),
		raster.WithBlend(blend),
		raster.WithCullMode(cull),
	}
}
