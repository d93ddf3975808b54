package shade

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Texture errors.
var (
	// ErrInvalidTextureSize is returned for textures with a zero or
	// negative dimension.
	ErrInvalidTextureSize = errors.New("shade: invalid texture size")

	// ErrTexelCount is returned when the texel slice does not match the
	// texture dimensions.
	ErrTexelCount = errors.New("shade: texel count does not match size")
)

// Texture is a sampled 2D image: an image plus the sampler state used to
// read it. Implementations must be safe for concurrent Sample calls;
// mutation happens only between draws.
type Texture interface {
	Sample(uv mgl32.Vec2) RGBA
}

// AddressMode controls how coordinates outside [0, 1] are resolved.
type AddressMode uint8

const (
	AddressRepeat       AddressMode = iota // tile
	AddressMirrorRepeat                    // tile, flipping every other copy
	AddressClampToEdge                     // repeat the border texel
)

// FilterMode selects texel filtering.
type FilterMode uint8

const (
	FilterLinear  FilterMode = iota // bilinear between the four nearest texels
	FilterNearest                   // the texel containing the coordinate
)

// Sampler holds the sampler state paired with a texture.
type Sampler struct {
	AddressModeU AddressMode
	AddressModeV AddressMode
	MagFilter    FilterMode
	MinFilter    FilterMode
}

// DefaultSampler returns the sampler used for both primary and lightmap
// textures: repeat addressing with linear filtering.
func DefaultSampler() Sampler {
	return Sampler{
		AddressModeU: AddressRepeat,
		AddressModeV: AddressRepeat,
		MagFilter:    FilterLinear,
		MinFilter:    FilterLinear,
	}
}

// ImageTexture is a CPU-resident texture with straight-alpha float texels.
type ImageTexture struct {
	width   int
	height  int
	texels  []RGBA
	sampler Sampler
}

// NewTexture creates a texture from row-major texels.
func NewTexture(width, height int, texels []RGBA, s Sampler) (*ImageTexture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, width, height)
	}
	if len(texels) != width*height {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrTexelCount, len(texels), width*height)
	}
	return &ImageTexture{width: width, height: height, texels: texels, sampler: s}, nil
}

// NewSolidTexture returns a 1x1 texture of color c. Every sample returns
// c exactly, whatever the coordinate or filter.
func NewSolidTexture(c RGBA) *ImageTexture {
	return &ImageTexture{width: 1, height: 1, texels: []RGBA{c}, sampler: DefaultSampler()}
}

// NewImageTexture converts img into a texture.
func NewImageTexture(img image.Image, s Sampler) *ImageTexture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	texels := make([]RGBA, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			texels[y*w+x] = FromColor(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return &ImageTexture{width: w, height: h, texels: texels, sampler: s}
}

// Width returns the texture width in texels.
func (t *ImageTexture) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *ImageTexture) Height() int { return t.height }

// Sampler returns the sampler state.
func (t *ImageTexture) Sampler() Sampler { return t.sampler }

// Texel returns the texel at integer coordinates, with the texture's
// address modes applied.
func (t *ImageTexture) Texel(x, y int) RGBA {
	x = wrap(x, t.width, t.sampler.AddressModeU)
	y = wrap(y, t.height, t.sampler.AddressModeV)
	return t.texels[y*t.width+x]
}

// Sample implements Texture. The software sampler has no mip chain, so
// MagFilter governs every lookup.
func (t *ImageTexture) Sample(uv mgl32.Vec2) RGBA {
	u := float64(uv[0]) * float64(t.width)
	v := float64(uv[1]) * float64(t.height)

	if t.sampler.MagFilter == FilterNearest {
		return t.Texel(int(math.Floor(u)), int(math.Floor(v)))
	}

	u -= 0.5
	v -= 0.5
	x0 := math.Floor(u)
	y0 := math.Floor(v)
	fx := float32(u - x0)
	fy := float32(v - y0)
	ix, iy := int(x0), int(y0)

	top := t.Texel(ix, iy).Lerp(t.Texel(ix+1, iy), fx)
	bottom := t.Texel(ix, iy+1).Lerp(t.Texel(ix+1, iy+1), fx)
	return top.Lerp(bottom, fy)
}

func wrap(i, n int, mode AddressMode) int {
	switch mode {
	case AddressRepeat:
		i %= n
		if i < 0 {
			i += n
		}
		return i
	case AddressMirrorRepeat:
		period := 2 * n
		i %= period
		if i < 0 {
			i += period
		}
		if i >= n {
			i = period - 1 - i
		}
		return i
	default:
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
}
