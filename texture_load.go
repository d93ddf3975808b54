package shade

import (
	"fmt"
	"image"
	"io"
	"os"

	// Registered image decoders for texture files.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeTexture decodes an image in any registered format (PNG, JPEG,
// GIF, BMP, TIFF, WebP) into a texture.
func DecodeTexture(r io.Reader, s Sampler) (*ImageTexture, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("shade: decode texture: %w", err)
	}
	Logger().Debug("texture decoded",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return NewImageTexture(img, s), nil
}

// LoadTexture reads and decodes the texture file at path.
func LoadTexture(path string, s Sampler) (*ImageTexture, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("shade: open texture: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	t, err := DecodeTexture(f, s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
