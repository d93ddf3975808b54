package shade

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/shade/internal/cache"
)

// DefaultTextureCacheSize is the entry limit of NewTextureCache(0).
const DefaultTextureCacheSize = 64

// textureKey identifies one decoded version of a texture file.
type textureKey struct {
	path    string
	modTime int64
	size    int64
	sampler Sampler
}

// TextureCache keeps decoded texture files in memory. An entry is reused
// while the file's modification time and size are unchanged, so a file
// rewritten on disk is decoded again on its next load.
//
// TextureCache is safe for concurrent use.
type TextureCache struct {
	entries *cache.Cache[textureKey, *ImageTexture]
}

// TextureCacheStats reports cache effectiveness.
type TextureCacheStats struct {
	Entries   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// NewTextureCache creates a cache holding at most limit textures. A
// limit of 0 selects DefaultTextureCacheSize.
func NewTextureCache(limit int) *TextureCache {
	if limit <= 0 {
		limit = DefaultTextureCacheSize
	}
	return &TextureCache{entries: cache.New[textureKey, *ImageTexture](limit)}
}

// Load returns the texture at path, decoding it only when no entry for
// the current file contents exists.
func (c *TextureCache) Load(path string, s Sampler) (*ImageTexture, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("shade: texture path: %w", err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("shade: open texture: %w", err)
	}

	key := textureKey{path: abs, modTime: fi.ModTime().UnixNano(), size: fi.Size(), sampler: s}
	loaded := false
	t, err := c.entries.GetOrLoad(key, func() (*ImageTexture, error) {
		loaded = true
		return LoadTexture(abs, s)
	})
	if err != nil {
		return nil, err
	}
	if !loaded {
		Logger().Debug("texture cache hit", "path", abs)
	}
	return t, nil
}

// Forget drops every cached version of path.
func (c *TextureCache) Forget(path string) int {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return c.entries.DeleteFunc(func(k textureKey) bool { return k.path == abs })
}

// Len returns the number of cached textures.
func (c *TextureCache) Len() int { return c.entries.Len() }

// Stats returns a snapshot of the cache statistics.
func (c *TextureCache) Stats() TextureCacheStats {
	s := c.entries.Stats()
	return TextureCacheStats{
		Entries:   s.Len,
		Hits:      s.Hits,
		Misses:    s.Misses,
		Evictions: s.Evictions,
	}
}
