// Package cache provides a generic LRU cache for decoded resources.
//
//	c := cache.New[string, *shade.ImageTexture](64)
//	tex, err := c.GetOrLoad(path, func() (*shade.ImageTexture, error) {
//		return shade.LoadTexture(path, sampler)
//	})
//
// Failed loads are not cached. Cache is safe for concurrent use and must
// not be copied after creation.
package cache
