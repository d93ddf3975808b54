// Package parallel provides tile-based parallel shading infrastructure.
//
// A render target is divided into 64x64 pixel tiles. Every pixel belongs
// to exactly one tile, so work items that each own one tile never write
// the same pixel and need no locking.
package parallel

import "image"

// Tile size in pixels.
const (
	TileWidth  = 64
	TileHeight = 64
)

// Tile is one rectangular region of a render target.
type Tile struct {
	// X and Y are the tile column and row.
	X, Y int

	// Rect is the pixel region, clipped to the target. Edge tiles may be
	// smaller than TileWidth x TileHeight.
	Rect image.Rectangle
}

// Contains reports whether the pixel (px, py) is inside the tile.
func (t Tile) Contains(px, py int) bool {
	return image.Pt(px, py).In(t.Rect)
}

// Overlaps reports whether the tile intersects r.
func (t Tile) Overlaps(r image.Rectangle) bool {
	return t.Rect.Overlaps(r)
}

// Grid splits a width x height target into tiles in row-major order.
// A non-positive dimension yields no tiles.
func Grid(width, height int) []Tile {
	if width <= 0 || height <= 0 {
		return nil
	}
	cols := (width + TileWidth - 1) / TileWidth
	rows := (height + TileHeight - 1) / TileHeight

	bounds := image.Rect(0, 0, width, height)
	tiles := make([]Tile, 0, cols*rows)
	for ty := range rows {
		for tx := range cols {
			r := image.Rect(tx*TileWidth, ty*TileHeight, (tx+1)*TileWidth, (ty+1)*TileHeight)
			tiles = append(tiles, Tile{X: tx, Y: ty, Rect: r.Intersect(bounds)})
		}
	}
	return tiles
}
