package tilemap

import "fmt"

// TilePos is a discrete cell coordinate within a layer's grid.
type TilePos struct {
	X uint32
	Y uint32
}

func (p TilePos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// TilePosFromInts returns the position for x,y if it lies inside size.
func TilePosFromInts(x, y int, size TilemapSize) (TilePos, bool) {
	if x < 0 || y < 0 || x >= int(size.X) || y >= int(size.Y) {
		return TilePos{}, false
	}
	return TilePos{X: uint32(x), Y: uint32(y)}, true
}

// TilemapSize is the number of cells on each axis of a layer.
type TilemapSize struct {
	X uint32
	Y uint32
}

// MaxCells bounds the number of cells a single layer can hold.
const MaxCells = 1 << 24

// Allocatable reports whether s is non-empty and within MaxCells.
func (s TilemapSize) Allocatable() bool {
	return s.X > 0 && s.Y > 0 && uint64(s.X)*uint64(s.Y) <= MaxCells
}

// Count returns the number of addressable cells.
func (s TilemapSize) Count() int {
	return int(s.X) * int(s.Y)
}

// Contains reports whether pos is a valid key for this size.
func (s TilemapSize) Contains(pos TilePos) bool {
	return pos.X < s.X && pos.Y < s.Y
}

func (s TilemapSize) index(pos TilePos) int {
	return int(pos.Y)*int(s.X) + int(pos.X)
}

func (s TilemapSize) pos(idx int) TilePos {
	return TilePos{X: uint32(idx % int(s.X)), Y: uint32(idx / int(s.X))}
}

// GridSize is the world-space size of one cell.
type GridSize struct {
	X float64
	Y float64
}

// SquareGrid returns a GridSize with equal sides.
func SquareGrid(size float64) GridSize {
	return GridSize{X: size, Y: size}
}

// TileTextureIndex selects a visual from the layer's tileset.
// Zero means not yet assigned.
type TileTextureIndex uint32

// TileFlip holds the mirror flags applied when drawing a tile.
type TileFlip struct {
	X bool
	Y bool
	D bool
}

// IsDefault reports whether no flag is set.
func (f TileFlip) IsDefault() bool {
	return !f.X && !f.Y && !f.D
}

// TileProperties is the record stored for every occupied cell.
type TileProperties struct {
	ID   TileTextureIndex
	Flip TileFlip
}

// AssetRef is an opaque reference to a texture owned by the asset loader.
type AssetRef string
