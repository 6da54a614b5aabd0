package tilemap

import "gonum.org/v1/gonum/spatial/r2"

// WorldCursor is the pointer position in world space, fed by the windowing
// layer on pointer moves.
type WorldCursor struct {
	pos     r2.Vec
	changed bool
}

// Set records a new pointer position. Setting the same value again is not a
// change.
func (c *WorldCursor) Set(p r2.Vec) {
	if c == nil || p == c.pos {
		return
	}
	c.pos = p
	c.changed = true
}

// Touch marks the position as changed without moving it, so the next
// TileCursor.Update re-evaluates it. Used when the active layer switches.
func (c *WorldCursor) Touch() {
	if c == nil {
		return
	}
	c.changed = true
}

// Pos returns the last recorded position.
func (c *WorldCursor) Pos() r2.Vec {
	if c == nil {
		return r2.Vec{}
	}
	return c.pos
}

// TileCursor is the cell under the world cursor, or none.
type TileCursor struct {
	pos   TilePos
	valid bool
}

// Update re-evaluates the cell under cursor for layer when the cursor moved
// since the previous call. It reports whether the cell was re-evaluated.
func (t *TileCursor) Update(cursor *WorldCursor, access *TilemapAccess, layer Layer) bool {
	if t == nil || cursor == nil || !cursor.changed {
		return false
	}
	cursor.changed = false
	t.pos, t.valid = access.WorldToTile(cursor.pos, layer)
	return true
}

// Pos returns the cell under the cursor.
func (t *TileCursor) Pos() (TilePos, bool) {
	if t == nil {
		return TilePos{}, false
	}
	return t.pos, t.valid
}

// Reset forgets the current cell.
func (t *TileCursor) Reset() {
	if t == nil {
		return
	}
	t.pos, t.valid = TilePos{}, false
}

// OutlineRect returns the local-space rectangle to highlight for pos: its
// top-left corner and size. The tile anchor sits at the centre of the box.
func OutlineRect(pos TilePos, grid GridSize) (min, size r2.Vec) {
	anchor := TileToWorld(pos, grid)
	size = r2.Vec{X: grid.X, Y: grid.Y}
	return r2.Sub(anchor, r2.Scale(0.5, size)), size
}
