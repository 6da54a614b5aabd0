package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilegrid/tilemap"
	"gonum.org/v1/gonum/spatial/r2"
)

// ShapeAttachment is the key under which a tile's collision shape is attached
// to its handle.
const ShapeAttachment = "physics.shape"

const collisionTypeSolid cp.CollisionType = 1

// CollisionWorld mirrors the tiles of solid layers as static boxes in a
// chipmunk space. It follows the store through the event feed and is
// updated once per tick, after the tick's edits.
type CollisionWorld struct {
	access *tilemap.TilemapAccess
	reader *tilemap.EventReader
	space  *cp.Space
	solid  map[tilemap.Layer]bool
	shapes map[tilemap.Handle]*cp.Shape
}

// NewCollisionWorld subscribes to access and builds boxes for tiles already
// placed on the solid layers.
func NewCollisionWorld(access *tilemap.TilemapAccess, solid ...tilemap.Layer) *CollisionWorld {
	cw := &CollisionWorld{
		access: access,
		reader: access.Events().Subscribe(),
		space:  cp.NewSpace(),
		solid:  make(map[tilemap.Layer]bool, len(solid)),
		shapes: make(map[tilemap.Handle]*cp.Shape),
	}
	for _, l := range solid {
		cw.solid[l] = true
	}
	cw.buildStaticShapes()
	return cw
}

func (cw *CollisionWorld) buildStaticShapes() {
	for layer := range cw.solid {
		storage, ok := cw.access.Storage(layer)
		if !ok {
			continue
		}
		storage.Each(func(pos tilemap.TilePos, h tilemap.Handle) bool {
			cw.addBox(layer, pos, h)
			return true
		})
	}
}

// Space returns the chipmunk space holding the tile shapes.
func (cw *CollisionWorld) Space() *cp.Space {
	if cw == nil {
		return nil
	}
	return cw.space
}

// Update applies pending tile events, then drops shapes whose tile no longer
// exists. The second pass covers bulk clears, which publish no per-tile
// events.
func (cw *CollisionWorld) Update() {
	if cw == nil {
		return
	}
	for _, evt := range cw.reader.Read() {
		switch m := evt.Modification.(type) {
		case tilemap.TileAdded:
			if m.HasOld {
				cw.removeShape(m.Old)
			}
			if cw.solid[evt.Layer] {
				cw.addBox(evt.Layer, evt.Pos, m.New)
			}
		case tilemap.TileRemoved:
			cw.removeShape(m.Old)
		}
	}
	for h := range cw.shapes {
		if !cw.access.IsAlive(h) {
			cw.removeShape(h)
		}
	}
}

func (cw *CollisionWorld) addBox(layer tilemap.Layer, pos tilemap.TilePos, h tilemap.Handle) {
	if !cw.access.IsAlive(h) {
		return
	}
	transform, _, ok := cw.access.TransformSize(layer)
	if !ok {
		return
	}
	grid, _ := cw.access.GridSize(layer)
	center := transform.Apply(tilemap.TileToWorld(pos, grid))
	bb := cp.BB{
		L: center.X - grid.X/2,
		B: center.Y - grid.Y/2,
		R: center.X + grid.X/2,
		T: center.Y + grid.Y/2,
	}
	shape := cp.NewBox2(cw.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeSolid)
	shape.UserData = h
	cw.space.AddShape(shape)
	cw.shapes[h] = shape
	cw.access.Attach(h, ShapeAttachment, shape)
}

func (cw *CollisionWorld) removeShape(h tilemap.Handle) {
	shape, ok := cw.shapes[h]
	if !ok {
		return
	}
	cw.space.RemoveShape(shape)
	delete(cw.shapes, h)
	cw.access.Detach(h, ShapeAttachment)
}

// ShapeCount returns the number of tile shapes in the space.
func (cw *CollisionWorld) ShapeCount() int {
	if cw == nil {
		return 0
	}
	return len(cw.shapes)
}

// HasShape reports whether the tile h has a collision shape.
func (cw *CollisionWorld) HasShape(h tilemap.Handle) bool {
	if cw == nil {
		return false
	}
	_, ok := cw.shapes[h]
	return ok
}

// PointQuery returns the tile whose box contains p.
func (cw *CollisionWorld) PointQuery(p r2.Vec) (tilemap.Handle, bool) {
	if cw == nil {
		return 0, false
	}
	info := cw.space.PointQueryNearest(cp.Vector{X: p.X, Y: p.Y}, 0, cp.SHAPE_FILTER_ALL)
	if info.Shape == nil {
		return 0, false
	}
	h, ok := info.Shape.UserData.(tilemap.Handle)
	return h, ok
}

// Close stops following the store.
func (cw *CollisionWorld) Close() {
	if cw == nil {
		return
	}
	cw.reader.Unsubscribe()
}
