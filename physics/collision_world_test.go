package physics

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilegrid/tilemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func newAccess(t *testing.T) *tilemap.TilemapAccess {
	t.Helper()
	a := tilemap.NewTilemapAccess()
	for _, l := range []tilemap.Layer{tilemap.World, tilemap.Background} {
		_, err := a.SpawnMap(tilemap.MapConfig{
			Size:     tilemap.TilemapSize{X: 8, Y: 8},
			TileSize: tilemap.SquareGrid(16),
			Layer:    l,
		})
		require.NoError(t, err)
	}
	return a
}

func TestCollisionWorldFollowsEdits(t *testing.T) {
	a := newAccess(t)
	pre, _ := a.Replace(tilemap.TilePos{X: 0, Y: 0}, tilemap.TileProperties{ID: 1}, tilemap.World)

	cw := NewCollisionWorld(a, tilemap.World)
	t.Cleanup(cw.Close)
	assert.True(t, cw.HasShape(pre), "existing tiles get shapes on creation")

	h1, _ := a.Replace(tilemap.TilePos{X: 2, Y: 1}, tilemap.TileProperties{ID: 1}, tilemap.World)
	a.Replace(tilemap.TilePos{X: 5, Y: 5}, tilemap.TileProperties{ID: 1}, tilemap.Background)
	cw.Update()
	require.Equal(t, 2, cw.ShapeCount(), "background is not solid")

	got, ok := cw.PointQuery(r2.Vec{X: 32, Y: 16})
	require.True(t, ok)
	assert.Equal(t, h1, got)
	_, ok = cw.PointQuery(r2.Vec{X: 80, Y: 80})
	assert.False(t, ok)

	shape, ok := a.Attachment(h1, ShapeAttachment)
	require.True(t, ok)
	assert.IsType(t, &cp.Shape{}, shape)

	h2, _ := a.Replace(tilemap.TilePos{X: 2, Y: 1}, tilemap.TileProperties{ID: 2}, tilemap.World)
	cw.Update()
	assert.False(t, cw.HasShape(h1))
	assert.True(t, cw.HasShape(h2))
	assert.Equal(t, 2, cw.ShapeCount())

	a.Remove(tilemap.TilePos{X: 2, Y: 1}, tilemap.World)
	cw.Update()
	assert.False(t, cw.HasShape(h2))
	assert.Equal(t, 1, cw.ShapeCount())
}

func TestCollisionWorldPrunesAfterClear(t *testing.T) {
	a := newAccess(t)
	cw := NewCollisionWorld(a, tilemap.World)
	t.Cleanup(cw.Close)

	for x := uint32(0); x < 4; x++ {
		a.Replace(tilemap.TilePos{X: x, Y: 3}, tilemap.TileProperties{ID: 1}, tilemap.World)
	}
	cw.Update()
	require.Equal(t, 4, cw.ShapeCount())

	a.Clear(tilemap.World)
	cw.Update()
	assert.Zero(t, cw.ShapeCount())
	_, ok := cw.PointQuery(r2.Vec{X: 0, Y: 48})
	assert.False(t, ok)
}

func TestCollisionWorldUsesLayerTransform(t *testing.T) {
	a := newAccess(t)
	require.True(t, a.SetTransform(tilemap.World, tilemap.Translate(100, 0)))
	cw := NewCollisionWorld(a, tilemap.World)
	t.Cleanup(cw.Close)

	h, _ := a.Replace(tilemap.TilePos{X: 1, Y: 0}, tilemap.TileProperties{ID: 1}, tilemap.World)
	cw.Update()

	got, ok := cw.PointQuery(r2.Vec{X: 116, Y: 0})
	require.True(t, ok)
	assert.Equal(t, h, got)
}

func TestCollisionWorldClose(t *testing.T) {
	a := newAccess(t)
	readers := a.Events().Readers()
	cw := NewCollisionWorld(a, tilemap.World)
	assert.Equal(t, readers+1, a.Events().Readers())
	cw.Close()
	assert.Equal(t, readers, a.Events().Readers())
	assert.NotNil(t, cw.Space())
}
