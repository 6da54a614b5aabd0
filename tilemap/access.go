package tilemap

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrLayerExists = errors.New("tilemap: layer already spawned")
	ErrInvalidMap  = errors.New("tilemap: invalid map config")
)

// MapConfig describes a layer's grid at spawn time.
type MapConfig struct {
	Size     TilemapSize
	TileSize GridSize
	Layer    Layer
	Texture  AssetRef
}

type tilemapLayer struct {
	entity    Handle
	storage   *TileStorage
	transform Affine
	gridSize  GridSize
	texture   AssetRef
}

// TilemapAccess is the layered grid store. It owns the grid of every spawned
// layer, the handles placed in them, and the event feed fed by mutations.
//
// A TilemapAccess is not safe for concurrent use. Callers run all mutations,
// event reads and level IO from one goroutine, one tick at a time.
type TilemapAccess struct {
	layers  [layerCount]*tilemapLayer
	arena   arena
	events  EventFeed
	metrics *Metrics
	log     logrus.FieldLogger
}

// Option configures a TilemapAccess.
type Option func(*TilemapAccess)

// WithLogger sets the logger. The standard logrus logger is used otherwise.
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *TilemapAccess) {
		if log != nil {
			a.log = log
		}
	}
}

// WithMetrics records mutations on m.
func WithMetrics(m *Metrics) Option {
	return func(a *TilemapAccess) {
		a.metrics = m
	}
}

// NewTilemapAccess returns a store with no layers spawned.
func NewTilemapAccess(opts ...Option) *TilemapAccess {
	a := &TilemapAccess{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SpawnMap registers the grid for cfg.Layer and returns the grid's own
// handle. Each layer can be spawned once.
func (a *TilemapAccess) SpawnMap(cfg MapConfig) (Handle, error) {
	if !cfg.Layer.Valid() {
		return 0, fmt.Errorf("%w: unknown layer %d", ErrInvalidMap, cfg.Layer)
	}
	if !cfg.Size.Allocatable() {
		return 0, fmt.Errorf("%w: size %dx%d (at most %d cells)", ErrInvalidMap, cfg.Size.X, cfg.Size.Y, MaxCells)
	}
	if cfg.TileSize.X <= 0 || cfg.TileSize.Y <= 0 {
		return 0, fmt.Errorf("%w: tile size %vx%v", ErrInvalidMap, cfg.TileSize.X, cfg.TileSize.Y)
	}
	if a.layers[cfg.Layer] != nil {
		return 0, fmt.Errorf("%w: %s", ErrLayerExists, cfg.Layer)
	}

	entity := a.arena.spawn(nil)
	a.layers[cfg.Layer] = &tilemapLayer{
		entity:    entity,
		storage:   newTileStorage(cfg.Size),
		transform: Translate(0, 0),
		gridSize:  cfg.TileSize,
		texture:   cfg.Texture,
	}
	a.metrics.setOccupied(cfg.Layer, 0)
	a.log.WithFields(logrus.Fields{
		"layer": cfg.Layer.Name(),
		"size":  fmt.Sprintf("%dx%d", cfg.Size.X, cfg.Size.Y),
		"z":     cfg.Layer.ZIndex(),
	}).Debug("spawned tilemap")
	return entity, nil
}

func (a *TilemapAccess) layer(layer Layer) *tilemapLayer {
	if a == nil || !layer.Valid() {
		return nil
	}
	return a.layers[layer]
}

// MapExists reports whether any layer has been spawned.
func (a *TilemapAccess) MapExists() bool {
	return len(a.Layers()) > 0
}

// Layers returns the spawned layers in draw order.
func (a *TilemapAccess) Layers() []Layer {
	if a == nil {
		return nil
	}
	var out []Layer
	for _, l := range Layers() {
		if a.layers[l] != nil {
			out = append(out, l)
		}
	}
	return out
}

// Events returns the mutation feed.
func (a *TilemapAccess) Events() *EventFeed {
	if a == nil {
		return nil
	}
	return &a.events
}

// SetTransform replaces the placement transform of layer.
func (a *TilemapAccess) SetTransform(layer Layer, t Affine) bool {
	tl := a.layer(layer)
	if tl == nil {
		return false
	}
	tl.transform = t
	return true
}

// Get returns the handle stored at pos on layer.
func (a *TilemapAccess) Get(pos TilePos, layer Layer) (Handle, bool) {
	storage, ok := a.Storage(layer)
	if !ok {
		return 0, false
	}
	return storage.Get(pos)
}

// GetProperties returns the record of the tile at pos on layer.
func (a *TilemapAccess) GetProperties(pos TilePos, layer Layer) (TileProperties, bool) {
	h, ok := a.Get(pos, layer)
	if !ok {
		return TileProperties{}, false
	}
	return a.Properties(h)
}

// Properties returns the record attached to h. Handles without a record,
// such as a layer's own grid handle, have none.
func (a *TilemapAccess) Properties(h Handle) (TileProperties, bool) {
	if a == nil {
		return TileProperties{}, false
	}
	return a.arena.record(h)
}

func (a *TilemapAccess) setUnchecked(pos TilePos, props TileProperties, layer Layer) (Handle, bool) {
	tl := a.layer(layer)
	if tl == nil || !tl.storage.size.Contains(pos) {
		return 0, false
	}
	h := a.arena.spawn(&props)
	tl.storage.set(pos, h)
	return h, true
}

// TryPlace places a tile at pos only when the cell is empty. It returns
// false, and publishes nothing, when the cell is occupied, out of bounds or
// the layer is not spawned.
func (a *TilemapAccess) TryPlace(pos TilePos, props TileProperties, layer Layer) (Handle, bool) {
	if _, occupied := a.Get(pos, layer); occupied {
		return 0, false
	}
	h, ok := a.setUnchecked(pos, props, layer)
	if !ok {
		return 0, false
	}
	a.events.Send(TileUpdateEvent{
		Layer:        layer,
		Pos:          pos,
		Modification: TileAdded{New: h, Props: props},
	})
	a.afterAdd(layer, false)
	return h, true
}

// Replace places a tile at pos, destroying any tile already there. A single
// TileAdded event is published carrying the previous handle, if any.
func (a *TilemapAccess) Replace(pos TilePos, props TileProperties, layer Layer) (Handle, bool) {
	tl := a.layer(layer)
	if tl == nil || !tl.storage.size.Contains(pos) {
		return 0, false
	}
	old, hasOld := tl.storage.Get(pos)
	if hasOld {
		a.despawn(pos, layer)
	}
	h, ok := a.setUnchecked(pos, props, layer)
	if !ok {
		return 0, false
	}
	a.events.Send(TileUpdateEvent{
		Layer:        layer,
		Pos:          pos,
		Modification: TileAdded{Old: old, HasOld: hasOld, New: h, Props: props},
	})
	a.afterAdd(layer, hasOld)
	return h, true
}

func (a *TilemapAccess) afterAdd(layer Layer, overwrite bool) {
	a.metrics.observeAdded(layer, overwrite)
	a.metrics.setOccupied(layer, a.layers[layer].storage.Len())
}

func (a *TilemapAccess) despawn(pos TilePos, layer Layer) (Handle, TileProperties, bool) {
	tl := a.layer(layer)
	if tl == nil {
		return 0, TileProperties{}, false
	}
	h, ok := tl.storage.Get(pos)
	if !ok {
		return 0, TileProperties{}, false
	}
	props, _ := a.arena.record(h)
	tl.storage.remove(pos)
	a.arena.despawn(h)
	return h, props, true
}

// Remove destroys the tile at pos and its attachments, then publishes a
// TileRemoved event. Empty cells are left alone and publish nothing.
func (a *TilemapAccess) Remove(pos TilePos, layer Layer) (Handle, bool) {
	old, props, ok := a.despawn(pos, layer)
	if !ok {
		return 0, false
	}
	a.events.Send(TileUpdateEvent{
		Layer:        layer,
		Pos:          pos,
		Modification: TileRemoved{Old: old, Props: props},
	})
	a.metrics.observeRemoved(layer)
	a.metrics.setOccupied(layer, a.layers[layer].storage.Len())
	return old, true
}

// Clear destroys every tile on layer and returns how many there were. It
// visits each cell once and publishes no per-cell events; observers that
// track handles should check IsAlive.
func (a *TilemapAccess) Clear(layer Layer) int {
	tl := a.layer(layer)
	if tl == nil {
		return 0
	}
	removed := 0
	for idx, h := range tl.storage.cells {
		if h.Valid() {
			a.arena.despawn(h)
			removed++
		}
		tl.storage.remove(tl.storage.size.pos(idx))
	}
	a.metrics.observeClear(layer)
	a.metrics.setOccupied(layer, 0)
	a.log.WithFields(logrus.Fields{
		"layer":   layer.Name(),
		"removed": removed,
	}).Debug("cleared tilemap")
	return removed
}

// TransformSize returns the placement transform and dimensions of layer.
func (a *TilemapAccess) TransformSize(layer Layer) (Affine, TilemapSize, bool) {
	tl := a.layer(layer)
	if tl == nil {
		return Affine{}, TilemapSize{}, false
	}
	return tl.transform, tl.storage.size, true
}

// GridSize returns the cell size of layer.
func (a *TilemapAccess) GridSize(layer Layer) (GridSize, bool) {
	tl := a.layer(layer)
	if tl == nil {
		return GridSize{}, false
	}
	return tl.gridSize, true
}

// Texture returns the tileset reference layer was spawned with.
func (a *TilemapAccess) Texture(layer Layer) (AssetRef, bool) {
	tl := a.layer(layer)
	if tl == nil {
		return "", false
	}
	return tl.texture, true
}

// Storage returns a read-only view of layer's cells.
func (a *TilemapAccess) Storage(layer Layer) (*TileStorage, bool) {
	tl := a.layer(layer)
	if tl == nil {
		return nil, false
	}
	return tl.storage, true
}

// TilemapEntity returns the handle of layer's grid.
func (a *TilemapAccess) TilemapEntity(layer Layer) (Handle, bool) {
	tl := a.layer(layer)
	if tl == nil {
		return 0, false
	}
	return tl.entity, true
}

// WorldToTile maps a world position to a cell of layer.
func (a *TilemapAccess) WorldToTile(world r2.Vec, layer Layer) (TilePos, bool) {
	tl := a.layer(layer)
	if tl == nil {
		return TilePos{}, false
	}
	return WorldToTile(world, tl.transform, tl.storage.size, tl.gridSize)
}

// IsAlive reports whether h still refers to a live tile or grid.
func (a *TilemapAccess) IsAlive(h Handle) bool {
	if a == nil {
		return false
	}
	return a.arena.isAlive(h)
}

// Attach stores v under key on h. The value is dropped when h is destroyed.
func (a *TilemapAccess) Attach(h Handle, key string, v any) bool {
	if a == nil {
		return false
	}
	return a.arena.attach(h, key, v)
}

// Attachment returns the value stored under key on h.
func (a *TilemapAccess) Attachment(h Handle, key string) (any, bool) {
	if a == nil {
		return nil, false
	}
	return a.arena.attachment(h, key)
}

// Detach removes the value stored under key on h.
func (a *TilemapAccess) Detach(h Handle, key string) bool {
	if a == nil {
		return false
	}
	return a.arena.detach(h, key)
}

// LiveHandles returns the number of live handles, grids included.
func (a *TilemapAccess) LiveHandles() int {
	if a == nil {
		return 0
	}
	return a.arena.live()
}
