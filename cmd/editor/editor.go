package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tilegrid/config"
	"github.com/milk9111/tilegrid/levels"
	"github.com/milk9111/tilegrid/physics"
	"github.com/milk9111/tilegrid/tilemap"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r2"
)

const panSpeed = 4.0

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

type EditorOptions struct {
	Config     config.Config
	Access     *tilemap.TilemapAccess
	Serializer *levels.LevelSerializer
	Collisions *physics.CollisionWorld
	Watcher    *levels.Watcher
	Layers     []tilemap.Layer
	Active     tilemap.Layer
	Log        logrus.FieldLogger
}

// Editor is the ebiten game driving the tile store.
type Editor struct {
	cfg        config.Config
	access     *tilemap.TilemapAccess
	serializer *levels.LevelSerializer
	collisions *physics.CollisionWorld
	watcher    *levels.Watcher
	renderFeed *tilemap.EventReader
	log        logrus.FieldLogger

	layers []tilemap.Layer
	active int

	worldCursor tilemap.WorldCursor
	tileCursor  tilemap.TileCursor
	camX, camY  float64

	brush tilemap.TileProperties

	tilesets  map[tilemap.AssetRef]*ebiten.Image
	tileCache map[tileKey]*ebiten.Image
	clipboard *clipboardSink
}

func NewEditor(opts EditorOptions) *Editor {
	e := &Editor{
		cfg:        opts.Config,
		access:     opts.Access,
		serializer: opts.Serializer,
		collisions: opts.Collisions,
		watcher:    opts.Watcher,
		renderFeed: opts.Access.Events().Subscribe(),
		log:        opts.Log,
		layers:     opts.Layers,
		brush:      tilemap.TileProperties{ID: 1},
		tilesets:   make(map[tilemap.AssetRef]*ebiten.Image),
		tileCache:  make(map[tileKey]*ebiten.Image),
		clipboard:  newClipboardSink(opts.Log),
	}
	for i, l := range e.layers {
		if l == opts.Active {
			e.active = i
		}
	}
	for _, l := range e.layers {
		if ref, ok := e.access.Texture(l); ok {
			if _, loaded := e.tilesets[ref]; !loaded {
				e.tilesets[ref] = loadTileset(ref, opts.Log)
			}
		}
	}
	return e
}

func (e *Editor) activeLayer() tilemap.Layer {
	return e.layers[e.active]
}

func (e *Editor) Update() error {
	e.updateCamera()

	mx, my := ebiten.CursorPosition()
	e.worldCursor.Set(r2.Vec{X: float64(mx) + e.camX, Y: float64(my) + e.camY})
	if e.access.MapExists() {
		e.tileCursor.Update(&e.worldCursor, e.access, e.activeLayer())
	}

	e.handleMouse()
	e.handleKeys()
	e.drainWatcher()

	e.collisions.Update()
	for _, evt := range e.renderFeed.Read() {
		e.logEvent(evt)
	}
	return nil
}

func (e *Editor) updateCamera() {
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		e.camX -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		e.camX += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		e.camY -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		e.camY += panSpeed
	}
}

func (e *Editor) handleMouse() {
	pos, ok := e.tileCursor.Pos()
	if !ok {
		return
	}
	layer := e.activeLayer()
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	switch {
	case shift && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		if _, placed := e.access.TryPlace(pos, e.brush, layer); !placed {
			e.log.WithField("pos", pos.String()).Debug("cell occupied, nothing placed")
		}
	case !shift && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		if props, ok := e.access.GetProperties(pos, layer); ok && props == e.brush {
			return
		}
		e.access.Replace(pos, e.brush, layer)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		e.access.Remove(pos, layer)
	}
}

func (e *Editor) handleKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)

	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			e.brush.ID = tilemap.TileTextureIndex(i)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		e.brush.Flip.X = !e.brush.Flip.X
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		e.active = (e.active + 1) % len(e.layers)
		e.tileCursor.Reset()
		e.worldCursor.Touch()
		e.log.WithField("layer", e.activeLayer().Name()).Info("active layer")
	}

	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC):
		e.copyLayer()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV):
		e.pasteLayer()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		e.access.Clear(e.activeLayer())
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		e.save()
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		e.load()
	}
}

func (e *Editor) logEvent(evt tilemap.TileUpdateEvent) {
	entry := e.log.WithFields(logrus.Fields{
		"layer": evt.Layer.Name(),
		"pos":   evt.Pos.String(),
	})
	switch m := evt.Modification.(type) {
	case tilemap.TileAdded:
		if m.HasOld {
			entry = entry.WithField("old", m.Old.String())
		}
		entry.WithFields(logrus.Fields{"new": m.New.String(), "id": m.Props.ID}).Debug("tile added")
	case tilemap.TileRemoved:
		entry.WithField("old", m.Old.String()).Debug("tile removed")
	}
}

func (e *Editor) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

type tileKey struct {
	texture tilemap.AssetRef
	id      tilemap.TileTextureIndex
}

// tileImage returns the sub-image for id in layer's tileset, or a flat
// placeholder when the tileset is missing or too small.
func (e *Editor) tileImage(layer tilemap.Layer, id tilemap.TileTextureIndex, size int) *ebiten.Image {
	ref, _ := e.access.Texture(layer)
	key := tileKey{texture: ref, id: id}
	if img, ok := e.tileCache[key]; ok {
		return img
	}
	var img *ebiten.Image
	if sheet := e.tilesets[ref]; sheet != nil {
		cols := sheet.Bounds().Dx() / size
		if cols > 0 {
			x := int(id) % cols * size
			y := int(id) / cols * size
			if y+size <= sheet.Bounds().Dy() {
				img = sheet.SubImage(image.Rect(x, y, x+size, y+size)).(*ebiten.Image)
			}
		}
	}
	if img == nil {
		img = ebiten.NewImage(size, size)
		img.Fill(paletteColor(id))
	}
	e.tileCache[key] = img
	return img
}
