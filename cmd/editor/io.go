package main

import (
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilegrid/levels"
	"github.com/milk9111/tilegrid/tilemap"
	"github.com/sirupsen/logrus"
)

// saveIgnoreWindow keeps the watcher from reloading the editor's own writes.
const saveIgnoreWindow = 500 * time.Millisecond

func (e *Editor) save() {
	layer := e.activeLayer()
	path := e.cfg.LevelPath(layer)
	e.watcher.IgnoreFor(path, saveIgnoreWindow)
	if err := e.serializer.SaveToFile(path, layer); err != nil {
		return
	}
	e.log.WithFields(logrus.Fields{
		"path":  path,
		"layer": layer.Name(),
	}).Info("saved level")
}

func (e *Editor) load() {
	layer := e.activeLayer()
	_ = e.serializer.LoadFromFile(e.cfg.LevelPath(layer), layer)
}

// layerForFile maps a watcher path back to the layer saved in it.
func (e *Editor) layerForFile(path string) (tilemap.Layer, bool) {
	for _, l := range e.layers {
		abs, err := filepath.Abs(e.cfg.LevelPath(l))
		if err == nil && abs == path {
			return l, true
		}
	}
	return 0, false
}

func (e *Editor) drainWatcher() {
	paths, errs := e.watcher.Pending()
	for _, err := range errs {
		e.log.WithError(err).Warn("level watcher error")
	}
	for _, p := range paths {
		layer, ok := e.layerForFile(p)
		if !ok {
			continue
		}
		e.log.WithFields(logrus.Fields{"path": p, "layer": layer.Name()}).Info("level changed on disk, reloading")
		_ = e.serializer.LoadFromFile(p, layer)
	}
}

func (e *Editor) copyLayer() {
	snap, ok := e.serializer.Save(e.activeLayer())
	if !ok {
		return
	}
	data, err := levels.Marshal(snap, levels.FormatYAML)
	if err != nil {
		e.log.WithError(err).Warn("failed to encode layer for clipboard")
		return
	}
	e.clipboard.Write(data)
	e.log.WithField("tiles", len(snap.Tiles)).Info("copied layer")
}

func (e *Editor) pasteLayer() {
	data := e.clipboard.Read()
	if len(data) == 0 {
		return
	}
	snap, err := levels.Unmarshal(data, levels.FormatYAML)
	if err != nil {
		e.log.WithError(err).Warn("clipboard does not hold a level")
		return
	}
	if err := e.serializer.Apply(snap, e.activeLayer()); err != nil {
		e.log.WithError(err).Warn("failed to paste layer")
		return
	}
	e.log.WithField("tiles", len(snap.Tiles)).Info("pasted layer")
}

func loadTileset(ref tilemap.AssetRef, log logrus.FieldLogger) *ebiten.Image {
	path := string(ref)
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("tileset not found, drawing placeholder tiles")
		return nil
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("failed to decode tileset")
		return nil
	}
	return ebiten.NewImageFromImage(img)
}
