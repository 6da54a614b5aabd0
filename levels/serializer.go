package levels

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/milk9111/tilegrid/tilemap"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoLayer     = errors.New("levels: layer not spawned")
	ErrReadLevel   = errors.New("levels: read level")
	ErrWriteLevel  = errors.New("levels: write level")
	ErrParseLevel  = errors.New("levels: parse level")
	ErrOutOfBounds = errors.New("levels: tile out of bounds")
)

// LevelSerializer saves a layer of a store to a Snapshot and restores it.
// Restores go through TilemapAccess.Replace so observers see one TileAdded
// event per restored tile.
type LevelSerializer struct {
	access *tilemap.TilemapAccess
	log    logrus.FieldLogger
}

// NewLevelSerializer returns a serializer for access. A nil log uses the
// standard logrus logger.
func NewLevelSerializer(access *tilemap.TilemapAccess, log logrus.FieldLogger) *LevelSerializer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LevelSerializer{access: access, log: log}
}

// Save returns the occupied cells of layer in row-major order.
func (s *LevelSerializer) Save(layer tilemap.Layer) (Snapshot, bool) {
	storage, ok := s.access.Storage(layer)
	if !ok {
		return Snapshot{}, false
	}
	snap := Snapshot{Tiles: make([]Tile, 0, storage.Len())}
	storage.Each(func(pos tilemap.TilePos, h tilemap.Handle) bool {
		props, ok := s.access.Properties(h)
		if !ok {
			s.log.WithFields(logrus.Fields{
				"layer":  layer.Name(),
				"pos":    pos.String(),
				"handle": h.String(),
			}).Warn("skipping tile without properties")
			return true
		}
		snap.Tiles = append(snap.Tiles, tileFromProperties(pos, props))
		return true
	})
	return snap, true
}

// SaveToFile writes layer to path with a single write. The format follows
// the file extension. Failures are logged and returned; the store is never
// touched.
func (s *LevelSerializer) SaveToFile(path string, layer tilemap.Layer) error {
	log := s.log.WithFields(logrus.Fields{"path": path, "layer": layer.Name()})
	err := s.saveToFile(path, layer)
	if err != nil {
		log.WithError(err).Error("failed to save tile map")
		return err
	}
	log.Debug("saved tile map")
	return nil
}

func (s *LevelSerializer) saveToFile(path string, layer tilemap.Layer) error {
	snap, ok := s.Save(layer)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoLayer, layer.Name())
	}
	data, err := Marshal(snap, FormatForPath(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWriteLevel, path, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteLevel, path, err)
	}
	return nil
}

// LoadFromFile replaces the content of layer with the level stored at path.
// Read, parse and bounds errors are logged and returned, and leave the layer
// as it was.
func (s *LevelSerializer) LoadFromFile(path string, layer tilemap.Layer) error {
	log := s.log.WithFields(logrus.Fields{"path": path, "layer": layer.Name()})
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrReadLevel, path, err)
		log.WithError(err).Warn("failed to load tile map")
		return err
	}
	if err := s.load(data, FormatForPath(path), layer); err != nil {
		log.WithError(err).Warn("failed to load tile map")
		return err
	}
	log.Debug("loaded tile map")
	return nil
}

func (s *LevelSerializer) load(data []byte, format Format, layer tilemap.Layer) error {
	snap, err := Unmarshal(data, format)
	if err != nil {
		return err
	}
	return s.Apply(snap, layer)
}

// Apply clears layer and replays snap into it. The snapshot is checked
// against the layer's bounds first; an invalid snapshot changes nothing.
func (s *LevelSerializer) Apply(snap Snapshot, layer tilemap.Layer) error {
	_, size, ok := s.access.TransformSize(layer)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoLayer, layer.Name())
	}
	for i, t := range snap.Tiles {
		if !size.Contains(t.TilePos()) {
			return fmt.Errorf("%w: entry %d at %s outside %dx%d", ErrOutOfBounds, i, t.TilePos(), size.X, size.Y)
		}
	}

	s.access.Clear(layer)
	for _, t := range snap.Tiles {
		s.access.Replace(t.TilePos(), t.Properties(), layer)
	}
	return nil
}
