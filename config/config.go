package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/tilegrid/tilemap"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid")

type GridSpec struct {
	Width    uint32  `yaml:"width"`
	Height   uint32  `yaml:"height"`
	TileSize float64 `yaml:"tile_size"`
}

type WindowSpec struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Config is the editor configuration file.
type Config struct {
	Grid        GridSpec   `yaml:"grid"`
	Window      WindowSpec `yaml:"window"`
	Layers      []string   `yaml:"layers"`
	SolidLayers []string   `yaml:"solid_layers"`
	ActiveLayer string     `yaml:"active_layer"`
	Level       string     `yaml:"level"`
	Tileset     string     `yaml:"tileset"`
	LogLevel    string     `yaml:"log_level"`
	MetricsAddr string     `yaml:"metrics_addr"`
	Watch       bool       `yaml:"watch"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Grid:        GridSpec{Width: 40, Height: 23, TileSize: 16},
		Window:      WindowSpec{Width: 1280, Height: 736, Title: "tilegrid"},
		Layers:      []string{tilemap.Background.Name(), tilemap.World.Name(), tilemap.Foreground.Name()},
		SolidLayers: []string{tilemap.World.Name()},
		ActiveLayer: tilemap.World.Name(),
		Level:       "levels/level.yaml",
		Tileset:     "tiles.png",
		LogLevel:    "info",
		Watch:       true,
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks sizes and layer names.
func (c Config) Validate() error {
	if c.Grid.Width == 0 || c.Grid.Height == 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Grid.Width, c.Grid.Height)
	}
	if size := (tilemap.TilemapSize{X: c.Grid.Width, Y: c.Grid.Height}); !size.Allocatable() {
		return fmt.Errorf("%w: grid %dx%d exceeds %d cells", ErrInvalid, c.Grid.Width, c.Grid.Height, tilemap.MaxCells)
	}
	if c.Grid.TileSize <= 0 {
		return fmt.Errorf("%w: tile_size %v", ErrInvalid, c.Grid.TileSize)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if len(c.Layers) == 0 {
		return fmt.Errorf("%w: no layers", ErrInvalid)
	}
	if _, err := c.TileLayers(); err != nil {
		return err
	}
	if _, err := c.Solid(); err != nil {
		return err
	}
	if _, err := c.Active(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func parseLayers(names []string) ([]tilemap.Layer, error) {
	out := make([]tilemap.Layer, 0, len(names))
	for _, n := range names {
		l, err := tilemap.ParseLayer(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		out = append(out, l)
	}
	return out, nil
}

// TileLayers returns the layers to spawn.
func (c Config) TileLayers() ([]tilemap.Layer, error) {
	return parseLayers(c.Layers)
}

// Solid returns the layers that get collision shapes.
func (c Config) Solid() ([]tilemap.Layer, error) {
	return parseLayers(c.SolidLayers)
}

// Active returns the layer edited at startup. It must be one of Layers.
func (c Config) Active() (tilemap.Layer, error) {
	l, err := tilemap.ParseLayer(c.ActiveLayer)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	layers, err := c.TileLayers()
	if err != nil {
		return 0, err
	}
	for _, spawned := range layers {
		if spawned == l {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: active layer %s is not spawned", ErrInvalid, l)
}

// LevelPath returns the level file of layer. Level files hold one layer
// each, so the layer name is inserted before the extension of Level:
// levels/level.yaml becomes levels/level.world.yaml.
func (c Config) LevelPath(layer tilemap.Layer) string {
	ext := filepath.Ext(c.Level)
	return strings.TrimSuffix(c.Level, ext) + "." + strings.ToLower(layer.Name()) + ext
}

// MapConfig returns the spawn config of layer.
func (c Config) MapConfig(layer tilemap.Layer) tilemap.MapConfig {
	return tilemap.MapConfig{
		Size:     tilemap.TilemapSize{X: c.Grid.Width, Y: c.Grid.Height},
		TileSize: tilemap.SquareGrid(c.Grid.TileSize),
		Layer:    layer,
		Texture:  tilemap.AssetRef(c.Tileset),
	}
}

// Logger builds the logrus logger described by the config.
func (c Config) Logger() *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}
