package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/tilegrid/levels"
	"github.com/milk9111/tilegrid/tilemap"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "editor.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
grid:
  width: 4
  height: 4
  tile_size: 16
layers: [world, foreground]
solid_layers: [foreground]
active_layer: Foreground
level: out/level.json
log_level: debug
watch: false
`))
	require.NoError(t, err)

	assert.Equal(t, GridSpec{Width: 4, Height: 4, TileSize: 16}, cfg.Grid)
	assert.Equal(t, 1280, cfg.Window.Width, "unset keys keep defaults")
	assert.False(t, cfg.Watch)

	layers, err := cfg.TileLayers()
	require.NoError(t, err)
	assert.Equal(t, []tilemap.Layer{tilemap.World, tilemap.Foreground}, layers)
	active, err := cfg.Active()
	require.NoError(t, err)
	assert.Equal(t, tilemap.Foreground, active)

	mc := cfg.MapConfig(tilemap.World)
	assert.Equal(t, tilemap.TilemapSize{X: 4, Y: 4}, mc.Size)
	assert.Equal(t, tilemap.SquareGrid(16), mc.TileSize)
	assert.Equal(t, logrus.DebugLevel, cfg.Logger().GetLevel())
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"zero_grid", "grid: {width: 0, height: 3, tile_size: 16}\n"},
		{"zero_tile", "grid: {width: 3, height: 3, tile_size: 0}\n"},
		{"huge_grid", "grid: {width: 2147483648, height: 2147483648, tile_size: 16}\n"},
		{"unknown_layer", "layers: [sky]\n"},
		{"unknown_solid", "solid_layers: [sky]\n"},
		{"active_not_spawned", "layers: [world]\nactive_layer: background\n"},
		{"bad_log_level", "log_level: loud\n"},
		{"no_layers", "layers: []\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, c.body))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}

	t.Run("missing_file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
	t.Run("malformed", func(t *testing.T) {
		_, err := Load(writeConfig(t, "grid: [\n"))
		require.Error(t, err)
	})
}

func TestLevelPath(t *testing.T) {
	cases := []struct {
		level string
		layer tilemap.Layer
		want  string
	}{
		{"levels/level.yaml", tilemap.World, "levels/level.world.yaml"},
		{"levels/level.yaml", tilemap.Foreground, "levels/level.foreground.yaml"},
		{"out/level.json", tilemap.Background, "out/level.background.json"},
		{"level", tilemap.World, "level.world"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			cfg := Default()
			cfg.Level = c.level
			assert.Equal(t, c.want, cfg.LevelPath(c.layer))
		})
	}
}

// Saving each layer to its own file and loading them back into a fresh store
// keeps every layer's tiles on that layer.
func TestLevelPathKeepsLayersApart(t *testing.T) {
	cfg := Default()
	cfg.Grid = GridSpec{Width: 4, Height: 4, TileSize: 16}
	cfg.Level = filepath.Join(t.TempDir(), "level.yaml")
	layers := []tilemap.Layer{tilemap.World, tilemap.Foreground}
	log, _ := test.NewNullLogger()

	newStore := func() (*tilemap.TilemapAccess, *levels.LevelSerializer) {
		access := tilemap.NewTilemapAccess(tilemap.WithLogger(log))
		for _, l := range layers {
			_, err := access.SpawnMap(cfg.MapConfig(l))
			require.NoError(t, err)
		}
		return access, levels.NewLevelSerializer(access, log)
	}

	access, s := newStore()
	access.Replace(tilemap.TilePos{X: 0, Y: 0}, tilemap.TileProperties{ID: 1}, tilemap.World)
	access.Replace(tilemap.TilePos{X: 3, Y: 3}, tilemap.TileProperties{ID: 2}, tilemap.Foreground)
	for _, l := range layers {
		require.NoError(t, s.SaveToFile(cfg.LevelPath(l), l))
	}

	access, s = newStore()
	for _, l := range layers {
		require.NoError(t, s.LoadFromFile(cfg.LevelPath(l), l))
	}
	props, ok := access.GetProperties(tilemap.TilePos{X: 0, Y: 0}, tilemap.World)
	require.True(t, ok)
	assert.Equal(t, tilemap.TileProperties{ID: 1}, props)
	_, ok = access.Get(tilemap.TilePos{X: 3, Y: 3}, tilemap.World)
	assert.False(t, ok, "foreground tile leaked into world")
	props, ok = access.GetProperties(tilemap.TilePos{X: 3, Y: 3}, tilemap.Foreground)
	require.True(t, ok)
	assert.Equal(t, tilemap.TileProperties{ID: 2}, props)
}
