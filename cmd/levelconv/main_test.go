package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/tilegrid/config"
	"github.com/milk9111/tilegrid/levels"
	"github.com/milk9111/tilegrid/tilemap"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const level = `tiles:
  - pos: {x: 0, y: 0}
    id: 1
  - pos: {x: 2, y: 1}
    id: 4
    flip: {x: true, y: false, d: false}
`

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(in, []byte(level), 0644))
	log, _ := test.NewNullLogger()

	tests := []struct {
		name    string
		out     string
		grid    uint32
		wantN   int
		wantErr error
	}{
		{name: "validate only", grid: 4, wantN: 2},
		{name: "to json", out: filepath.Join(dir, "out", "level.json"), grid: 4, wantN: 2},
		{name: "grid too small", grid: 2, wantErr: levels.ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Grid.Width, cfg.Grid.Height = tt.grid, tt.grid

			n, err := convert(cfg, in, tt.out, tilemap.World, log)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantN, n)
			if tt.out == "" {
				return
			}

			data, err := os.ReadFile(tt.out)
			require.NoError(t, err)
			snap, err := levels.Unmarshal(data, levels.FormatJSON)
			require.NoError(t, err)
			require.Len(t, snap.Tiles, 2)
			require.NotNil(t, snap.Tiles[1].Flip)
			assert.True(t, snap.Tiles[1].Flip.X)
		})
	}
}

func TestConvertMissingInput(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := convert(config.Default(), filepath.Join(t.TempDir(), "nope.yaml"), "", tilemap.World, log)
	assert.ErrorIs(t, err, levels.ErrReadLevel)
}
