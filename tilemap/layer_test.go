package tilemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerIdentity(t *testing.T) {
	layers := Layers()
	require.Len(t, layers, 3)
	for i := 1; i < len(layers); i++ {
		assert.Less(t, layers[i-1].ZIndex(), layers[i].ZIndex(), "draw order")
	}
	for _, l := range layers {
		parsed, err := ParseLayer(l.Name())
		require.NoError(t, err)
		assert.Equal(t, l, parsed)
	}
	parsed, err := ParseLayer(" world ")
	require.NoError(t, err)
	assert.Equal(t, World, parsed)

	_, err = ParseLayer("sky")
	assert.Error(t, err)
	assert.False(t, Layer(9).Valid())
	assert.Equal(t, "Layer(9)", Layer(9).String())
}

func TestTilePosFromInts(t *testing.T) {
	size := TilemapSize{X: 2, Y: 3}
	pos, ok := TilePosFromInts(1, 2, size)
	require.True(t, ok)
	assert.Equal(t, TilePos{X: 1, Y: 2}, pos)
	_, ok = TilePosFromInts(-1, 0, size)
	assert.False(t, ok)
	_, ok = TilePosFromInts(2, 0, size)
	assert.False(t, ok)
}
