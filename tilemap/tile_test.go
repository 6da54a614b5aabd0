package tilemap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTilemapSizeAllocatable(t *testing.T) {
	cases := []struct {
		size TilemapSize
		want bool
	}{
		{TilemapSize{X: 4, Y: 4}, true},
		{TilemapSize{X: 1 << 12, Y: 1 << 12}, true},
		{TilemapSize{X: 1<<12 + 1, Y: 1 << 12}, false},
		{TilemapSize{X: 1 << 31, Y: 1 << 31}, false},
		{TilemapSize{X: 0, Y: 8}, false},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%dx%d", c.size.X, c.size.Y), func(t *testing.T) {
			assert.Equal(t, c.want, c.size.Allocatable())
		})
	}
}
