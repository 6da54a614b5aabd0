package levels

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/milk9111/tilegrid/tilemap"
)

//go:embed *.yaml
var LevelsFS embed.FS

// LoadEmbedded applies the embedded level name to layer.
func (s *LevelSerializer) LoadEmbedded(name string, layer tilemap.Layer) error {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrReadLevel, name, err)
	}
	return s.load(data, FormatForPath(name), layer)
}
