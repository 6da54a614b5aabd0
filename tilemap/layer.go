package tilemap

import (
	"fmt"
	"strings"
)

// Layer identifies one of the fixed tile grids.
type Layer uint8

const (
	Background Layer = iota
	World
	Foreground

	layerCount
)

var layerNames = [layerCount]string{
	Background: "Background",
	World:      "World",
	Foreground: "Foreground",
}

var layerZ = [layerCount]float64{
	Background: -1,
	World:      0,
	Foreground: 1,
}

// Layers returns every layer in draw order.
func Layers() []Layer {
	return []Layer{Background, World, Foreground}
}

// Valid reports whether l is one of the known layers.
func (l Layer) Valid() bool {
	return l < layerCount
}

// ZIndex is the draw order of the layer. Lower values draw first.
func (l Layer) ZIndex() float64 {
	if !l.Valid() {
		return 0
	}
	return layerZ[l]
}

// Name returns the display name of the layer.
func (l Layer) Name() string {
	if !l.Valid() {
		return fmt.Sprintf("Layer(%d)", uint8(l))
	}
	return layerNames[l]
}

func (l Layer) String() string {
	return l.Name()
}

// ParseLayer resolves a layer from its display name, case-insensitively.
func ParseLayer(name string) (Layer, error) {
	for _, l := range Layers() {
		if strings.EqualFold(l.Name(), strings.TrimSpace(name)) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("tilemap: unknown layer %q", name)
}
