package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/tilegrid/tilemap"
	"golang.org/x/image/colornames"
)

var palette = []color.RGBA{
	colornames.Slategray,
	colornames.Sienna,
	colornames.Forestgreen,
	colornames.Steelblue,
	colornames.Goldenrod,
	colornames.Indianred,
	colornames.Mediumpurple,
	colornames.Teal,
	colornames.Peru,
	colornames.Darkolivegreen,
}

var transpose = func() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, 0)
	g.SetElement(0, 1, 1)
	g.SetElement(1, 0, 1)
	g.SetElement(1, 1, 0)
	return g
}()

func paletteColor(id tilemap.TileTextureIndex) color.RGBA {
	return palette[int(id)%len(palette)]
}

func (e *Editor) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	// Layers() is already in z order, background first.
	for _, layer := range e.access.Layers() {
		e.drawLayer(screen, layer)
	}
	e.drawCursor(screen)

	pos, ok := e.tileCursor.Pos()
	cell := "-"
	if ok {
		cell = pos.String()
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("layer %s  tile %d  flip %t  cell %s  shapes %d",
		e.activeLayer().Name(), e.brush.ID, e.brush.Flip.X, cell, e.collisions.ShapeCount()))
}

func (e *Editor) layerGeoM(layer tilemap.Layer) (ebiten.GeoM, bool) {
	t, _, ok := e.access.TransformSize(layer)
	if !ok {
		return ebiten.GeoM{}, false
	}
	var g ebiten.GeoM
	g.SetElement(0, 0, t.A)
	g.SetElement(0, 1, t.B)
	g.SetElement(0, 2, t.Tx)
	g.SetElement(1, 0, t.C)
	g.SetElement(1, 1, t.D)
	g.SetElement(1, 2, t.Ty)
	g.Translate(-e.camX, -e.camY)
	return g, true
}

func (e *Editor) drawLayer(screen *ebiten.Image, layer tilemap.Layer) {
	storage, ok := e.access.Storage(layer)
	if !ok {
		return
	}
	grid, _ := e.access.GridSize(layer)
	layerGeo, ok := e.layerGeoM(layer)
	if !ok {
		return
	}
	size := int(grid.X)
	alpha := float32(1)
	if layer != e.activeLayer() {
		alpha = 0.5
	}

	storage.Each(func(pos tilemap.TilePos, h tilemap.Handle) bool {
		props, ok := e.access.Properties(h)
		if !ok {
			return true
		}
		img := e.tileImage(layer, props.ID, size)
		w, hgt := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())

		op := &ebiten.DrawImageOptions{}
		// flip around the image centre
		op.GeoM.Translate(-w/2, -hgt/2)
		if props.Flip.D {
			op.GeoM.Concat(transpose)
		}
		sx, sy := 1.0, 1.0
		if props.Flip.X {
			sx = -1
		}
		if props.Flip.Y {
			sy = -1
		}
		op.GeoM.Scale(sx*grid.X/w, sy*grid.Y/hgt)
		anchor := tilemap.TileToWorld(pos, grid)
		op.GeoM.Translate(anchor.X, anchor.Y)
		op.GeoM.Concat(layerGeo)
		op.ColorScale.ScaleAlpha(alpha)
		screen.DrawImage(img, op)
		return true
	})
}

func (e *Editor) drawCursor(screen *ebiten.Image) {
	pos, ok := e.tileCursor.Pos()
	if !ok {
		return
	}
	layer := e.activeLayer()
	grid, _ := e.access.GridSize(layer)
	geo, ok := e.layerGeoM(layer)
	if !ok {
		return
	}
	min, size := tilemap.OutlineRect(pos, grid)
	x0, y0 := geo.Apply(min.X, min.Y)
	x1, y1 := geo.Apply(min.X+size.X, min.Y+size.Y)
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 1, colornames.Red, false)
}
