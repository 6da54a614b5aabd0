package tilemap

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrSingularTransform is returned when a placement transform has no inverse.
var ErrSingularTransform = errors.New("tilemap: singular placement transform")

// Affine maps a layer's local grid space into world space:
//
//	x' = A*x + B*y + Tx
//	y' = C*x + D*y + Ty
type Affine struct {
	A, B, C, D float64
	Tx, Ty     float64
}

// Identity returns the transform that leaves positions unchanged.
func Identity() Affine {
	return Affine{A: 1, D: 1}
}

// Translate returns a pure translation.
func Translate(x, y float64) Affine {
	return Affine{A: 1, D: 1, Tx: x, Ty: y}
}

// Scale returns a pure scale about the origin.
func Scale(sx, sy float64) Affine {
	return Affine{A: sx, D: sy}
}

// Rotate returns a counter-clockwise rotation by theta radians.
func Rotate(theta float64) Affine {
	sin, cos := math.Sincos(theta)
	return Affine{A: cos, B: -sin, C: sin, D: cos}
}

func affineFromDense(m *mat.Dense) Affine {
	return Affine{
		A: m.At(0, 0), B: m.At(0, 1), Tx: m.At(0, 2),
		C: m.At(1, 0), D: m.At(1, 1), Ty: m.At(1, 2),
	}
}

func (t Affine) dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		t.A, t.B, t.Tx,
		t.C, t.D, t.Ty,
		0, 0, 1,
	})
}

// Mul returns the transform that applies o first and then t.
func (t Affine) Mul(o Affine) Affine {
	var out mat.Dense
	out.Mul(t.dense(), o.dense())
	return affineFromDense(&out)
}

// Apply maps p through the transform.
func (t Affine) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: t.A*p.X + t.B*p.Y + t.Tx,
		Y: t.C*p.X + t.D*p.Y + t.Ty,
	}
}

// Invert returns the inverse transform.
func (t Affine) Invert() (Affine, error) {
	m := t.dense()
	det := mat.Det(m)
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Affine{}, ErrSingularTransform
	}
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		// A Condition error still carries a usable inverse.
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return Affine{}, ErrSingularTransform
		}
	}
	return affineFromDense(&inv), nil
}

// WorldToTile maps a world position to the cell under it. The position is
// taken into the layer's local frame with the inverse placement transform,
// then each axis is divided by the cell size, offset by half a cell and
// floored. Positions that land outside the grid have no cell.
func WorldToTile(world r2.Vec, placement Affine, size TilemapSize, grid GridSize) (TilePos, bool) {
	inv, err := placement.Invert()
	if err != nil {
		return TilePos{}, false
	}
	return LocalToTile(inv.Apply(world), size, grid)
}

// LocalToTile is WorldToTile for a position already in the layer's frame.
func LocalToTile(local r2.Vec, size TilemapSize, grid GridSize) (TilePos, bool) {
	if grid.X <= 0 || grid.Y <= 0 {
		return TilePos{}, false
	}
	x := math.Floor(local.X/grid.X + 0.5)
	y := math.Floor(local.Y/grid.Y + 0.5)
	if !cellInRange(x) || !cellInRange(y) {
		return TilePos{}, false
	}
	return TilePosFromInts(int(x), int(y), size)
}

// cellInRange reports whether a floored cell coordinate converts to int
// without overflow. Bounds against the grid are checked afterwards.
func cellInRange(v float64) bool {
	return !math.IsNaN(v) && v >= math.MinInt32 && v <= math.MaxInt32
}

// TileToWorld returns the local-space anchor of pos. Under the half-cell
// offset used by WorldToTile the anchor is the centre of the cell.
func TileToWorld(pos TilePos, grid GridSize) r2.Vec {
	return r2.Vec{X: grid.X * float64(pos.X), Y: grid.Y * float64(pos.Y)}
}
