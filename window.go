package dem

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// WindowIndexes is an inclusive range of grid columns and rows.
type WindowIndexes struct {
	MinCol int
	MaxCol int
	MinRow int
	MaxRow int
}

// A Window is the part of a Grid that covers an area. Its slices share
// storage with the Grid.
type Window struct {
	WindowIndexes
	Clipped bool // The requested range extended beyond the grid.
	X       []float64
	Y       []float64
	Z       [][]float64
}

// NewWindowIndexes returns the grid indexes covering bound. The low edges are
// rounded down and the high edges up, so the nodes always enclose bound when
// it is inside the grid. Indexes are clamped to the grid, and clipped reports
// whether clamping was needed.
func NewWindowIndexes(bound orb.Bound, header Header) (indexes WindowIndexes, clipped bool, err error) {
	minCol := floorIndex((bound.Min.X() - header.XLLCorner) / header.CellSize)
	maxCol := ceilIndex((bound.Max.X() - header.XLLCorner) / header.CellSize)
	minRow := floorIndex((bound.Min.Y() - header.YLLCorner) / header.CellSize)
	maxRow := ceilIndex((bound.Max.Y() - header.YLLCorner) / header.CellSize)

	if maxCol < 0 || minCol > header.NCols-1 || maxRow < 0 || minRow > header.NRows-1 {
		return WindowIndexes{}, false, fmt.Errorf("%w: window %v outside grid %v", ErrOutOfBounds, bound, header.GridBounds())
	}

	clipped = minCol < 0 || maxCol > header.NCols-1 || minRow < 0 || maxRow > header.NRows-1
	return WindowIndexes{
		MinCol: max(minCol, 0),
		MaxCol: min(maxCol, header.NCols-1),
		MinRow: max(minRow, 0),
		MaxRow: min(maxRow, header.NRows-1),
	}, clipped, nil
}

// Cols returns the number of columns in w.
func (w WindowIndexes) Cols() int {
	return w.MaxCol - w.MinCol + 1
}

// Rows returns the number of rows in w.
func (w WindowIndexes) Rows() int {
	return w.MaxRow - w.MinRow + 1
}

// Window returns the part of g covering bound.
func (g *Grid) Window(bound orb.Bound) (*Window, error) {
	indexes, clipped, err := NewWindowIndexes(bound, g.Header)
	if err != nil {
		return nil, err
	}
	z := make([][]float64, 0, indexes.Rows())
	for _, row := range g.Z[indexes.MinRow : indexes.MaxRow+1] {
		z = append(z, row[indexes.MinCol:indexes.MaxCol+1])
	}
	return &Window{
		WindowIndexes: indexes,
		Clipped:       clipped,
		X:             g.X[indexes.MinCol : indexes.MaxCol+1],
		Y:             g.Y[indexes.MinRow : indexes.MaxRow+1],
		Z:             z,
	}, nil
}

// Bounds returns the extent of w's nodes.
func (w *Window) Bounds() orb.Bound {
	return orb.Bound{
		Min: orb.Point{w.X[0], w.Y[0]},
		Max: orb.Point{w.X[len(w.X)-1], w.Y[len(w.Y)-1]},
	}
}

// floorIndex and ceilIndex saturate so that huge or infinite offsets still
// compare correctly against the grid size.
func floorIndex(f float64) int {
	return saturate(math.Floor(f))
}

func ceilIndex(f float64) int {
	return saturate(math.Ceil(f))
}

func saturate(f float64) int {
	switch {
	case math.IsNaN(f):
		return math.MinInt32
	case f < math.MinInt32:
		return math.MinInt32
	case f > math.MaxInt32:
		return math.MaxInt32
	default:
		return int(f)
	}
}
