package dem

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// An Interpolation is an interpolation method.
type Interpolation int

const (
	InterpolationBicubic Interpolation = iota
	InterpolationBilinear
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationBicubic:
		return "bicubic"
	case InterpolationBilinear:
		return "bilinear"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// ParseInterpolation parses an interpolation method by name.
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "bicubic", "cubic":
		return InterpolationBicubic, nil
	case "bilinear", "linear":
		return InterpolationBilinear, nil
	default:
		return 0, fmt.Errorf("%s: unknown interpolation", s)
	}
}

// An Interpolant evaluates a continuous surface through the nodes of a Grid.
// Both methods pass exactly through the nodes and reproduce planar surfaces.
// Points outside the grid's nodes are rejected rather than extrapolated.
type Interpolant struct {
	grid          *Grid
	bounds        orb.Bound
	interpolation Interpolation
}

// NewInterpolant returns a new Interpolant over grid.
func NewInterpolant(grid *Grid, interpolation Interpolation) *Interpolant {
	return &Interpolant{
		grid:          grid,
		bounds:        grid.GridBounds(),
		interpolation: interpolation,
	}
}

// At returns the interpolated elevation at the native coordinate (x, y). It
// returns ErrOutOfBounds if (x, y) is outside the grid's nodes.
func (p *Interpolant) At(x, y float64) (float64, error) {
	if math.IsNaN(x) || math.IsNaN(y) || !p.bounds.Contains(orb.Point{x, y}) {
		return 0, fmt.Errorf("%w: (%g, %g) outside %v", ErrOutOfBounds, x, y, p.bounds)
	}

	i, dx := p.cell((x-p.grid.XLLCorner)/p.grid.CellSize, p.grid.NCols)
	j, dy := p.cell((y-p.grid.YLLCorner)/p.grid.CellSize, p.grid.NRows)

	switch p.interpolation {
	case InterpolationBilinear:
		return 0 +
			p.node(i, j)*(1-dx)*(1-dy) +
			p.node(i+1, j)*dx*(1-dy) +
			p.node(i, j+1)*(1-dx)*dy +
			p.node(i+1, j+1)*dx*dy, nil
	default:
		wx := catmullRomWeights(dx)
		wy := catmullRomWeights(dy)
		var z float64
		for l := range 4 {
			var row float64
			for k := range 4 {
				row += wx[k] * p.node(i-1+k, j-1+l)
			}
			z += wy[l] * row
		}
		return z, nil
	}
}

// cell returns the index of the cell containing the fractional index f and
// the offset of f within it.
func (p *Interpolant) cell(f float64, n int) (int, float64) {
	index := int(math.Floor(f))
	index = min(index, n-2)
	index = max(index, 0)
	return index, f - float64(index)
}

// node returns the sample at column i and row j. Indexes one beyond the grid
// are extrapolated linearly from the two nearest nodes.
func (p *Interpolant) node(i, j int) float64 {
	nCols, nRows := p.grid.NCols, p.grid.NRows
	switch {
	case i < 0:
		if nCols == 1 {
			return p.node(0, j)
		}
		return 2*p.node(0, j) - p.node(1, j)
	case i >= nCols:
		if nCols == 1 {
			return p.node(0, j)
		}
		return 2*p.node(nCols-1, j) - p.node(nCols-2, j)
	case j < 0:
		if nRows == 1 {
			return p.node(i, 0)
		}
		return 2*p.node(i, 0) - p.node(i, 1)
	case j >= nRows:
		if nRows == 1 {
			return p.node(i, 0)
		}
		return 2*p.node(i, nRows-1) - p.node(i, nRows-2)
	default:
		return p.grid.Z[j][i]
	}
}

// catmullRomWeights returns the weights of the four nodes around a point at
// offset t in [0, 1] from the second node.
func catmullRomWeights(t float64) [4]float64 {
	t2 := t * t
	t3 := t2 * t
	return [4]float64{
		(-t3 + 2*t2 - t) / 2,
		(3*t3 - 5*t2 + 2) / 2,
		(-3*t3 + 4*t2 + t) / 2,
		(t3 - t2) / 2,
	}
}
