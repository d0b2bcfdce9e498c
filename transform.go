package dem

import (
	"fmt"
	"math"

	"github.com/twpayne/go-proj/v10"
)

// A Transform transforms coordinates in place. Each coordinate has at least
// two elements.
type Transform interface {
	Transform(coords [][]float64) error
}

// A TransformFunc is a func that implements Transform.
type TransformFunc func(coords [][]float64) error

func (f TransformFunc) Transform(coords [][]float64) error {
	return f(coords)
}

// A ProjTransform is a Transform between two CRSs using PROJ.
type ProjTransform struct {
	pj      *proj.PJ
	inverse bool
}

// NewProjTransforms returns the transforms from nativeCRS to geographicCRS and
// back. CRSs are given as authority codes, for example "epsg:2154". Axis order
// follows the authority, so EPSG:4326 coordinates are latitude first.
func NewProjTransforms(nativeCRS, geographicCRS string) (toGeographic, toNative *ProjTransform, err error) {
	pj, err := proj.NewCRSToCRS(nativeCRS, geographicCRS, nil)
	if err != nil {
		return nil, nil, err
	}
	toGeographic = &ProjTransform{
		pj: pj,
	}
	toNative = &ProjTransform{
		pj:      pj,
		inverse: true,
	}
	return toGeographic, toNative, nil
}

func (t *ProjTransform) Transform(coords [][]float64) error {
	if t.inverse {
		return t.pj.InverseFloat64Slices(coords)
	}
	return t.pj.ForwardFloat64Slices(coords)
}

// transform applies t to coords, treating failures and non-finite results as
// ErrTransform.
func transform(t Transform, coords [][]float64) error {
	if err := t.Transform(coords); err != nil {
		return fmt.Errorf("%w: %w", ErrTransform, err)
	}
	for _, coord := range coords {
		if !isFinite(coord[0]) || !isFinite(coord[1]) {
			return fmt.Errorf("%w: non-finite result %v", ErrTransform, coord[:2])
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// cloneCoords returns a deep copy of the first two elements of each of coords.
func cloneCoords(coords [][]float64) ([][]float64, error) {
	clonedCoordsFlat := make([]float64, 2*len(coords))
	clonedCoords := make([][]float64, len(coords))
	for i, coord := range coords {
		if len(coord) < 2 {
			return nil, fmt.Errorf("coordinate %d: expected 2 values, got %d", i, len(coord))
		}
		copy(clonedCoordsFlat[2*i:2*i+2], coord)
		clonedCoords[i] = clonedCoordsFlat[2*i : 2*i+2 : 2*i+2]
	}
	return clonedCoords, nil
}
