package dem

import (
	"errors"
	"fmt"
)

// A GeoGrid is a grid in geographic coordinates. Lat[j][i], Lon[j][i], and
// Elevation[j][i] describe the same node.
type GeoGrid struct {
	Lat       [][]float64
	Lon       [][]float64
	Elevation [][]float64
}

// Reproject transforms the nodes of the grid with axes xs and ys and samples
// zs with t. Elevations are copied unchanged. The inputs are not modified.
func Reproject(t Transform, xs, ys []float64, zs [][]float64) (*GeoGrid, error) {
	if len(xs) == 0 || len(ys) == 0 {
		return nil, errors.New("empty grid")
	}
	if len(zs) != len(ys) {
		return nil, fmt.Errorf("found %d rows of samples, expected %d", len(zs), len(ys))
	}

	nCols := len(xs)
	coordsFlat := make([]float64, 2*len(ys)*nCols)
	coords := make([][]float64, len(ys)*nCols)
	for j, y := range ys {
		if len(zs[j]) != nCols {
			return nil, fmt.Errorf("row %d: found %d samples, expected %d", j, len(zs[j]), nCols)
		}
		for i, x := range xs {
			k := j*nCols + i
			coord := coordsFlat[2*k : 2*k+2 : 2*k+2]
			coord[0], coord[1] = x, y
			coords[k] = coord
		}
	}

	if err := transform(t, coords); err != nil {
		return nil, err
	}

	geoGrid := &GeoGrid{
		Lat:       make([][]float64, len(ys)),
		Lon:       make([][]float64, len(ys)),
		Elevation: make([][]float64, len(ys)),
	}
	lats := make([]float64, len(coords))
	lons := make([]float64, len(coords))
	elevations := make([]float64, len(coords))
	for j := range ys {
		for i := range xs {
			k := j*nCols + i
			lats[k], lons[k] = coords[k][0], coords[k][1]
		}
		copy(elevations[j*nCols:(j+1)*nCols], zs[j])
		geoGrid.Lat[j] = lats[j*nCols : (j+1)*nCols : (j+1)*nCols]
		geoGrid.Lon[j] = lons[j*nCols : (j+1)*nCols : (j+1)*nCols]
		geoGrid.Elevation[j] = elevations[j*nCols : (j+1)*nCols : (j+1)*nCols]
	}
	return geoGrid, nil
}

// Rows returns the number of rows in g.
func (g *GeoGrid) Rows() int {
	return len(g.Elevation)
}

// Cols returns the number of columns in g.
func (g *GeoGrid) Cols() int {
	if len(g.Elevation) == 0 {
		return 0
	}
	return len(g.Elevation[0])
}
