package dem_test

import (
	"fmt"
	"math"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/alecthomas/assert/v2"

	"github.com/geodem/go-dem"
)

// The test CRS maps native meters to degrees with a simple affine transform,
// latitude first.
const (
	testOriginLat  = 45
	testOriginLon  = 2
	testMetersPerD = 100000
)

var testdataFS = os.DirFS("testdata/tiles")

var (
	testToGeographic = dem.TransformFunc(func(coords [][]float64) error {
		for _, coord := range coords {
			x, y := coord[0], coord[1]
			coord[0] = testOriginLat + y/testMetersPerD
			coord[1] = testOriginLon + x/testMetersPerD
		}
		return nil
	})
	testToNative = dem.TransformFunc(func(coords [][]float64) error {
		for _, coord := range coords {
			lat, lon := coord[0], coord[1]
			coord[0] = (lon - testOriginLon) * testMetersPerD
			coord[1] = (lat - testOriginLat) * testMetersPerD
		}
		return nil
	})
)

// testGeographic returns the latitude and longitude of the native coordinate
// (x, y) in the test CRS.
func testGeographic(x, y float64) (float64, float64) {
	coords := [][]float64{{x, y}}
	_ = testToGeographic(coords)
	return coords[0][0], coords[0][1]
}

// formatTile returns an ESRI ASCII grid. rows are given north to south, as
// they are stored.
func formatTile(header dem.Header, rows [][]float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ncols %d\n", header.NCols)
	fmt.Fprintf(&sb, "nrows %d\n", header.NRows)
	fmt.Fprintf(&sb, "xllcorner %g\n", header.XLLCorner)
	fmt.Fprintf(&sb, "yllcorner %g\n", header.YLLCorner)
	fmt.Fprintf(&sb, "cellsize %g\n", header.CellSize)
	fmt.Fprintf(&sb, "NODATA_value %g\n", header.NoDataValue)
	for _, row := range rows {
		values := make([]string, len(row))
		for i, value := range row {
			values[i] = fmt.Sprintf("%g", value)
		}
		sb.WriteString(" " + strings.Join(values, " ") + "\n")
	}
	return sb.String()
}

// constantTile returns a tile with every sample set to value.
func constantTile(header dem.Header, value float64) string {
	return formatTile(header, sampleRows(header, func(int, int) float64 { return value }))
}

// sampleRows returns the rows of header's grid, north to south, with the
// sample at column i and row j, counted from the south, set to f(i, j).
func sampleRows(header dem.Header, f func(i, j int) float64) [][]float64 {
	rows := make([][]float64, header.NRows)
	for r := range rows {
		j := header.NRows - 1 - r
		rows[r] = make([]float64, header.NCols)
		for i := range rows[r] {
			rows[r][i] = f(i, j)
		}
	}
	return rows
}

func mapFS(files map[string]string) fstest.MapFS {
	fsys := make(fstest.MapFS)
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return fsys
}

func assertNear(t testing.TB, expected, actual, tolerance float64) {
	t.Helper()
	assert.True(t, math.Abs(expected-actual) <= tolerance, "expected %v, got %v (tolerance %v)", expected, actual, tolerance)
}
