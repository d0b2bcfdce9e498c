package dem_test

import (
	"errors"
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/paulmach/orb"

	"github.com/geodem/go-dem"
)

// planarHeader and planarElevation describe a tile whose surface is the plane
// z = x + 2y.
var planarHeader = dem.Header{
	NCols:       10,
	NRows:       10,
	XLLCorner:   1000,
	YLLCorner:   2000,
	CellSize:    10,
	NoDataValue: -9999,
}

func planarElevation(x, y float64) float64 {
	return x + 2*y
}

func planarTile(header dem.Header) string {
	return formatTile(header, sampleRows(header, func(i, j int) float64 {
		x := header.XLLCorner + header.CellSize*float64(i)
		y := header.YLLCorner + header.CellSize*float64(j)
		return planarElevation(x, y)
	}))
}

func geographic(x, y float64) []float64 {
	lat, lon := testGeographic(x, y)
	return []float64{lat, lon}
}

func newTestDEM(t *testing.T, files map[string]string, x, y, radius float64, options ...dem.Option) (*dem.DEM, error) {
	t.Helper()
	options = append([]dem.Option{dem.WithTransforms(testToGeographic, testToNative)}, options...)
	return dem.New(mapFS(files), geographic(x, y), radius, options...)
}

func TestDEM(t *testing.T) {
	files := map[string]string{
		"planar.asc": planarTile(planarHeader),
		"other.asc":  constantTile(dem.Header{NCols: 10, NRows: 10, XLLCorner: 5000, YLLCorner: 5000, CellSize: 10}, 0),
	}
	for _, interpolation := range []dem.Interpolation{
		dem.InterpolationBicubic,
		dem.InterpolationBilinear,
	} {
		t.Run(interpolation.String(), func(t *testing.T) {
			d, err := newTestDEM(t, files, 1050, 2050, 20, dem.WithInterpolation(interpolation))
			assert.NoError(t, err)
			assert.Equal(t, "planar.asc", d.Tile().Name)
			assert.Equal(t, planarHeader, d.Tile().Header)
			assert.Equal(t, 20.0, d.AreaOfInterest().Radius)

			assert.Equal(t, 10, len(d.Grid().X))
			assert.Equal(t, 10, len(d.Grid().Y))
			assert.False(t, d.Window().Clipped)
			windowBounds, areaBound := d.Window().Bounds(), d.AreaOfInterest().Bound()
			assert.True(t, windowBounds.Contains(areaBound.Min))
			assert.True(t, windowBounds.Contains(areaBound.Max))

			assert.Equal(t, 10, d.TileGeoGrid().Rows())
			assert.Equal(t, 10, d.TileGeoGrid().Cols())
			assert.Equal(t, d.Window().Rows(), d.WindowGeoGrid().Rows())
			assert.Equal(t, d.Window().Cols(), d.WindowGeoGrid().Cols())
			for j := range d.WindowGeoGrid().Rows() {
				for i := range d.WindowGeoGrid().Cols() {
					x, y := d.Window().X[i], d.Window().Y[j]
					lat, lon := testGeographic(x, y)
					assertNear(t, lat, d.WindowGeoGrid().Lat[j][i], 1e-12)
					assertNear(t, lon, d.WindowGeoGrid().Lon[j][i], 1e-12)
					assert.Equal(t, planarElevation(x, y), d.WindowGeoGrid().Elevation[j][i])
				}
			}

			for _, coord := range [][]float64{
				{1050, 2050},
				{1033.3, 2066.6},
				{1000.5, 2000.5},
				{1089.5, 2089.5},
				{1001, 2089}, // Outside the window, inside the tile.
			} {
				actual, err := d.ElevationNative(coord[0], coord[1])
				assert.NoError(t, err)
				assertNear(t, planarElevation(coord[0], coord[1]), actual, 1e-9)

				lat, lon := testGeographic(coord[0], coord[1])
				actual, err = d.Elevation(lat, lon)
				assert.NoError(t, err)
				assertNear(t, planarElevation(coord[0], coord[1]), actual, 1e-6)
			}

			for _, corner := range [][]float64{{1000, 2000}, {1090, 2000}, {1000, 2090}, {1090, 2090}} {
				actual, err := d.ElevationNative(corner[0], corner[1])
				assert.NoError(t, err)
				assertNear(t, planarElevation(corner[0], corner[1]), actual, 1e-9)
			}
		})
	}
}

func TestDEMElevationIdempotent(t *testing.T) {
	files := map[string]string{
		"curved.asc": formatTile(planarHeader, sampleRows(planarHeader, func(i, j int) float64 {
			return float64(i*i) + 3*float64(j) - float64(i*j)/7
		})),
	}
	for _, interpolation := range []dem.Interpolation{
		dem.InterpolationBicubic,
		dem.InterpolationBilinear,
	} {
		t.Run(interpolation.String(), func(t *testing.T) {
			d, err := newTestDEM(t, files, 1050, 2050, 20, dem.WithInterpolation(interpolation))
			assert.NoError(t, err)
			for _, coord := range [][]float64{{1050, 2050}, {1033.3, 2066.6}, {1012.7, 2081.9}} {
				lat, lon := testGeographic(coord[0], coord[1])
				first, err := d.Elevation(lat, lon)
				assert.NoError(t, err)
				second, err := d.Elevation(lat, lon)
				assert.NoError(t, err)
				assert.Equal(t, first, second)

				elevations, err := d.Elevations([][]float64{{lat, lon}, {lat, lon}})
				assert.NoError(t, err)
				assert.Equal(t, []float64{first, first}, elevations)
			}
		})
	}
}

func TestDEMConstant(t *testing.T) {
	header := dem.Header{NCols: 20, NRows: 20, XLLCorner: 0, YLLCorner: 0, CellSize: 5, NoDataValue: -9999}
	d, err := newTestDEM(t, map[string]string{
		"constant.asc": constantTile(header, 100),
	}, 50, 50, 10)
	assert.NoError(t, err)
	for _, coord := range [][]float64{{50, 50}, {42, 58}, {0.5, 94.5}} {
		lat, lon := testGeographic(coord[0], coord[1])
		elevation, err := d.Elevation(lat, lon)
		assert.NoError(t, err)
		assertNear(t, 100, elevation, 1e-9)
	}
	for _, row := range d.WindowGeoGrid().Elevation {
		for _, elevation := range row {
			assert.Equal(t, 100.0, elevation)
		}
	}
}

func TestDEMElevations(t *testing.T) {
	d, err := newTestDEM(t, map[string]string{
		"planar.asc": planarTile(planarHeader),
	}, 1050, 2050, 20)
	assert.NoError(t, err)

	coords := [][]float64{
		geographic(1010, 2010),
		geographic(1020, 2080),
		geographic(1075, 2025),
	}
	coordsCopy := [][]float64{
		append([]float64(nil), coords[0]...),
		append([]float64(nil), coords[1]...),
		append([]float64(nil), coords[2]...),
	}
	elevations, err := d.Elevations(coords)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(elevations))
	assertNear(t, planarElevation(1010, 2010), elevations[0], 1e-6)
	assertNear(t, planarElevation(1020, 2080), elevations[1], 1e-6)
	assertNear(t, planarElevation(1075, 2025), elevations[2], 1e-6)
	assert.Equal(t, coordsCopy, coords)

	elevations, err = d.Elevations(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(elevations))

	_, err = d.Elevations([][]float64{geographic(1010, 2010), geographic(500, 2010)})
	assert.IsError(t, err, dem.ErrOutOfBounds)

	_, err = d.Elevations([][]float64{{45}})
	assert.Error(t, err)
}

func TestDEMOutOfBounds(t *testing.T) {
	d, err := newTestDEM(t, map[string]string{
		"planar.asc": planarTile(planarHeader),
	}, 1050, 2050, 20)
	assert.NoError(t, err)
	for _, coord := range [][]float64{
		{999, 2050},
		{1050, 1999},
		{1091, 2050}, // Inside the tile's rectangle, beyond its last node.
		{1050, 2095},
		{0, 0},
	} {
		lat, lon := testGeographic(coord[0], coord[1])
		_, err := d.Elevation(lat, lon)
		assert.IsError(t, err, dem.ErrOutOfBounds)
		_, err = d.ElevationNative(coord[0], coord[1])
		assert.IsError(t, err, dem.ErrOutOfBounds)
	}
	_, err = d.Elevation(math.NaN(), 2)
	assert.Error(t, err)
}

func TestDEMSelectErrors(t *testing.T) {
	files := map[string]string{
		"a.asc": planarTile(planarHeader),
		"b.asc": planarTile(dem.Header{NCols: 10, NRows: 10, XLLCorner: 1100, YLLCorner: 2000, CellSize: 10}),
	}
	for _, tc := range []struct {
		name     string
		x        float64
		y        float64
		radius   float64
		expected error
	}{
		{name: "no_matching_tile", x: 5000, y: 5000, radius: 20, expected: dem.ErrNoMatchingTile},
		{name: "spans_tiles", x: 1100, y: 2050, radius: 20, expected: dem.ErrAreaSpansTiles},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestDEM(t, files, tc.x, tc.y, tc.radius)
			assert.IsError(t, err, tc.expected)
		})
	}

	d, err := newTestDEM(t, files, 1150, 2050, 20)
	assert.NoError(t, err)
	assert.Equal(t, "b.asc", d.Tile().Name)
}

func TestDEMClipped(t *testing.T) {
	d, err := newTestDEM(t, map[string]string{
		"planar.asc": planarTile(planarHeader),
	}, 1010, 2010, 30)
	assert.NoError(t, err)
	assert.True(t, d.Window().Clipped)
	assert.Equal(t, 1000.0, d.Window().X[0])
	assert.Equal(t, 2000.0, d.Window().Y[0])
	assert.Equal(t, len(d.Window().X), d.WindowGeoGrid().Cols())
}

func TestDEMErrors(t *testing.T) {
	files := map[string]string{
		"planar.asc": planarTile(planarHeader),
	}

	for _, radius := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		_, err := newTestDEM(t, files, 1050, 2050, radius)
		assert.Error(t, err)
	}

	_, err := dem.New(mapFS(files), []float64{45}, 20, dem.WithTransforms(testToGeographic, testToNative))
	assert.Error(t, err)

	errTest := errors.New("test")
	failing := dem.TransformFunc(func([][]float64) error {
		return errTest
	})
	_, err = newTestDEM(t, files, 1050, 2050, 20, dem.WithTransforms(testToGeographic, failing))
	assert.IsError(t, err, dem.ErrTransform)
	_, err = newTestDEM(t, files, 1050, 2050, 20, dem.WithTransforms(failing, testToNative))
	assert.IsError(t, err, dem.ErrTransform)

	_, err = newTestDEM(t, map[string]string{
		"planar.asc": "ncols 10\nnrows 10\n",
	}, 1050, 2050, 20)
	assert.IsError(t, err, dem.ErrFileFormat)

	_, err = newTestDEM(t, files, 1050, 2050, 20, dem.WithCatalogOptions(dem.WithHeaderCacheSize(-1)))
	assert.Error(t, err)
}

func TestDEMSharedCatalog(t *testing.T) {
	catalog, err := dem.NewCatalog(mapFS(map[string]string{
		"planar.asc": planarTile(planarHeader),
	}))
	assert.NoError(t, err)
	for _, x := range []float64{1030, 1050, 1070} {
		d, err := dem.New(nil, geographic(x, 2050), 20,
			dem.WithTransforms(testToGeographic, testToNative),
			dem.WithCatalog(catalog),
		)
		assert.NoError(t, err)
		assert.Equal(t, "planar.asc", d.Tile().Name)
	}
}

func TestDEMFootprint(t *testing.T) {
	d, err := newTestDEM(t, map[string]string{
		"planar.asc": planarTile(planarHeader),
	}, 1050, 2050, 20)
	assert.NoError(t, err)

	featureCollection, err := d.Footprint()
	assert.NoError(t, err)
	assert.Equal(t, 3, len(featureCollection.Features))

	var kinds []string
	for _, feature := range featureCollection.Features {
		kinds = append(kinds, feature.Properties.MustString("kind"))
		assert.Equal(t, "planar.asc", feature.Properties.MustString("name"))
		polygon, ok := feature.Geometry.(orb.Polygon)
		assert.True(t, ok)
		assert.Equal(t, 5, len(polygon[0]))
		assert.Equal(t, polygon[0][0], polygon[0][4])
	}
	assert.Equal(t, []string{"tile", "area", "window"}, kinds)

	tile := featureCollection.Features[0].Geometry.Bound()
	lat, lon := testGeographic(1000, 2000)
	assertNear(t, lon, tile.Min.X(), 1e-12)
	assertNear(t, lat, tile.Min.Y(), 1e-12)
	lat, lon = testGeographic(1100, 2100)
	assertNear(t, lon, tile.Max.X(), 1e-12)
	assertNear(t, lat, tile.Max.Y(), 1e-12)
}
