// Package dem loads digital elevation models from ESRI ASCII grid tiles,
// extracts the part of a tile around a point of interest, reprojects it to
// geographic coordinates, and interpolates elevations.
package dem

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/paulmach/orb"
)

var (
	ErrFileFormat     = errors.New("malformed tile")
	ErrNoMatchingTile = errors.New("no tile intersects area of interest")
	ErrAreaSpansTiles = errors.New("area of interest spans several tiles")
	ErrOutOfBounds    = errors.New("out of bounds")
	ErrTransform      = errors.New("transform failed")
)

var discardLogger = slog.New(slog.DiscardHandler)

// Default CRSs, RGF93 / Lambert-93 and WGS 84.
const (
	DefaultNativeCRS     = "epsg:2154"
	DefaultGeographicCRS = "epsg:4326"
)

// A DEM is the tile covering an area of interest. All of its data is
// computed when it is created and it is read-only thereafter.
type DEM struct {
	nativeCRS      string
	geographicCRS  string
	toGeographic   Transform
	toNative       Transform
	interpolation  Interpolation
	catalog        *Catalog
	catalogOptions []CatalogOption
	logger         *slog.Logger

	area          AreaOfInterest
	tile          Tile
	grid          *Grid
	window        *Window
	tileGeoGrid   *GeoGrid
	windowGeoGrid *GeoGrid
	interpolant   *Interpolant
}

// An Option sets an option on a DEM.
type Option func(*DEM)

// WithCRS sets the native and geographic CRSs used to create the default
// transforms.
func WithCRS(nativeCRS, geographicCRS string) Option {
	return func(d *DEM) {
		d.nativeCRS = nativeCRS
		d.geographicCRS = geographicCRS
	}
}

// WithTransforms sets the transforms between native and geographic
// coordinates. Geographic coordinates are latitude first.
func WithTransforms(toGeographic, toNative Transform) Option {
	return func(d *DEM) {
		d.toGeographic = toGeographic
		d.toNative = toNative
	}
}

func WithInterpolation(interpolation Interpolation) Option {
	return func(d *DEM) {
		d.interpolation = interpolation
	}
}

// WithCatalog sets the catalog to select tiles from, so that several DEMs can
// share the catalog's header cache.
func WithCatalog(catalog *Catalog) Option {
	return func(d *DEM) {
		d.catalog = catalog
	}
}

func WithCatalogOptions(catalogOptions ...CatalogOption) Option {
	return func(d *DEM) {
		d.catalogOptions = catalogOptions
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *DEM) {
		d.logger = logger
	}
}

// New returns the DEM of the square with half-width radius, in native units,
// around center, given as latitude and longitude. Tiles are read from fsys.
func New(fsys fs.FS, center []float64, radius float64, options ...Option) (*DEM, error) {
	d := &DEM{
		nativeCRS:     DefaultNativeCRS,
		geographicCRS: DefaultGeographicCRS,
		interpolation: InterpolationBicubic,
		logger:        discardLogger,
	}
	for _, option := range options {
		option(d)
	}

	if d.toGeographic == nil || d.toNative == nil {
		toGeographic, toNative, err := NewProjTransforms(d.nativeCRS, d.geographicCRS)
		if err != nil {
			return nil, err
		}
		d.toGeographic, d.toNative = toGeographic, toNative
	}

	if d.catalog == nil {
		catalog, err := NewCatalog(fsys, append([]CatalogOption{WithCatalogLogger(d.logger)}, d.catalogOptions...)...)
		if err != nil {
			return nil, err
		}
		d.catalog = catalog
	}

	centerCoords, err := cloneCoords([][]float64{center})
	if err != nil {
		return nil, err
	}
	if err := transform(d.toNative, centerCoords); err != nil {
		return nil, fmt.Errorf("center %v: %w", center, err)
	}
	d.area, err = NewAreaOfInterest(orb.Point{centerCoords[0][0], centerCoords[0][1]}, radius)
	if err != nil {
		return nil, err
	}

	d.tile, err = d.catalog.Select(d.area)
	if err != nil {
		return nil, err
	}

	d.grid, err = d.catalog.LoadGrid(d.tile)
	if err != nil {
		return nil, err
	}

	d.window, err = d.grid.Window(d.area.Bound())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.tile.Name, err)
	}
	if d.window.Clipped {
		d.logger.Warn("area of interest extends beyond tile", "name", d.tile.Name, "area", d.area.Bound(), "grid", d.grid.GridBounds())
	}

	d.tileGeoGrid, err = Reproject(d.toGeographic, d.grid.X, d.grid.Y, d.grid.Z)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.tile.Name, err)
	}
	d.windowGeoGrid, err = Reproject(d.toGeographic, d.window.X, d.window.Y, d.window.Z)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.tile.Name, err)
	}

	d.interpolant = NewInterpolant(d.grid, d.interpolation)

	d.logger.Info("loaded tile",
		"name", d.tile.Name,
		"ncols", d.grid.NCols,
		"nrows", d.grid.NRows,
		"windowCols", d.window.Cols(),
		"windowRows", d.window.Rows(),
		"interpolation", d.interpolation,
	)
	return d, nil
}

// Elevation returns the elevation at lat, lon.
func (d *DEM) Elevation(lat, lon float64) (float64, error) {
	elevations, err := d.Elevations([][]float64{{lat, lon}})
	if err != nil {
		return 0, err
	}
	return elevations[0], nil
}

// Elevations returns the elevations at coords, each latitude first. The
// whole tile is used, not just the window. It is an error for any coordinate
// to be outside the tile.
func (d *DEM) Elevations(coords [][]float64) ([]float64, error) {
	nativeCoords, err := cloneCoords(coords)
	if err != nil {
		return nil, err
	}
	if err := transform(d.toNative, nativeCoords); err != nil {
		return nil, err
	}
	elevations := make([]float64, len(nativeCoords))
	for i, nativeCoord := range nativeCoords {
		elevationQueries.Inc()
		elevation, err := d.interpolant.At(nativeCoord[0], nativeCoord[1])
		if err != nil {
			outOfBoundsQueries.Inc()
			return nil, fmt.Errorf("lat %g lon %g: %w", coords[i][0], coords[i][1], err)
		}
		elevations[i] = elevation
	}
	return elevations, nil
}

// ElevationNative returns the elevation at the native coordinate (x, y).
func (d *DEM) ElevationNative(x, y float64) (float64, error) {
	elevationQueries.Inc()
	elevation, err := d.interpolant.At(x, y)
	if err != nil {
		outOfBoundsQueries.Inc()
	}
	return elevation, err
}

// AreaOfInterest returns d's area of interest.
func (d *DEM) AreaOfInterest() AreaOfInterest {
	return d.area
}

// Tile returns the tile that d was loaded from.
func (d *DEM) Tile() Tile {
	return d.tile
}

// Grid returns the complete grid of d's tile.
func (d *DEM) Grid() *Grid {
	return d.grid
}

// Window returns the part of d's grid covering the area of interest.
func (d *DEM) Window() *Window {
	return d.window
}

// TileGeoGrid returns the complete tile in geographic coordinates.
func (d *DEM) TileGeoGrid() *GeoGrid {
	return d.tileGeoGrid
}

// WindowGeoGrid returns the window in geographic coordinates.
func (d *DEM) WindowGeoGrid() *GeoGrid {
	return d.windowGeoGrid
}
