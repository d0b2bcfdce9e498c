// Package plot renders DEM grids as images.
package plot

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/geodem/go-dem"
)

type options struct {
	width      int
	height     int
	colorRange [2]float64
	title      string
	azimuth    float64
	elevation  float64
}

// An Option sets a rendering option.
type Option func(*options)

func newOptions(width, height int, opts []Option) *options {
	o := &options{
		width:      width,
		height:     height,
		colorRange: [2]float64{0, 1},
		title:      "DEM",
		azimuth:    -60,
		elevation:  30,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithColorRange restricts the terrain color map to the fractions lo to hi.
func WithColorRange(lo, hi float64) Option {
	return func(o *options) {
		o.colorRange = [2]float64{lo, hi}
	}
}

func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithView sets the azimuth and elevation, in degrees, of 3D views.
func WithView(azimuth, elevation float64) Option {
	return func(o *options) {
		o.azimuth = azimuth
		o.elevation = elevation
	}
}

// SavePNG writes img to path as a PNG.
func SavePNG(path string, img image.Image) error {
	return gg.SavePNG(path, img)
}

func (o *options) validate() error {
	if o.width < 200 || o.height < 200 {
		return fmt.Errorf("%dx%d: image too small", o.width, o.height)
	}
	return nil
}

func newContext(o *options) *gg.Context {
	dc := gg.NewContext(o.width, o.height)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colornames.White)
	dc.Clear()
	return dc
}

// validateGeoGrid checks that g has at least two rows and columns and that
// its arrays have the same shape.
func validateGeoGrid(g *dem.GeoGrid) error {
	rows, cols := g.Rows(), g.Cols()
	if rows < 2 || cols < 2 {
		return fmt.Errorf("%dx%d: need at least 2x2 nodes", cols, rows)
	}
	if len(g.Lat) != rows || len(g.Lon) != rows {
		return errors.New("inconsistent number of rows")
	}
	for j := range rows {
		if len(g.Lat[j]) != cols || len(g.Lon[j]) != cols || len(g.Elevation[j]) != cols {
			return fmt.Errorf("row %d: inconsistent number of columns", j)
		}
	}
	return nil
}

// extent returns the minimum and maximum of rows.
func extent(rows [][]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		lo = math.Min(lo, floats.Min(row))
		hi = math.Max(hi, floats.Max(row))
	}
	return lo, hi
}

// normalize maps v from [lo, hi] to [0, 1].
func normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

func fillPolygon(dc *gg.Context, xs, ys []float64) {
	dc.MoveTo(xs[0], ys[0])
	for k := 1; k < len(xs); k++ {
		dc.LineTo(xs[k], ys[k])
	}
	dc.ClosePath()
	// Stroking with the fill color hides seams between adjacent polygons.
	dc.FillPreserve()
	dc.SetLineWidth(1)
	dc.Stroke()
}

func drawVerticalString(dc *gg.Context, s string, x, y float64) {
	dc.Push()
	dc.RotateAbout(-math.Pi/2, x, y)
	dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
	dc.Pop()
}
