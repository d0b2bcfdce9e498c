package plot

import (
	"image"
	"math"
	"slices"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"

	"github.com/geodem/go-dem"
)

// zScale is the height of the surface relative to its half-width.
const zScale = 0.6

// A projector is an orthographic camera looking at the origin.
type projector struct {
	cosAzimuth, sinAzimuth     float64
	cosElevation, sinElevation float64
}

func newProjector(azimuth, elevation float64) projector {
	a, e := gg.Radians(azimuth), gg.Radians(elevation)
	return projector{
		cosAzimuth:   math.Cos(a),
		sinAzimuth:   math.Sin(a),
		cosElevation: math.Cos(e),
		sinElevation: math.Sin(e),
	}
}

// project returns the screen coordinates of (x, y, z), with sy increasing
// upward, and its depth, increasing away from the camera.
func (p projector) project(x, y, z float64) (sx, sy, depth float64) {
	xr := x*p.cosAzimuth - y*p.sinAzimuth
	yr := x*p.sinAzimuth + y*p.cosAzimuth
	return xr, yr*p.sinElevation + z*p.cosElevation, yr*p.cosElevation - z*p.sinElevation
}

type quad struct {
	xs, ys [4]float64
	depth  float64
	z      float64
}

// Surface3D renders g as a 3D surface seen from the options' view.
func Surface3D(g *dem.GeoGrid, opts ...Option) (image.Image, error) {
	o := newOptions(1200, 800, opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	if err := validateGeoGrid(g); err != nil {
		return nil, err
	}

	lonMin, lonMax := extent(g.Lon)
	latMin, latMax := extent(g.Lat)
	zMin, zMax := extent(g.Elevation)
	colorMap := Terrain(o.colorRange[0], o.colorRange[1])
	p := newProjector(o.azimuth, o.elevation)

	rows, cols := g.Rows(), g.Cols()
	sxs := make([]float64, rows*cols)
	sys := make([]float64, rows*cols)
	depths := make([]float64, rows*cols)
	for j := range rows {
		for i := range cols {
			x := 2*normalize(g.Lon[j][i], lonMin, lonMax) - 1
			y := 2*normalize(g.Lat[j][i], latMin, latMax) - 1
			z := zScale * normalize(g.Elevation[j][i], zMin, zMax)
			sxs[j*cols+i], sys[j*cols+i], depths[j*cols+i] = p.project(x, y, z)
		}
	}

	// The base of the bounding box, used for the axes.
	var baseX, baseY [4]float64
	for k, corner := range [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		baseX[k], baseY[k], _ = p.project(corner[0], corner[1], 0)
	}
	topX, topY, _ := p.project(-1, -1, zScale)

	sxMin := math.Min(slices.Min(sxs), slices.Min(baseX[:]))
	sxMax := math.Max(slices.Max(sxs), slices.Max(baseX[:]))
	syMin := math.Min(slices.Min(sys), slices.Min(baseY[:]))
	syMax := math.Max(math.Max(slices.Max(sys), slices.Max(baseY[:])), topY)

	const margin = 60
	width, height := float64(o.width-2*margin), float64(o.height-2*margin)
	scale := math.Min(width/math.Max(sxMax-sxMin, 1e-9), height/math.Max(syMax-syMin, 1e-9))
	offsetX := margin + (width-scale*(sxMax-sxMin))/2
	offsetY := margin + (height-scale*(syMax-syMin))/2
	toScreen := func(sx, sy float64) (float64, float64) {
		return offsetX + scale*(sx-sxMin), offsetY + scale*(syMax-sy)
	}

	quads := make([]quad, 0, (rows-1)*(cols-1))
	for j := range rows - 1 {
		for i := range cols - 1 {
			var q quad
			for k, node := range [4]int{j*cols + i, j*cols + i + 1, (j+1)*cols + i + 1, (j+1)*cols + i} {
				q.xs[k], q.ys[k] = toScreen(sxs[node], sys[node])
				q.depth += depths[node] / 4
			}
			q.z = (g.Elevation[j][i] + g.Elevation[j][i+1] + g.Elevation[j+1][i] + g.Elevation[j+1][i+1]) / 4
			quads = append(quads, q)
		}
	}
	// Painter's algorithm: farthest first.
	slices.SortStableFunc(quads, func(a, b quad) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		default:
			return 0
		}
	})

	dc := newContext(o)

	dc.SetColor(colornames.Gray)
	dc.SetLineWidth(1)
	for k := range 4 {
		x0, y0 := toScreen(baseX[k], baseY[k])
		x1, y1 := toScreen(baseX[(k+1)%4], baseY[(k+1)%4])
		dc.DrawLine(x0, y0, x1, y1)
	}
	bx, by := toScreen(baseX[0], baseY[0])
	tx, ty := toScreen(topX, topY)
	dc.DrawLine(bx, by, tx, ty)
	dc.Stroke()

	for _, q := range quads {
		dc.SetColor(colorMap(normalize(q.z, zMin, zMax)))
		fillPolygon(dc, q.xs[:], q.ys[:])
	}

	dc.SetColor(colornames.Black)
	dc.DrawStringAnchored(o.title, float64(o.width)/2, margin/2, 0.5, 0.5)
	lonX, lonY := toScreen((baseX[0]+baseX[1])/2, (baseY[0]+baseY[1])/2)
	dc.DrawStringAnchored("Lon [deg E]", lonX, lonY+14, 0.5, 0.5)
	latX, latY := toScreen((baseX[1]+baseX[2])/2, (baseY[1]+baseY[2])/2)
	dc.DrawStringAnchored("Lat [deg N]", latX+14, latY+14, 0, 0.5)
	dc.DrawStringAnchored("Elevation (m)", tx-8, ty, 1, 0.5)

	return dc.Image(), nil
}
