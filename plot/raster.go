package plot

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"

	"github.com/geodem/go-dem"
)

const (
	marginLeft   = 90
	marginRight  = 130
	marginTop    = 40
	marginBottom = 60
	tickCount    = 5
)

// Raster2D renders g as a color-mapped longitude, latitude raster with a
// color bar.
func Raster2D(g *dem.GeoGrid, opts ...Option) (image.Image, error) {
	o := newOptions(1200, 1000, opts)
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

	dc := newContext(o)
	plotWidth := float64(o.width - marginLeft - marginRight)
	plotHeight := float64(o.height - marginTop - marginBottom)
	toScreen := func(lon, lat float64) (float64, float64) {
		return marginLeft + normalize(lon, lonMin, lonMax)*plotWidth,
			marginTop + (1-normalize(lat, latMin, latMax))*plotHeight
	}

	xs, ys := make([]float64, 4), make([]float64, 4)
	for j := range g.Rows() - 1 {
		for i := range g.Cols() - 1 {
			for k, node := range [4][2]int{{i, j}, {i + 1, j}, {i + 1, j + 1}, {i, j + 1}} {
				xs[k], ys[k] = toScreen(g.Lon[node[1]][node[0]], g.Lat[node[1]][node[0]])
			}
			z := (g.Elevation[j][i] + g.Elevation[j][i+1] + g.Elevation[j+1][i] + g.Elevation[j+1][i+1]) / 4
			dc.SetColor(colorMap(normalize(z, zMin, zMax)))
			fillPolygon(dc, xs, ys)
		}
	}

	// Frame and ticks.
	dc.SetColor(colornames.Black)
	dc.SetLineWidth(1)
	dc.DrawRectangle(marginLeft, marginTop, plotWidth, plotHeight)
	dc.Stroke()
	for k := range tickCount {
		f := float64(k) / (tickCount - 1)
		x := marginLeft + f*plotWidth
		y := marginTop + (1-f)*plotHeight
		dc.DrawLine(x, marginTop+plotHeight, x, marginTop+plotHeight+5)
		dc.DrawLine(marginLeft-5, y, marginLeft, y)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.4f", lonMin+f*(lonMax-lonMin)), x, marginTop+plotHeight+16, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%.4f", latMin+f*(latMax-latMin)), marginLeft-8, y, 1, 0.5)
	}

	dc.DrawStringAnchored(o.title, float64(o.width)/2, marginTop/2, 0.5, 0.5)
	dc.DrawStringAnchored("Lon [deg E]", marginLeft+plotWidth/2, float64(o.height)-marginBottom/3, 0.5, 0.5)
	drawVerticalString(dc, "Lat [deg N]", 20, marginTop+plotHeight/2)

	drawColorBar(dc, colorMap, zMin, zMax, float64(o.width-marginRight+30), marginTop, 20, plotHeight)
	return dc.Image(), nil
}

func drawColorBar(dc *gg.Context, colorMap ColorMap, zMin, zMax, x, y, width, height float64) {
	for k := 0; k < int(height); k++ {
		dc.SetColor(colorMap(1 - float64(k)/height))
		dc.DrawRectangle(x, y+float64(k), width, 1)
		dc.Fill()
	}
	dc.SetColor(colornames.Black)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x, y, width, height)
	dc.Stroke()
	for k := range tickCount {
		f := float64(k) / (tickCount - 1)
		ty := y + (1-f)*height
		dc.DrawLine(x+width, ty, x+width+4, ty)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", zMin+f*(zMax-zMin)), x+width+7, ty, 0, 0.5)
	}
	drawVerticalString(dc, "Elevation [m]", x+width+65, y+height/2)
}
