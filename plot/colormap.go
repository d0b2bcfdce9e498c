package plot

import (
	"image/color"
	"math"
)

// A ColorMap maps a value in [0, 1] to a color.
type ColorMap func(float64) color.RGBA

type colorStop struct {
	position float64
	r, g, b  float64
}

// terrainStops are the stops of matplotlib's terrain color map.
var terrainStops = []colorStop{
	{0.00, 0.2, 0.2, 0.6},
	{0.15, 0.0, 0.6, 1.0},
	{0.25, 0.0, 0.8, 0.4},
	{0.50, 1.0, 1.0, 0.6},
	{0.75, 0.5, 0.36, 0.33},
	{1.00, 1.0, 1.0, 1.0},
}

// Terrain returns the part of the terrain color map between lo and hi,
// stretched over [0, 1].
func Terrain(lo, hi float64) ColorMap {
	return func(f float64) color.RGBA {
		return interpolateStops(terrainStops, lo+clamp01(f)*(hi-lo))
	}
}

func interpolateStops(stops []colorStop, f float64) color.RGBA {
	f = clamp01(f)
	for k := 1; k < len(stops); k++ {
		if f > stops[k].position {
			continue
		}
		s0, s1 := stops[k-1], stops[k]
		t := (f - s0.position) / (s1.position - s0.position)
		return color.RGBA{
			R: channel(s0.r + t*(s1.r-s0.r)),
			G: channel(s0.g + t*(s1.g-s0.g)),
			B: channel(s0.b + t*(s1.b-s0.b)),
			A: 0xff,
		}
	}
	last := stops[len(stops)-1]
	return color.RGBA{R: channel(last.r), G: channel(last.g), B: channel(last.b), A: 0xff}
}

func channel(f float64) uint8 {
	return uint8(math.Round(255 * clamp01(f)))
}

func clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
