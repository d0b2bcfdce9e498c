package dem

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// An AreaOfInterest is an axis-aligned square in native coordinates.
type AreaOfInterest struct {
	Center  orb.Point
	Radius  float64
	Polygon orb.Polygon
}

// NewAreaOfInterest returns the square with half-width radius centered on
// center.
func NewAreaOfInterest(center orb.Point, radius float64) (AreaOfInterest, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return AreaOfInterest{}, fmt.Errorf("radius %g must be positive", radius)
	}
	if math.IsNaN(center.X()) || math.IsNaN(center.Y()) {
		return AreaOfInterest{}, fmt.Errorf("%w: invalid center %v", ErrTransform, center)
	}
	minX, minY := center.X()-radius, center.Y()-radius
	maxX, maxY := center.X()+radius, center.Y()+radius
	return AreaOfInterest{
		Center: center,
		Radius: radius,
		Polygon: orb.Polygon{
			orb.Ring{
				{minX, minY},
				{maxX, minY},
				{maxX, maxY},
				{minX, maxY},
				{minX, minY},
			},
		},
	}, nil
}

// Bound returns a's bounding box.
func (a AreaOfInterest) Bound() orb.Bound {
	return a.Polygon.Bound()
}

// Intersects returns whether a overlaps the tile described by header. Tiles
// that only share an edge or a corner with a intersect it.
func (a AreaOfInterest) Intersects(header Header) bool {
	return a.Bound().Intersects(header.Bounds())
}

// Within returns whether a lies entirely inside the nodes of the tile
// described by header, so that the tile can answer queries everywhere in a.
// This is stricter than the tile's rectangle, which extends one cell beyond
// the last nodes.
func (a AreaOfInterest) Within(header Header) bool {
	bound, gridBound := a.Bound(), header.GridBounds()
	return gridBound.Contains(bound.Min) && gridBound.Contains(bound.Max)
}
