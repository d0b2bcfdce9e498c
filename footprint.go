package dem

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Footprint returns d's tile, area of interest, and window as GeoJSON
// polygons in geographic coordinates. Each feature has a kind property of
// "tile", "area", or "window".
func (d *DEM) Footprint() (*geojson.FeatureCollection, error) {
	featureCollection := geojson.NewFeatureCollection()
	for _, footprint := range []struct {
		kind  string
		bound orb.Bound
	}{
		{kind: "tile", bound: d.tile.Header.Bounds()},
		{kind: "area", bound: d.area.Bound()},
		{kind: "window", bound: d.window.Bounds()},
	} {
		ring, err := d.geographicRing(footprint.bound)
		if err != nil {
			return nil, err
		}
		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.Properties["kind"] = footprint.kind
		feature.Properties["name"] = d.tile.Name
		featureCollection.Append(feature)
	}
	return featureCollection, nil
}

// geographicRing returns the corners of bound as a closed longitude, latitude
// ring.
func (d *DEM) geographicRing(bound orb.Bound) (orb.Ring, error) {
	ring := bound.ToRing()
	coords := make([][]float64, len(ring))
	for i, point := range ring {
		coords[i] = []float64{point.X(), point.Y()}
	}
	if err := transform(d.toGeographic, coords); err != nil {
		return nil, err
	}
	geographicRing := make(orb.Ring, len(coords))
	for i, coord := range coords {
		geographicRing[i] = orb.Point{coord[1], coord[0]}
	}
	return geographicRing, nil
}
