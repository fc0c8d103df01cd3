package geo

import (
	"github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb"
)

const geohashPrecision = 9

// Bounds returns the bounding box of every numeric position in the known
// geometries. ok is false when there is none.
func Bounds(geometries []Geometry) (bound orb.Bound, ok bool) {
	var positions orb.MultiPoint
	for _, g := range geometries {
		switch g.Kind {
		case KindPoint:
			positions = append(positions, g.Point)
		case KindLineString, KindPolygon:
			positions = collectPositions(g.Coordinates, positions)
		}
	}

	if len(positions) == 0 {
		return orb.Bound{}, false
	}
	return positions.Bound(), true
}

// collectPositions walks pass-through coordinates and keeps every pair of
// float64 values; anything else is skipped.
func collectPositions(value any, positions orb.MultiPoint) orb.MultiPoint {
	values, ok := value.([]any)
	if !ok {
		return positions
	}

	if len(values) >= 2 {
		lng, lngOK := values[0].(float64)
		lat, latOK := values[1].(float64)
		if lngOK && latOK {
			return append(positions, orb.Point{lng, lat})
		}
	}

	for _, v := range values {
		positions = collectPositions(v, positions)
	}
	return positions
}

// BBox flattens a bound to the GeoJSON [minLng, minLat, maxLng, maxLat] order
func BBox(bound orb.Bound) []float64 {
	return []float64{bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat()}
}

// Geohash encodes the centre of bound
func Geohash(bound orb.Bound) string {
	center := bound.Center()
	return geohash.EncodeWithPrecision(center.Lat(), center.Lon(), geohashPrecision)
}
