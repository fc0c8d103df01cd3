// Package geo turns GeoJSON feature collections into validated geometries.
//
// Point coordinates are coerced to a numeric [lng, lat] pair. LineString and
// Polygon coordinates are passed through exactly as received. Any other
// geometry type is returned as KindUnknown so callers decide what to do with it.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"geopost-service/internal/models"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/tidwall/gjson"
)

type Kind string

const (
	KindPoint      Kind = "Point"
	KindLineString Kind = "LineString"
	KindPolygon    Kind = "Polygon"
	KindUnknown    Kind = "Unknown"
)

// Geometry is one normalized feature geometry
type Geometry struct {
	Kind        Kind
	Type        string    // geometry.type as received
	Point       orb.Point // [lng, lat], KindPoint only
	Coordinates any       // geometry.coordinates as received, every other kind
}

// Known reports whether the geometry can be stored as a models.Location
func (g Geometry) Known() bool {
	return g.Kind != KindUnknown
}

// Location converts a known geometry to its stored form
func (g Geometry) Location() models.Location {
	if g.Kind == KindPoint {
		return models.Location{
			Type:        models.GeometryPoint,
			Coordinates: []float64{g.Point.Lon(), g.Point.Lat()},
		}
	}
	return models.Location{
		Type:        models.GeometryKind(g.Kind),
		Coordinates: g.Coordinates,
	}
}

// Normalize parses a FeatureCollection and returns one Geometry per feature,
// in feature order. input may be JSON text (string, []byte, json.RawMessage)
// or an already decoded value such as map[string]any.
func Normalize(input any) ([]Geometry, error) {
	raw, err := toJSON(input)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(raw) {
		return nil, invalidGeoJSON(-1, "malformed JSON")
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, invalidGeoJSON(-1, "must be a JSON object")
	}

	features := doc.Get("features")
	if !features.IsArray() {
		return nil, invalidGeoJSON(-1, "must have 'features' array")
	}

	items := features.Array()
	geometries := make([]Geometry, 0, len(items))
	for i, feature := range items {
		g, err := normalizeFeature(i, feature)
		if err != nil {
			return nil, err
		}
		geometries = append(geometries, g)
	}

	return geometries, nil
}

func toJSON(input any) ([]byte, error) {
	switch v := input.(type) {
	case nil:
		return nil, invalidGeoJSON(-1, "geojson is required")
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, invalidGeoJSON(-1, "geojson is required")
		}
		return []byte(v), nil
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			var unsupported *json.UnsupportedValueError
			if errors.As(err, &unsupported) {
				if index, ok := nonFiniteFeature(v); ok {
					return nil, invalidCoordinates(index, fmt.Sprintf("coordinate %s is not a finite number", unsupported.Str))
				}
			}
			return nil, invalidGeoJSON(-1, fmt.Sprintf("cannot encode value: %v", err))
		}
		return raw, nil
	}
}

// nonFiniteFeature finds the first feature of a decoded collection whose
// coordinates hold NaN or an infinity. JSON text cannot carry those values,
// so only decoded input reaches here.
func nonFiniteFeature(input any) (int, bool) {
	collection, ok := input.(map[string]any)
	if !ok {
		return 0, false
	}
	features, ok := collection["features"].([]any)
	if !ok {
		return 0, false
	}

	for i, feature := range features {
		f, ok := feature.(map[string]any)
		if !ok {
			continue
		}
		geometry, ok := f["geometry"].(map[string]any)
		if !ok {
			continue
		}
		if hasNonFinite(geometry["coordinates"]) {
			return i, true
		}
	}
	return 0, false
}

func hasNonFinite(value any) bool {
	switch v := value.(type) {
	case float64:
		return math.IsNaN(v) || math.IsInf(v, 0)
	case float32:
		return hasNonFinite(float64(v))
	case []float64:
		for _, n := range v {
			if hasNonFinite(n) {
				return true
			}
		}
	case []any:
		for _, item := range v {
			if hasNonFinite(item) {
				return true
			}
		}
	}
	return false
}

func normalizeFeature(index int, feature gjson.Result) (Geometry, error) {
	if !feature.IsObject() {
		return Geometry{}, invalidGeoJSON(index, "feature is not an object")
	}

	geometry := feature.Get("geometry")
	if !geometry.IsObject() {
		return Geometry{}, invalidGeoJSON(index, "feature has no geometry")
	}

	typ := geometry.Get("type")
	if typ.Type != gjson.String || typ.Str == "" {
		return Geometry{}, invalidGeoJSON(index, "geometry has no type")
	}

	coordinates := geometry.Get("coordinates")
	if !coordinates.Exists() || coordinates.Type == gjson.Null {
		return Geometry{}, invalidGeoJSON(index, "geometry has no coordinates")
	}

	switch Kind(typ.Str) {
	case KindPoint:
		point, err := coercePoint(index, coordinates)
		if err != nil {
			return Geometry{}, err
		}
		return Geometry{Kind: KindPoint, Type: typ.Str, Point: point}, nil
	case KindLineString, KindPolygon:
		return Geometry{Kind: Kind(typ.Str), Type: typ.Str, Coordinates: coordinates.Value()}, nil
	default:
		return Geometry{Kind: KindUnknown, Type: typ.Str, Coordinates: coordinates.Value()}, nil
	}
}

func coercePoint(index int, coordinates gjson.Result) (orb.Point, error) {
	if !coordinates.IsArray() {
		return orb.Point{}, invalidCoordinates(index, "Point coordinates must be an array")
	}

	values := coordinates.Array()
	if len(values) < 2 {
		return orb.Point{}, invalidCoordinates(index, "Point needs longitude and latitude")
	}

	lng, ok := coerceNumber(values[0])
	if !ok {
		return orb.Point{}, invalidCoordinates(index, fmt.Sprintf("longitude %s is not a number", values[0].Raw))
	}
	lat, ok := coerceNumber(values[1])
	if !ok {
		return orb.Point{}, invalidCoordinates(index, fmt.Sprintf("latitude %s is not a number", values[1].Raw))
	}

	return orb.Point{lng, lat}, nil
}

// coerceNumber accepts JSON numbers and decimal strings with a finite value.
// Hex floats and underscore separators are refused even though ParseFloat
// understands them.
func coerceNumber(value gjson.Result) (float64, bool) {
	var n float64
	switch value.Type {
	case gjson.Number:
		n = value.Num
	case gjson.String:
		s := strings.TrimSpace(value.Str)
		if s == "" || strings.Contains(s, "_") || isHexPrefixed(s) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func isHexPrefixed(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
