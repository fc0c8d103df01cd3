package geo

import (
	"reflect"
	"testing"
)

func TestBounds(t *testing.T) {
	input := `{"features":[
		{"geometry":{"type":"Point","coordinates":["88.3","22.5"]}},
		{"geometry":{"type":"LineString","coordinates":[[87.9,22.8],[88.6,21.9]]}},
		{"geometry":{"type":"Polygon","coordinates":[[["x","y"],[88.0,23.1],[88.1,23.0]]]}},
		{"geometry":{"type":"Circle","coordinates":[[120,60]]}}
	]}`

	geometries, err := Normalize(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	bound, ok := Bounds(geometries)
	if !ok {
		t.Fatal("Expected a bound")
	}

	expected := []float64{87.9, 21.9, 88.6, 23.1}
	if !reflect.DeepEqual(BBox(bound), expected) {
		t.Errorf("Expected bbox %v, got %v", expected, BBox(bound))
	}
}

func TestBoundsWithoutPositions(t *testing.T) {
	if _, ok := Bounds(nil); ok {
		t.Error("Expected no bound for no geometries")
	}

	geometries := []Geometry{{Kind: KindLineString, Coordinates: []any{[]any{"a", "b"}}}}
	if _, ok := Bounds(geometries); ok {
		t.Error("Expected no bound when no position is numeric")
	}
}

func TestGeohash(t *testing.T) {
	geometries := []Geometry{{Kind: KindPoint}}

	bound, ok := Bounds(geometries)
	if !ok {
		t.Fatal("Expected a bound")
	}

	if hash := Geohash(bound); hash != "s00000000" {
		t.Errorf("Expected s00000000, got %s", hash)
	}
}
