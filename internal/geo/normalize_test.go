package geo

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

const forestPlot = `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":["88.3","22.5"]},"properties":{}}]}`

func TestNormalizePointCoercesNumericStrings(t *testing.T) {
	geometries, err := Normalize(forestPlot)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(geometries) != 1 {
		t.Fatalf("Expected 1 geometry, got %d", len(geometries))
	}

	loc := geometries[0].Location()
	if loc.Type != "Point" {
		t.Errorf("Expected Point, got %s", loc.Type)
	}

	coords, ok := loc.Coordinates.([]float64)
	if !ok {
		t.Fatalf("Expected []float64 coordinates, got %T", loc.Coordinates)
	}
	if !reflect.DeepEqual(coords, []float64{88.3, 22.5}) {
		t.Errorf("Expected [88.3 22.5], got %v", coords)
	}
}

func TestNormalizePointVariants(t *testing.T) {
	testCases := []struct {
		name     string
		coords   string
		expected []float64
	}{
		{"numbers", `[10.5, -20.25]`, []float64{10.5, -20.25}},
		{"strings", `["10.5", "-20.25"]`, []float64{10.5, -20.25}},
		{"mixed", `[10, "20"]`, []float64{10, 20}},
		{"padded strings", `[" 1.5 ", "2.5 "]`, []float64{1.5, 2.5}},
		{"altitude dropped", `[1, 2, 300]`, []float64{1, 2}},
		{"exponent", `["1e1", 2e0]`, []float64{10, 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := `{"features":[{"geometry":{"type":"Point","coordinates":` + tc.coords + `}}]}`
			geometries, err := Normalize(input)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			got := geometries[0].Location().Coordinates
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestNormalizeInvalidCoordinates(t *testing.T) {
	testCases := []struct {
		name   string
		coords string
	}{
		{"letters", `["abc", "22.5"]`},
		{"latitude letters", `[88.3, "abc"]`},
		{"empty string", `["", 1]`},
		{"boolean", `[true, 1]`},
		{"null component", `[null, 1]`},
		{"nested array", `[[1], 1]`},
		{"NaN string", `["NaN", 1]`},
		{"infinity string", `["Inf", 1]`},
		{"overflow", `[1e400, 1]`},
		{"hex float", `["0x1p-2", 1]`},
		{"negative hex", `[1, "-0X10"]`},
		{"underscore digits", `["1_000", 1]`},
		{"single value", `[1]`},
		{"not an array", `"1,2"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := `{"features":[{"geometry":{"type":"Point","coordinates":[0,0]}},{"geometry":{"type":"Point","coordinates":` + tc.coords + `}}]}`
			_, err := Normalize(input)

			var geoErr *Error
			if !errors.As(err, &geoErr) {
				t.Fatalf("Expected *Error, got %v", err)
			}
			if geoErr.Kind != ErrInvalidCoordinates {
				t.Errorf("Expected %s, got %s", ErrInvalidCoordinates, geoErr.Kind)
			}
			if geoErr.Feature != 1 {
				t.Errorf("Expected offending feature 1, got %d", geoErr.Feature)
			}
		})
	}
}

func TestNormalizeInvalidGeoJSON(t *testing.T) {
	testCases := []struct {
		name    string
		input   any
		feature int
	}{
		{"nil", nil, -1},
		{"empty string", "   ", -1},
		{"malformed", `{"features": [`, -1},
		{"array root", `[1,2]`, -1},
		{"missing features", `{"type":"FeatureCollection"}`, -1},
		{"features not array", `{"type":"FeatureCollection","features":{}}`, -1},
		{"feature not object", `{"features":[1]}`, 0},
		{"missing geometry", `{"features":[{"type":"Feature"}]}`, 0},
		{"missing type", `{"features":[{"geometry":{"coordinates":[1,2]}}]}`, 0},
		{"numeric type", `{"features":[{"geometry":{"type":7,"coordinates":[1,2]}}]}`, 0},
		{"missing coordinates", `{"features":[{"geometry":{"type":"Point"}},{"geometry":{"type":"LineString"}}]}`, 0},
		{"null coordinates", `{"features":[{"geometry":{"type":"Point","coordinates":[1,2]}},{"geometry":{"type":"Polygon","coordinates":null}}]}`, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.input)

			var geoErr *Error
			if !errors.As(err, &geoErr) {
				t.Fatalf("Expected *Error, got %v", err)
			}
			if geoErr.Kind != ErrInvalidGeoJSON {
				t.Errorf("Expected %s, got %s", ErrInvalidGeoJSON, geoErr.Kind)
			}
			if geoErr.Feature != tc.feature {
				t.Errorf("Expected feature %d, got %d", tc.feature, geoErr.Feature)
			}
		})
	}
}

func TestNormalizeMissingFeaturesMessage(t *testing.T) {
	_, err := Normalize(`{"type":"FeatureCollection"}`)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if err.Error() != "Invalid GeoJSON: must have 'features' array" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}

func TestNormalizePolygonPassThrough(t *testing.T) {
	input := `{"features":[{"geometry":{"type":"Polygon","coordinates":[[[88.1,22.1],[88.2,22.1],[88.2,22.2],[88.1,22.1]]]}}]}`

	geometries, err := Normalize(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := []any{
		[]any{
			[]any{88.1, 22.1},
			[]any{88.2, 22.1},
			[]any{88.2, 22.2},
			[]any{88.1, 22.1},
		},
	}

	loc := geometries[0].Location()
	if loc.Type != "Polygon" {
		t.Errorf("Expected Polygon, got %s", loc.Type)
	}
	if !reflect.DeepEqual(loc.Coordinates, expected) {
		t.Errorf("Expected %v, got %v", expected, loc.Coordinates)
	}
}

func TestNormalizeLineStringIsNotCoerced(t *testing.T) {
	input := `{"features":[{"geometry":{"type":"LineString","coordinates":[["1","2"],["3","4"]]}}]}`

	geometries, err := Normalize(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := []any{[]any{"1", "2"}, []any{"3", "4"}}
	if !reflect.DeepEqual(geometries[0].Coordinates, expected) {
		t.Errorf("Expected strings to be kept, got %v", geometries[0].Coordinates)
	}
}

func TestNormalizeUnknownTypeIsLabelled(t *testing.T) {
	input := `{"features":[{"geometry":{"type":"MultiPoint","coordinates":[[1,2],[3,4]]}}]}`

	geometries, err := Normalize(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	g := geometries[0]
	if g.Kind != KindUnknown {
		t.Errorf("Expected KindUnknown, got %s", g.Kind)
	}
	if g.Known() {
		t.Error("Expected Known() to be false")
	}
	if g.Type != "MultiPoint" {
		t.Errorf("Expected raw type MultiPoint, got %s", g.Type)
	}
	if !reflect.DeepEqual(g.Coordinates, []any{[]any{1.0, 2.0}, []any{3.0, 4.0}}) {
		t.Errorf("Unexpected coordinates %v", g.Coordinates)
	}
}

func TestNormalizePreservesFeatureOrder(t *testing.T) {
	input := `{"features":[
		{"geometry":{"type":"Point","coordinates":[1,1]}},
		{"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}},
		{"geometry":{"type":"Point","coordinates":[2,2]}},
		{"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}
	]}`

	geometries, err := Normalize(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := []Kind{KindPoint, KindLineString, KindPoint, KindPolygon}
	if len(geometries) != len(expected) {
		t.Fatalf("Expected %d geometries, got %d", len(expected), len(geometries))
	}
	for i, kind := range expected {
		if geometries[i].Kind != kind {
			t.Errorf("Geometry %d: expected %s, got %s", i, kind, geometries[i].Kind)
		}
	}
	if geometries[2].Point.Lon() != 2 {
		t.Errorf("Expected third geometry at lng 2, got %v", geometries[2].Point)
	}
}

func TestNormalizeEmptyFeatureCollection(t *testing.T) {
	geometries, err := Normalize(`{"type":"FeatureCollection","features":[]}`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(geometries) != 0 {
		t.Errorf("Expected no geometries, got %d", len(geometries))
	}
}

func TestNormalizeDecodedInput(t *testing.T) {
	input := map[string]any{
		"type": "FeatureCollection",
		"features": []any{
			map[string]any{
				"type":     "Feature",
				"geometry": map[string]any{"type": "Point", "coordinates": []any{"88.3", 22.5}},
			},
		},
	}

	geometries, err := Normalize(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(geometries[0].Location().Coordinates, []float64{88.3, 22.5}) {
		t.Errorf("Unexpected coordinates %v", geometries[0].Location().Coordinates)
	}

	if _, err := Normalize([]byte(forestPlot)); err != nil {
		t.Errorf("Expected []byte input to be accepted, got %v", err)
	}
}

func TestNormalizeDecodedInputNonFinite(t *testing.T) {
	testCases := []struct {
		name   string
		coords any
	}{
		{"NaN longitude", []any{math.NaN(), 1.0}},
		{"infinite latitude", []any{1.0, math.Inf(1)}},
		{"float slice", []float64{math.Inf(-1), 1}},
		{"nested line", []any{[]any{0.0, 0.0}, []any{math.NaN(), 1.0}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := map[string]any{
				"features": []any{
					map[string]any{"geometry": map[string]any{"type": "Point", "coordinates": []any{1.0, 2.0}}},
					map[string]any{"geometry": map[string]any{"type": "Point", "coordinates": tc.coords}},
				},
			}

			_, err := Normalize(input)

			var geoErr *Error
			if !errors.As(err, &geoErr) {
				t.Fatalf("Expected *Error, got %v", err)
			}
			if geoErr.Kind != ErrInvalidCoordinates {
				t.Errorf("Expected %s, got %s (%v)", ErrInvalidCoordinates, geoErr.Kind, err)
			}
			if geoErr.Feature != 1 {
				t.Errorf("Expected offending feature 1, got %d", geoErr.Feature)
			}
		})
	}
}
