package geo

import "fmt"

type ErrorKind string

const (
	ErrInvalidGeoJSON     ErrorKind = "InvalidGeoJSON"
	ErrInvalidCoordinates ErrorKind = "InvalidCoordinates"
)

// Error describes why a feature collection was rejected. Feature is the
// zero-based index of the offending feature, or -1 for the collection itself.
type Error struct {
	Kind    ErrorKind
	Feature int
	Message string
}

func (e *Error) Error() string {
	prefix := "Invalid GeoJSON"
	if e.Kind == ErrInvalidCoordinates {
		prefix = "Invalid coordinates"
	}
	if e.Feature < 0 {
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	}
	return fmt.Sprintf("%s: feature %d: %s", prefix, e.Feature, e.Message)
}

func invalidGeoJSON(feature int, message string) *Error {
	return &Error{Kind: ErrInvalidGeoJSON, Feature: feature, Message: message}
}

func invalidCoordinates(feature int, message string) *Error {
	return &Error{Kind: ErrInvalidCoordinates, Feature: feature, Message: message}
}
