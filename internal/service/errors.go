package service

import (
	"errors"
	"fmt"
	"geopost-service/internal/geo"
	"net/http"
)

type Kind string

const (
	KindInvalidGeoJSON       Kind = "InvalidGeoJSON"
	KindInvalidCoordinates   Kind = "InvalidCoordinates"
	KindMissingRequiredField Kind = "MissingRequiredField"
	KindNoFilesProvided      Kind = "NoFilesProvided"
	KindTooManyFiles         Kind = "TooManyFiles"
	KindUnsupportedGeometry  Kind = "UnsupportedGeometry"
	KindStorageError         Kind = "StorageError"
	KindPersistenceError     Kind = "PersistenceError"
)

// Status returns the HTTP status code a request failing with this kind answers with
func (k Kind) Status() int {
	switch k {
	case KindInvalidGeoJSON, KindInvalidCoordinates, KindMissingRequiredField,
		KindNoFilesProvided, KindTooManyFiles, KindUnsupportedGeometry:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is an ingestion failure. Message is safe to show to clients; Err holds
// the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func missingField(name string) *Error {
	return newError(KindMissingRequiredField, fmt.Sprintf("%s is required", name), nil)
}

// fromGeoError maps a normalizer failure onto the service taxonomy
func fromGeoError(err error) *Error {
	var geoErr *geo.Error
	if !errors.As(err, &geoErr) {
		return newError(KindInvalidGeoJSON, "Invalid GeoJSON", err)
	}

	kind := KindInvalidGeoJSON
	if geoErr.Kind == geo.ErrInvalidCoordinates {
		kind = KindInvalidCoordinates
	}
	return newError(kind, geoErr.Error(), nil)
}

// ErrorKind returns the Kind carried by err; ok is false for any error that is
// not an *Error
func ErrorKind(err error) (Kind, bool) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind, true
	}
	return "", false
}
