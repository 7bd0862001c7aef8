package taxonomy

import (
	"errors"
	"net/http"
)

var (
	ErrDuplicate         = errors.New("term already exists")
	ErrInvalidName       = errors.New("name is required and must be at most 100 characters")
	ErrUnknownVocabulary = errors.New("unknown vocabulary")
)

// MapHTTPStatus maps taxonomy errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidName) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
