package visits

import (
	"errors"
	"net/http"
)

var (
	ErrMissingID       = errors.New("id query parameter is required")
	ErrInvalidInterval = errors.New("interval must be an integer between 1 and 90")
	ErrUnknownKind     = errors.New("unknown visit kind")
	ErrNotFound        = errors.New("visited entity not found")
)

// MapHTTPStatus maps visit ledger errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrMissingID) || errors.Is(err, ErrInvalidInterval) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
