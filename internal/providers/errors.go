package providers

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound        = errors.New("provider not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrForbidden       = errors.New("providers cannot be deleted")
	ErrInvalidID       = errors.New("invalid id")
)

// MapHTTPStatus maps provider errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrServiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
