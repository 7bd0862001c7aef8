package reviews

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrForbidden       = errors.New("only the author or staff may modify this review")
	ErrInvalidReview   = errors.New("title (at most 255 characters) and description are required")
	ErrUnknownTerm     = errors.New("unknown category or tag")
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidID       = errors.New("invalid review id")
)

// MapHTTPStatus maps review errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidReview),
		errors.Is(err, ErrUnknownTerm),
		errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
