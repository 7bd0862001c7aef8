package ratings

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound         = errors.New("review not found")
	ErrAlreadyVoted     = errors.New("user has already voted on this review")
	ErrInvalidDirection = errors.New("direction must be \"up\" or \"down\"")
	ErrInvalidID        = errors.New("invalid review id")
)

// MapHTTPStatus maps rating errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrAlreadyVoted) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrInvalidDirection) || errors.Is(err, ErrInvalidID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
