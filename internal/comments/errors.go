package comments

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound        = errors.New("comment not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrForbidden       = errors.New("only the author or staff may delete this comment")
	ErrInvalidComment  = errors.New("content is required")
	ErrInvalidParent   = errors.New("parent comment must belong to the same review")
	ErrInvalidID       = errors.New("invalid id")
	ErrUnauthenticated = errors.New("authentication required")
)

// MapHTTPStatus maps comment errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidComment),
		errors.Is(err, ErrInvalidParent),
		errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
