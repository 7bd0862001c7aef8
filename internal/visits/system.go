// Package visits keeps the per-entity daily visit ledgers behind the stat endpoints.
package visits

import (
	"context"
	"net/http"
)

const (
	DefaultWindow = 3
	MaxWindow     = 90
)

// ValidateWindow reports ErrInvalidInterval unless windowDays is within 1..MaxWindow.
func ValidateWindow(windowDays int) error {
	if windowDays < 1 || windowDays > MaxWindow {
		return ErrInvalidInterval
	}
	return nil
}

// Stats maps ISO dates (2006-01-02) to visit counts.
type Stats map[string]int

// System defines the visit ledger operations.
type System interface {
	Handler() *Handler

	// Record appends a visit for the entity identified by rawID. A rawID that is
	// not a positive integer is dropped silently.
	Record(ctx context.Context, kind Kind, rawID, ip string) error

	// Stats counts visits per day for the windowDays days ending today.
	// The result always holds exactly one entry per day in the window. A window
	// outside 1..MaxWindow fails with ErrInvalidInterval.
	Stats(ctx context.Context, kind Kind, id int64, windowDays int) (Stats, error)

	// Recorder returns middleware recording a visit after each successful GET
	// on a route with an {id} path value.
	Recorder(kind Kind) func(http.Handler) http.Handler
}
