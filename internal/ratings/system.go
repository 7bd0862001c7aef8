// Package ratings is the one-vote-per-user rating ledger for reviews.
package ratings

import (
	"context"
	"net/http"
)

// Vote is the outcome of an accepted vote.
type Vote struct {
	ReviewID int64 `json:"review_id"`
	Rating   int   `json:"rating"`
}

// System defines rating ledger operations.
type System interface {
	Handler(voteGuard func(http.Handler) http.Handler) *Handler

	// Vote applies direction to the review's rating and logs the vote in one
	// transaction. A second vote by the same user fails with ErrAlreadyVoted.
	Vote(ctx context.Context, reviewID, userID int64, direction Direction) (*Vote, error)

	HasVoted(ctx context.Context, reviewID, userID int64) (bool, error)
}
