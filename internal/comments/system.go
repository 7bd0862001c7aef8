// Package comments manages classified comment threads on reviews.
package comments

import (
	"context"

	"github.com/JaimeStill/vouch/pkg/auth"
)

// System defines comment operations.
type System interface {
	Handler() *Handler

	// Create classifies and stores a comment on reviewID.
	Create(ctx context.Context, actor *auth.Actor, reviewID int64, cmd CreateCommand) (*Comment, error)

	// Thread returns the review's top-level comments with their nested replies.
	Thread(ctx context.Context, reviewID int64) ([]*Comment, error)

	Delete(ctx context.Context, actor *auth.Actor, id int64) error
}
