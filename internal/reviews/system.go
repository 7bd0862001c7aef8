// Package reviews implements review submission with classification-gated
// auto-confirmation and the email token confirmation flow.
package reviews

import (
	"context"
	"net/http"

	"github.com/JaimeStill/vouch/internal/classifier"
	"github.com/JaimeStill/vouch/pkg/auth"
	"github.com/JaimeStill/vouch/pkg/pagination"
)

// System defines review operations.
type System interface {
	// Handler returns the HTTP handler. viewRecorder, when non-nil, wraps the
	// detail route to record visits.
	Handler(viewRecorder func(http.Handler) http.Handler) *Handler

	// Submit classifies and stores a review owned by actor, then issues a
	// validation token and sends the author a confirmation message.
	Submit(ctx context.Context, actor *auth.Actor, cmd SubmitCommand) (*Review, error)

	// Check classifies text without storing anything.
	Check(ctx context.Context, title, text string) classifier.Result

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Review], error)
	Find(ctx context.Context, id int64) (*Review, error)
	Update(ctx context.Context, actor *auth.Actor, id int64, cmd UpdateCommand) (*Review, error)
	Delete(ctx context.Context, actor *auth.Actor, id int64) error

	// ConfirmEmailToken consumes token, confirms the user owning email, and
	// publishes the review. All three changes apply together or not at all.
	ConfirmEmailToken(ctx context.Context, email, token string, reviewID int64) error
}
