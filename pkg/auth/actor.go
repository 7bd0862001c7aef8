// Package auth extracts the authenticated Actor from HS256 bearer tokens.
// Token issuance belongs to the account service; this package only verifies.
package auth

import "context"

// Actor is the authenticated caller of a request.
type Actor struct {
	ID         int64  `json:"id"`
	Staff      bool   `json:"staff"`
	ProviderID *int64 `json:"provider_id,omitempty"`
}

// CanModify reports whether the actor may change a resource owned by ownerID.
func (a *Actor) CanModify(ownerID int64) bool {
	if a == nil {
		return false
	}
	return a.Staff || a.ID == ownerID
}

type (
	actorKey struct{}
	slotKey  struct{}
)

// WithActor returns a context carrying actor. If an outer middleware called
// TrackActor on ctx, actor is also written to its slot.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	if slot, ok := ctx.Value(slotKey{}).(**Actor); ok && slot != nil {
		*slot = actor
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// TrackActor returns a context through which an inner WithActor reports the
// resolved actor to *slot. Access logging uses it to see actors resolved
// further down the chain.
func TrackActor(ctx context.Context, slot **Actor) context.Context {
	return context.WithValue(ctx, slotKey{}, slot)
}

// FromContext returns the actor stored in ctx, or nil for anonymous requests.
func FromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorKey{}).(*Actor)
	return actor
}
