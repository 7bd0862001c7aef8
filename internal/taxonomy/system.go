// Package taxonomy manages the tags and categories reviews are filed under.
package taxonomy

import "context"

// System defines taxonomy operations.
type System interface {
	Handler() *Handler
	List(ctx context.Context, v Vocabulary) ([]Term, error)
	Create(ctx context.Context, v Vocabulary, cmd CreateCommand) (*Term, error)
}
