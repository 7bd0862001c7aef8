package api

import (
	"time"

	"github.com/JaimeStill/vouch/internal/comments"
	"github.com/JaimeStill/vouch/internal/providers"
	"github.com/JaimeStill/vouch/internal/ratings"
	"github.com/JaimeStill/vouch/internal/reviews"
	"github.com/JaimeStill/vouch/internal/taxonomy"
	"github.com/JaimeStill/vouch/internal/visits"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Reviews   reviews.System
	Ratings   ratings.System
	Visits    visits.System
	Comments  comments.System
	Providers providers.System
	Taxonomy  taxonomy.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	return &Domain{
		Reviews: reviews.New(
			db,
			runtime.Classifier,
			runtime.Notifier,
			runtime.Logger,
			runtime.Metrics,
			runtime.Pagination,
			runtime.ConfirmURL,
		),
		Ratings:   ratings.New(db, runtime.Logger, runtime.Metrics),
		Visits:    visits.New(db, runtime.Logger, runtime.Metrics, time.Now),
		Comments:  comments.New(db, runtime.Classifier, runtime.Logger),
		Providers: providers.New(db, runtime.Logger, runtime.Pagination),
		Taxonomy:  taxonomy.New(db, runtime.Logger),
	}
}
