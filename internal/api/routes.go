package api

import (
	"net/http"

	"github.com/JaimeStill/vouch/internal/config"
	"github.com/JaimeStill/vouch/internal/ratings"
	"github.com/JaimeStill/vouch/internal/visits"
	"github.com/JaimeStill/vouch/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	voteGuard := runtime.Limiter.Limit(cfg.API.VotesPerMinute(), ratings.VoterKey)

	routes.Register(
		mux,
		domain.Reviews.Handler(domain.Visits.Recorder(visits.KindReview)).Routes(),
		domain.Ratings.Handler(voteGuard).Routes(),
		domain.Visits.Handler().Routes(),
		domain.Comments.Handler().Routes(),
		domain.Providers.Handler(
			domain.Visits.Recorder(visits.KindProvider),
			domain.Visits.Recorder(visits.KindService),
		).Routes(),
		domain.Taxonomy.Handler().Routes(),
	)
}
