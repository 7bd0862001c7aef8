package visits

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/vouch/pkg/handlers"
	"github.com/JaimeStill/vouch/pkg/routes"
)

// Handler serves the visit stat endpoints.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "visits"),
	}
}

// Routes returns the stat endpoints for every ledger kind.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/reviews/stat", Handler: h.Stat(KindReview)},
			{Method: "GET", Pattern: "/providers/stat", Handler: h.Stat(KindProvider)},
			{Method: "GET", Pattern: "/services/stat", Handler: h.Stat(KindService)},
		},
	}
}

// Stat returns daily visit counts for ?id= over ?interval= days (default 3,
// at most MaxWindow).
func (h *Handler) Stat(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		id, err := strconv.ParseInt(q.Get("id"), 10, 64)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingID)
			return
		}

		interval := DefaultWindow
		if v := q.Get("interval"); v != "" {
			interval, err = strconv.Atoi(v)
			if err != nil {
				handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInterval)
				return
			}
		}
		if err := ValidateWindow(interval); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}

		stats, err := h.sys.Stats(r.Context(), kind, id, interval)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}

		handlers.RespondJSON(w, http.StatusOK, stats)
	}
}
