package taxonomy

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/vouch/pkg/auth"
	"github.com/JaimeStill/vouch/pkg/handlers"
	"github.com/JaimeStill/vouch/pkg/routes"
)

// Handler provides HTTP endpoints for tags and categories.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "taxonomy"),
	}
}

// Routes returns list and create endpoints for each vocabulary.
func (h *Handler) Routes() routes.Group {
	requireActor := []func(http.Handler) http.Handler{auth.RequireActor(h.logger)}

	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/tags",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List(Tags)},
					{Method: "POST", Pattern: "", Handler: h.Create(Tags), Middleware: requireActor},
				},
			},
			{
				Prefix: "/categories",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List(Categories)},
					{Method: "POST", Pattern: "", Handler: h.Create(Categories), Middleware: requireActor},
				},
			},
		},
	}
}

func (h *Handler) List(v Vocabulary) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terms, err := h.sys.List(r.Context(), v)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, terms)
	}
}

func (h *Handler) Create(v Vocabulary) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cmd CreateCommand
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidName)
			return
		}

		term, err := h.sys.Create(r.Context(), v, cmd)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		handlers.RespondJSON(w, http.StatusCreated, term)
	}
}
