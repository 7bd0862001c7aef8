package comments

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/vouch/pkg/auth"
	"github.com/JaimeStill/vouch/pkg/handlers"
	"github.com/JaimeStill/vouch/pkg/routes"
)

// Handler provides HTTP endpoints for comment threads.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "comments"),
	}
}

// Routes returns the thread endpoints nested under reviews and the comment delete endpoint.
func (h *Handler) Routes() routes.Group {
	write := []func(http.Handler) http.Handler{auth.RequireActor(h.logger)}

	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/reviews/{id}/comments", Handler: h.Thread},
			{Method: "POST", Pattern: "/reviews/{id}/comments", Handler: h.Create, Middleware: write},
			{Method: "DELETE", Pattern: "/comments/{id}", Handler: h.Delete, Middleware: write},
		},
	}
}

// Thread returns the comment tree of a review.
func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	thread, err := h.sys.Thread(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, thread)
}

// Create adds a comment or reply to a review.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidComment)
		return
	}

	c, err := h.sys.Create(r.Context(), auth.FromContext(r.Context()), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c)
}

// Delete removes a comment and its replies.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return 0, false
	}
	return id, true
}
