package reviews

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/vouch/pkg/auth"
	"github.com/JaimeStill/vouch/pkg/handlers"
	"github.com/JaimeStill/vouch/pkg/pagination"
	"github.com/JaimeStill/vouch/pkg/routes"
)

// Handler provides HTTP endpoints for review operations.
type Handler struct {
	sys          System
	logger       *slog.Logger
	pagination   pagination.Config
	viewRecorder func(http.Handler) http.Handler
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	viewRecorder func(http.Handler) http.Handler,
) *Handler {
	return &Handler{
		sys:          sys,
		logger:       logger.With("handler", "reviews"),
		pagination:   pagination,
		viewRecorder: viewRecorder,
	}
}

// Routes returns the route group definition for review endpoints.
func (h *Handler) Routes() routes.Group {
	write := []func(http.Handler) http.Handler{auth.RequireActor(h.logger)}

	var view []func(http.Handler) http.Handler
	if h.viewRecorder != nil {
		view = append(view, h.viewRecorder)
	}

	return routes.Group{
		Prefix: "/reviews",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, Middleware: view},
			{Method: "GET", Pattern: "/confirm", Handler: h.Confirm},
			{Method: "POST", Pattern: "", Handler: h.Submit, Middleware: write},
			{Method: "POST", Pattern: "/check", Handler: h.Check},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update, Middleware: write},
			{Method: "PATCH", Pattern: "/{id}", Handler: h.Update, Middleware: write},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, Middleware: write},
		},
	}
}

// List returns a paginated list of reviews with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single review with its categories and tags.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	review, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, review)
}

// Submit creates a review owned by the current actor.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var cmd SubmitCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReview)
		return
	}

	review, err := h.sys.Submit(r.Context(), auth.FromContext(r.Context()), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, review)
}

// Check classifies {"title","text"} and reports the decision a submission would get.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReview)
		return
	}

	res := h.sys.Check(r.Context(), req.Title, req.Text)
	handlers.RespondJSON(w, http.StatusOK, CheckResponse{
		Result:     res,
		Moderation: Moderate(res),
	})
}

// Update applies a partial update when the actor owns the review or is staff.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReview)
		return
	}

	review, err := h.sys.Update(r.Context(), auth.FromContext(r.Context()), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, review)
}

// Delete removes the review when the actor owns it or is staff.
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

// Confirm handles the ?email=&token=&review= link sent in confirmation messages.
// Missing or malformed parameters report 404 like an unknown token.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	reviewID, _ := strconv.ParseInt(q.Get("review"), 10, 64)

	if err := h.sys.ConfirmEmailToken(r.Context(), q.Get("email"), q.Get("token"), reviewID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return 0, false
	}
	return id, true
}
