package ratings

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/vouch/pkg/auth"
	"github.com/JaimeStill/vouch/pkg/handlers"
	"github.com/JaimeStill/vouch/pkg/middleware"
	"github.com/JaimeStill/vouch/pkg/routes"
)

// Handler provides the voting endpoints.
type Handler struct {
	sys       System
	logger    *slog.Logger
	voteGuard func(http.Handler) http.Handler
}

// VoteRequest is the body of POST /reviews/{id}/vote.
type VoteRequest struct {
	Direction string `json:"direction"`
}

// NewHandler creates a Handler. voteGuard, when non-nil, wraps the vote routes
// after authentication (rate limiting in production).
func NewHandler(sys System, logger *slog.Logger, voteGuard func(http.Handler) http.Handler) *Handler {
	return &Handler{
		sys:       sys,
		logger:    logger.With("handler", "ratings"),
		voteGuard: voteGuard,
	}
}

// Routes returns the vote endpoints, all of which require an authenticated actor.
func (h *Handler) Routes() routes.Group {
	var write []func(http.Handler) http.Handler
	if h.voteGuard != nil {
		write = append(write, h.voteGuard)
	}

	return routes.Group{
		Prefix:     "/reviews",
		Middleware: []func(http.Handler) http.Handler{auth.RequireActor(h.logger)},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{id}/vote", Handler: h.Vote, Middleware: write},
			{Method: "GET", Pattern: "/{id}/vote", Handler: h.Status},
			{Method: "POST", Pattern: "/rating", Handler: h.LegacyVote, Middleware: write},
		},
	}
}

// Vote applies {"direction": "up"|"down"} from the current actor.
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidDirection)
		return
	}

	direction, err := ParseDirection(req.Direction)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.vote(w, r, id, direction)
}

// LegacyVote accepts ?id=&val= where val=1 is a downvote and anything else an upvote.
func (h *Handler) LegacyVote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	id, err := strconv.ParseInt(q.Get("id"), 10, 64)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	h.vote(w, r, id, ParseLegacyValue(q.Get("val")))
}

// Status reports whether the current actor has voted on the review.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	actor := auth.FromContext(r.Context())
	voted, err := h.sys.HasVoted(r.Context(), id, actor.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]bool{"voted": voted})
}

func (h *Handler) vote(w http.ResponseWriter, r *http.Request, reviewID int64, direction Direction) {
	actor := auth.FromContext(r.Context())

	v, err := h.sys.Vote(r.Context(), reviewID, actor.ID, direction)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// VoterKey keys rate limits by the authenticated actor.
func VoterKey(r *http.Request) string {
	if actor := auth.FromContext(r.Context()); actor != nil {
		return "user:" + strconv.FormatInt(actor.ID, 10)
	}
	return "ip:" + middleware.ClientIP(r)
}
