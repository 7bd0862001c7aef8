package providers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/vouch/pkg/handlers"
	"github.com/JaimeStill/vouch/pkg/pagination"
	"github.com/JaimeStill/vouch/pkg/routes"
)

// Handler provides HTTP endpoints for the provider catalog.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	providerViews func(http.Handler) http.Handler
	serviceViews  func(http.Handler) http.Handler
}

func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	providerViews, serviceViews func(http.Handler) http.Handler,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "providers"),
		pagination:    pagination,
		providerViews: providerViews,
		serviceViews:  serviceViews,
	}
}

// Routes returns the provider and service route groups.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/providers",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListProviders},
					{Method: "GET", Pattern: "/{id}", Handler: h.FindProvider, Middleware: optional(h.providerViews)},
					{Method: "DELETE", Pattern: "/{id}", Handler: h.DeleteProvider},
				},
			},
			{
				Prefix: "/services",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListServices},
					{Method: "GET", Pattern: "/{id}", Handler: h.FindService, Middleware: optional(h.serviceViews)},
				},
			},
		},
	}
}

func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.ListProviders(r.Context(), page, ProviderFiltersFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) FindProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	p, err := h.sys.FindProvider(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// DeleteProvider always refuses; providers are deactivated, never deleted.
func (h *Handler) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	handlers.RespondError(w, h.logger, http.StatusForbidden, ErrForbidden)
}

func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.ListServices(r.Context(), page, ServiceFiltersFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) FindService(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	svc, err := h.sys.FindService(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, svc)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return 0, false
	}
	return id, true
}

func optional(mw func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	if mw == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{mw}
}
