// Package providers is the read-only catalog of providers and their services.
package providers

import (
	"context"
	"net/http"

	"github.com/JaimeStill/vouch/pkg/pagination"
)

// System defines catalog operations.
type System interface {
	// Handler returns the HTTP handler. The recorders, when non-nil, wrap the
	// provider and service detail routes.
	Handler(providerViews, serviceViews func(http.Handler) http.Handler) *Handler

	ListProviders(ctx context.Context, page pagination.PageRequest, filters ProviderFilters) (*pagination.PageResult[Provider], error)

	// FindProvider returns the provider with its services.
	FindProvider(ctx context.Context, id int64) (*Provider, error)

	ListServices(ctx context.Context, page pagination.PageRequest, filters ServiceFilters) (*pagination.PageResult[Service], error)
	FindService(ctx context.Context, id int64) (*Service, error)
}
