package providers

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/vouch/pkg/query"
	"github.com/JaimeStill/vouch/pkg/repository"
)

var providerProjection = query.
	NewProjectionMap("public", "providers", "p").
	Project("id", "ID").
	Project("title", "Title").
	Project("description", "Description").
	Project("admin_user_id", "AdminUserID").
	Project("is_active", "IsActive").
	Project("is_confirmed", "IsConfirmed").
	Project("created_at", "CreatedAt")

var serviceProjection = query.
	NewProjectionMap("public", "provider_services", "s").
	Project("id", "ID").
	Project("provider_id", "ProviderID").
	Project("title", "Title").
	Project("description", "Description").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "Title"}

// ProviderFilters contains optional filtering criteria for provider queries.
type ProviderFilters struct {
	Active    *bool `json:"is_active,omitempty"`
	Confirmed *bool `json:"is_confirmed,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f ProviderFilters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("IsActive", f.Active).
		WhereEquals("IsConfirmed", f.Confirmed)
}

// ProviderFiltersFromQuery extracts filter values from URL query parameters.
func ProviderFiltersFromQuery(values url.Values) ProviderFilters {
	var f ProviderFilters
	f.Active = parseBool(values.Get("is_active"))
	f.Confirmed = parseBool(values.Get("is_confirmed"))
	return f
}

// ServiceFilters contains optional filtering criteria for service queries.
type ServiceFilters struct {
	ProviderID *int64 `json:"provider_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f ServiceFilters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("ProviderID", f.ProviderID)
}

// ServiceFiltersFromQuery extracts filter values from URL query parameters.
func ServiceFiltersFromQuery(values url.Values) ServiceFilters {
	var f ServiceFilters
	if pid := values.Get("provider_id"); pid != "" {
		if v, err := strconv.ParseInt(pid, 10, 64); err == nil {
			f.ProviderID = &v
		}
	}
	return f
}

func parseBool(s string) *bool {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &v
}

func scanProvider(s repository.Scanner) (Provider, error) {
	var p Provider
	err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.AdminUserID,
		&p.IsActive,
		&p.IsConfirmed,
		&p.CreatedAt,
	)
	return p, err
}

func scanService(s repository.Scanner) (Service, error) {
	var svc Service
	err := s.Scan(
		&svc.ID,
		&svc.ProviderID,
		&svc.Title,
		&svc.Description,
		&svc.CreatedAt,
	)
	return svc, err
}
