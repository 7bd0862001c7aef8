package providers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/vouch/internal/providers"
	"github.com/JaimeStill/vouch/internal/testdb"
	"github.com/JaimeStill/vouch/pkg/pagination"
)

func TestCatalog(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	sys := providers.New(db, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})

	providerID, serviceID := testdb.CreateProvider(t, db)

	p, err := sys.FindProvider(ctx, providerID)
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	require.Len(t, p.Services, 1)
	assert.Equal(t, serviceID, p.Services[0].ID)

	svc, err := sys.FindService(ctx, serviceID)
	require.NoError(t, err)
	assert.Equal(t, providerID, svc.ProviderID)

	_, err = sys.FindProvider(ctx, 1_000_000_000)
	assert.ErrorIs(t, err, providers.ErrNotFound)

	_, err = sys.FindService(ctx, 1_000_000_000)
	assert.ErrorIs(t, err, providers.ErrServiceNotFound)

	services, err := sys.ListServices(ctx, pagination.PageRequest{Page: 1, PageSize: 10}, providers.ServiceFilters{ProviderID: &providerID})
	require.NoError(t, err)
	assert.Equal(t, 1, services.Total)

	active := true
	list, err := sys.ListProviders(ctx, pagination.PageRequest{Page: 1, PageSize: 100}, providers.ProviderFilters{Active: &active})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, list.Total, 1)
}
