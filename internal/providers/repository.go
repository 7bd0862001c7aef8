package providers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/vouch/pkg/pagination"
	"github.com/JaimeStill/vouch/pkg/query"
	"github.com/JaimeStill/vouch/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the catalog repository.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "providers"),
		pagination: pagination,
	}
}

func (r *repo) Handler(providerViews, serviceViews func(http.Handler) http.Handler) *Handler {
	return NewHandler(r, r.logger, r.pagination, providerViews, serviceViews)
}

func (r *repo) ListProviders(
	ctx context.Context,
	page pagination.PageRequest,
	filters ProviderFilters,
) (*pagination.PageResult[Provider], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(providerProjection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	return list(ctx, r.db, qb, page, scanProvider)
}

func (r *repo) FindProvider(ctx context.Context, id int64) (*Provider, error) {
	q, args := query.NewBuilder(providerProjection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProvider)
	if err != nil {
		return nil, repository.Errors{NotFound: ErrNotFound}.Map(err)
	}

	sq, sargs := query.
		NewBuilder(serviceProjection, defaultSort).
		WhereEquals("ProviderID", id).
		Build()

	p.Services, err = repository.QueryMany(ctx, r.db, sq, sargs, scanService)
	if err != nil {
		return nil, fmt.Errorf("query provider services: %w", err)
	}

	return &p, nil
}

func (r *repo) ListServices(
	ctx context.Context,
	page pagination.PageRequest,
	filters ServiceFilters,
) (*pagination.PageResult[Service], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(serviceProjection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	return list(ctx, r.db, qb, page, scanService)
}

func (r *repo) FindService(ctx context.Context, id int64) (*Service, error) {
	q, args := query.NewBuilder(serviceProjection).BuildSingle("ID", id)

	svc, err := repository.QueryOne(ctx, r.db, q, args, scanService)
	if err != nil {
		return nil, repository.Errors{NotFound: ErrServiceNotFound}.Map(err)
	}
	return &svc, nil
}

func list[T any](
	ctx context.Context,
	db *sql.DB,
	qb *query.Builder,
	page pagination.PageRequest,
	scan repository.ScanFunc[T],
) (*pagination.PageResult[T], error) {
	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, db, pageSQL, pageArgs, scan)
	if err != nil {
		return nil, fmt.Errorf("query page: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}
