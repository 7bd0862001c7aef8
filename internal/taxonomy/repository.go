package taxonomy

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/vouch/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates the taxonomy repository.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "taxonomy"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context, v Vocabulary) ([]Term, error) {
	table, err := v.table()
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("SELECT id, name FROM %s ORDER BY name", table)
	terms, err := repository.QueryMany(ctx, r.db, q, nil, scanTerm)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", v, err)
	}
	return terms, nil
}

func (r *repo) Create(ctx context.Context, v Vocabulary, cmd CreateCommand) (*Term, error) {
	table, err := v.table()
	if err != nil {
		return nil, err
	}

	name, err := cmd.normalize()
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("INSERT INTO %s(name) VALUES ($1) RETURNING id, name", table)
	term, err := repository.QueryOne(ctx, r.db, q, []any{name}, scanTerm)
	if err != nil {
		return nil, repository.Errors{Duplicate: ErrDuplicate}.Map(err)
	}

	r.logger.Info("term created", "vocabulary", v, "id", term.ID, "name", term.Name)
	return &term, nil
}

func scanTerm(s repository.Scanner) (Term, error) {
	var t Term
	err := s.Scan(&t.ID, &t.Name)
	return t, err
}
