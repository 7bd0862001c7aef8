package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/vouch/internal/classifier"
	"github.com/JaimeStill/vouch/internal/metrics"
	"github.com/JaimeStill/vouch/internal/notify"
	"github.com/JaimeStill/vouch/internal/taxonomy"
	"github.com/JaimeStill/vouch/internal/tokens"
	"github.com/JaimeStill/vouch/pkg/auth"
	"github.com/JaimeStill/vouch/pkg/pagination"
	"github.com/JaimeStill/vouch/pkg/query"
	"github.com/JaimeStill/vouch/pkg/repository"
)

var (
	reviewErrors = repository.Errors{NotFound: ErrNotFound}
	linkErrors   = repository.Errors{ForeignKey: ErrUnknownTerm}
)

const returning = `RETURNING id, title, description, rating, is_auto_confirmed, confirmation_text,
	is_confirmed, is_anon, image, user_id, created_at, updated_at`

type links struct {
	table  string
	column string
	terms  string
}

var (
	categoryLinks = links{table: "review_category_links", column: "category_id", terms: "review_categories"}
	tagLinks      = links{table: "review_tag_links", column: "tag_id", terms: "review_tags"}
)

type repo struct {
	db         *sql.DB
	classifier classifier.Classifier
	notifier   notify.Sender
	logger     *slog.Logger
	metrics    *metrics.Moderation
	pagination pagination.Config
	confirmURL string
}

// New creates the review repository. confirmURL is the absolute URL of the
// confirmation endpoint placed in confirmation messages.
func New(
	db *sql.DB,
	cls classifier.Classifier,
	notifier notify.Sender,
	logger *slog.Logger,
	m *metrics.Moderation,
	pagination pagination.Config,
	confirmURL string,
) System {
	return &repo{
		db:         db,
		classifier: cls,
		notifier:   notifier,
		logger:     logger.With("system", "reviews"),
		metrics:    m,
		pagination: pagination,
		confirmURL: confirmURL,
	}
}

func (r *repo) Handler(viewRecorder func(http.Handler) http.Handler) *Handler {
	return NewHandler(r, r.logger, r.pagination, viewRecorder)
}

type submission struct {
	review Review
	email  string
	token  string
}

func (r *repo) Submit(ctx context.Context, actor *auth.Actor, cmd SubmitCommand) (*Review, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	mod := Moderate(r.classifier.Classify(ctx, cmd.Title, cmd.Description))

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (submission, error) {
		var s submission
		if err := tx.QueryRowContext(
			ctx,
			"SELECT email FROM users WHERE id = $1",
			actor.ID,
		).Scan(&s.email); err != nil {
			return s, repository.Errors{NotFound: ErrUnauthenticated}.Map(err)
		}

		review, err := repository.QueryOne(
			ctx, tx,
			`INSERT INTO reviews(title, description, is_auto_confirmed, confirmation_text, is_anon, user_id)
			VALUES ($1, $2, $3, $4, $5, $6) `+returning,
			[]any{cmd.Title, cmd.Description, mod.AutoConfirmed, mod.ConfirmationText, cmd.Anonymous, actor.ID},
			scanReview,
		)
		if err != nil {
			return s, err
		}
		s.review = review

		if err := replaceLinks(ctx, tx, categoryLinks, review.ID, cmd.Categories); err != nil {
			return s, err
		}
		if err := replaceLinks(ctx, tx, tagLinks, review.ID, cmd.Tags); err != nil {
			return s, err
		}

		s.token, err = tokens.Issue(ctx, tx, s.email, review.ID)
		return s, err
	})

	if err != nil {
		return nil, err
	}

	r.metrics.RecordSubmission(mod.AutoConfirmed)
	r.logger.Info(
		"review submitted",
		"id", s.review.ID,
		"user_id", actor.ID,
		"auto_confirmed", mod.AutoConfirmed,
		"confidence", mod.ConfirmationText,
	)

	msg := notify.Confirmation(r.confirmURL, s.email, s.token, s.review.ID)
	if err := r.notifier.Send(ctx, msg); err != nil {
		r.logger.Warn("confirmation message not sent", "review_id", s.review.ID, "error", err)
	}

	return r.Find(ctx, s.review.ID)
}

func (r *repo) Check(ctx context.Context, title, text string) classifier.Result {
	return r.classifier.Classify(ctx, title, text)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Review], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanReview)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*Review, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	review, err := repository.QueryOne(ctx, r.db, q, args, scanReview)
	if err != nil {
		return nil, reviewErrors.Map(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		terms, err := r.terms(gctx, categoryLinks, id)
		review.Categories = terms
		return err
	})
	g.Go(func() error {
		terms, err := r.terms(gctx, tagLinks, id)
		review.Tags = terms
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load review terms: %w", err)
	}

	return &review, nil
}

func (r *repo) Update(ctx context.Context, actor *auth.Actor, id int64, cmd UpdateCommand) (*Review, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := lockOwned(ctx, tx, actor, id); err != nil {
			return struct{}{}, err
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			`UPDATE reviews
			SET title = COALESCE($2, title), description = COALESCE($3, description), updated_at = NOW()
			WHERE id = $1`,
			id, cmd.Title, cmd.Description,
		); err != nil {
			return struct{}{}, reviewErrors.Map(err)
		}

		if cmd.Categories != nil {
			if err := replaceLinks(ctx, tx, categoryLinks, id, *cmd.Categories); err != nil {
				return struct{}{}, err
			}
		}
		if cmd.Tags != nil {
			if err := replaceLinks(ctx, tx, tagLinks, id, *cmd.Tags); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("review updated", "id", id, "actor", actor.ID)
	return r.Find(ctx, id)
}

func (r *repo) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := lockOwned(ctx, tx, actor, id); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, reviewErrors.Map(
			repository.ExecExpectOne(ctx, tx, "DELETE FROM reviews WHERE id = $1", id),
		)
	})
	if err != nil {
		return err
	}

	r.logger.Info("review deleted", "id", id, "actor", actor.ID)
	return nil
}

func (r *repo) ConfirmEmailToken(ctx context.Context, email, token string, reviewID int64) error {
	if email == "" || token == "" || reviewID <= 0 {
		return ErrNotFound
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := tokens.Consume(ctx, tx, email, token, reviewID); err != nil {
			if errors.Is(err, tokens.ErrNotFound) {
				return struct{}{}, ErrNotFound
			}
			return struct{}{}, err
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE users SET is_confirmed = TRUE WHERE email = $1",
			email,
		); err != nil {
			return struct{}{}, reviewErrors.Map(err)
		}

		return struct{}{}, reviewErrors.Map(repository.ExecExpectOne(
			ctx, tx,
			`UPDATE reviews SET is_anon = FALSE, is_confirmed = TRUE, updated_at = NOW()
			WHERE id = $1 AND user_id = (SELECT id FROM users WHERE email = $2)`,
			reviewID, email,
		))
	})
	if err != nil {
		return err
	}

	r.logger.Info("review confirmed", "id", reviewID, "email", email)
	return nil
}

func (r *repo) terms(ctx context.Context, l links, reviewID int64) ([]taxonomy.Term, error) {
	q := fmt.Sprintf(
		"SELECT t.id, t.name FROM %s t JOIN %s l ON l.%s = t.id WHERE l.review_id = $1 ORDER BY t.name",
		l.terms, l.table, l.column,
	)
	return repository.QueryMany(ctx, r.db, q, []any{reviewID}, scanTerm)
}

// lockOwned locks the review row and checks that actor may modify it.
func lockOwned(ctx context.Context, tx *sql.Tx, actor *auth.Actor, id int64) error {
	var owner int64
	if err := tx.QueryRowContext(
		ctx,
		"SELECT user_id FROM reviews WHERE id = $1 FOR UPDATE",
		id,
	).Scan(&owner); err != nil {
		return reviewErrors.Map(err)
	}

	if !actor.CanModify(owner) {
		return ErrForbidden
	}
	return nil
}

func replaceLinks(ctx context.Context, tx *sql.Tx, l links, reviewID int64, ids []int64) error {
	if _, err := repository.Exec(
		ctx, tx,
		fmt.Sprintf("DELETE FROM %s WHERE review_id = $1", l.table),
		reviewID,
	); err != nil {
		return err
	}

	ids = slices.Compact(slices.Sorted(slices.Values(ids)))
	if len(ids) == 0 {
		return nil
	}

	_, err := repository.Exec(
		ctx, tx,
		fmt.Sprintf("INSERT INTO %s(review_id, %s) SELECT $1, unnest($2::bigint[])", l.table, l.column),
		reviewID, ids,
	)
	return linkErrors.Map(err)
}
