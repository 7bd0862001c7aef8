package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/vouch/internal/classifier"
	"github.com/JaimeStill/vouch/internal/reviews"
	"github.com/JaimeStill/vouch/pkg/auth"
	"github.com/JaimeStill/vouch/pkg/repository"
)

const columns = `id, review_id, parent_id, content, rating, is_auto_confirmed,
	confirmation_text, is_confirmed, is_provider, user_id, created_at`

type repo struct {
	db         *sql.DB
	classifier classifier.Classifier
	logger     *slog.Logger
}

// New creates the comment repository.
func New(db *sql.DB, cls classifier.Classifier, logger *slog.Logger) System {
	return &repo{
		db:         db,
		classifier: cls,
		logger:     logger.With("system", "comments"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Create(ctx context.Context, actor *auth.Actor, reviewID int64, cmd CreateCommand) (*Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	var title string
	if err := r.db.QueryRowContext(
		ctx,
		"SELECT title FROM reviews WHERE id = $1",
		reviewID,
	).Scan(&title); err != nil {
		return nil, repository.Errors{NotFound: ErrReviewNotFound}.Map(err)
	}

	if cmd.ParentID != nil {
		if err := r.checkParent(ctx, reviewID, *cmd.ParentID); err != nil {
			return nil, err
		}
	}

	mod := reviews.Moderate(r.classifier.Classify(ctx, title, cmd.Content))

	c, err := repository.QueryOne(
		ctx, r.db,
		`INSERT INTO comments(review_id, parent_id, content, is_auto_confirmed, confirmation_text, is_provider, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+columns,
		[]any{reviewID, cmd.ParentID, cmd.Content, mod.AutoConfirmed, mod.ConfirmationText, actor.ProviderID != nil, actor.ID},
		scanComment,
	)
	if err != nil {
		return nil, repository.Errors{ForeignKey: ErrInvalidParent}.Map(err)
	}

	c.Replies = []*Comment{}
	r.logger.Info("comment created", "id", c.ID, "review_id", reviewID, "auto_confirmed", mod.AutoConfirmed)
	return &c, nil
}

func (r *repo) Thread(ctx context.Context, reviewID int64) ([]*Comment, error) {
	var (
		exists bool
		flat   []Comment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.QueryRowContext(
			gctx,
			"SELECT EXISTS (SELECT 1 FROM reviews WHERE id = $1)",
			reviewID,
		).Scan(&exists)
	})
	g.Go(func() error {
		var err error
		flat, err = repository.QueryMany(
			gctx, r.db,
			"SELECT "+columns+" FROM comments WHERE review_id = $1 ORDER BY created_at, id",
			[]any{reviewID},
			scanComment,
		)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	if !exists {
		return nil, ErrReviewNotFound
	}
	return buildThread(flat), nil
}

func (r *repo) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var owner int64
		if err := tx.QueryRowContext(
			ctx,
			"SELECT user_id FROM comments WHERE id = $1 FOR UPDATE",
			id,
		).Scan(&owner); err != nil {
			return struct{}{}, repository.Errors{NotFound: ErrNotFound}.Map(err)
		}

		if !actor.CanModify(owner) {
			return struct{}{}, ErrForbidden
		}

		return struct{}{}, repository.Errors{NotFound: ErrNotFound}.Map(
			repository.ExecExpectOne(ctx, tx, "DELETE FROM comments WHERE id = $1", id),
		)
	})
	if err != nil {
		return err
	}

	r.logger.Info("comment deleted", "id", id, "actor", actor.ID)
	return nil
}

func (r *repo) checkParent(ctx context.Context, reviewID, parentID int64) error {
	var parentReview int64
	err := r.db.QueryRowContext(
		ctx,
		"SELECT review_id FROM comments WHERE id = $1",
		parentID,
	).Scan(&parentReview)

	if errors.Is(err, sql.ErrNoRows) || (err == nil && parentReview != reviewID) {
		return ErrInvalidParent
	}
	return err
}

func scanComment(s repository.Scanner) (Comment, error) {
	var c Comment
	err := s.Scan(
		&c.ID,
		&c.ReviewID,
		&c.ParentID,
		&c.Content,
		&c.Rating,
		&c.IsAutoConfirmed,
		&c.ConfirmationText,
		&c.IsConfirmed,
		&c.IsProvider,
		&c.UserID,
		&c.CreatedAt,
	)
	return c, err
}
