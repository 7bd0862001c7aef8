package ratings

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/vouch/internal/metrics"
	"github.com/JaimeStill/vouch/pkg/repository"
)

var voteErrors = repository.Errors{
	NotFound:   ErrNotFound,
	Duplicate:  ErrAlreadyVoted,
	ForeignKey: ErrNotFound,
}

type repo struct {
	db      *sql.DB
	logger  *slog.Logger
	metrics *metrics.Moderation
}

// New creates the rating ledger.
func New(db *sql.DB, logger *slog.Logger, m *metrics.Moderation) System {
	return &repo{
		db:      db,
		logger:  logger.With("system", "ratings"),
		metrics: m,
	}
}

func (r *repo) Handler(voteGuard func(http.Handler) http.Handler) *Handler {
	return NewHandler(r, r.logger, voteGuard)
}

func (r *repo) Vote(ctx context.Context, reviewID, userID int64, direction Direction) (*Vote, error) {
	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Vote, error) {
		if _, err := repository.Exec(
			ctx, tx,
			"INSERT INTO rating_logs(review_id, user_id, direction) VALUES ($1, $2, $3)",
			reviewID, userID, direction.Delta(),
		); err != nil {
			return Vote{}, err
		}

		return repository.QueryOne(
			ctx, tx,
			"UPDATE reviews SET rating = rating + $2 WHERE id = $1 RETURNING id, rating",
			[]any{reviewID, direction.Delta()},
			scanVote,
		)
	})

	if err != nil {
		err = voteErrors.Map(err)
		r.metrics.RecordVote(direction.String(), voteResult(err))
		return nil, err
	}

	r.metrics.RecordVote(direction.String(), metrics.VoteAccepted)
	r.logger.Info("vote recorded", "review_id", reviewID, "user_id", userID, "direction", direction, "rating", v.Rating)
	return &v, nil
}

func (r *repo) HasVoted(ctx context.Context, reviewID, userID int64) (bool, error) {
	var voted bool
	err := r.db.QueryRowContext(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM rating_logs WHERE review_id = $1 AND user_id = $2)",
		reviewID, userID,
	).Scan(&voted)
	return voted, err
}

func scanVote(s repository.Scanner) (Vote, error) {
	var v Vote
	err := s.Scan(&v.ReviewID, &v.Rating)
	return v, err
}

func voteResult(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyVoted):
		return metrics.VoteDuplicate
	case errors.Is(err, ErrNotFound):
		return metrics.VoteNotFound
	default:
		return metrics.VoteError
	}
}
