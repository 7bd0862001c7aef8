// Package tokens issues and consumes single-use email validation tokens.
// Both operations run on the caller's transaction.
package tokens

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"github.com/JaimeStill/vouch/pkg/repository"
)

// Length is the number of characters in a token.
const Length = 9

const (
	alphabet     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	issueRetries = 5
)

var (
	ErrNotFound  = errors.New("validation token not found")
	ErrExhausted = errors.New("could not allocate a unique validation token")
)

// Generate returns a random alphanumeric token.
func Generate() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, Length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}

// Issue stores a new token binding email to reviewID and returns it.
func Issue(ctx context.Context, q repository.Querier, email string, reviewID int64) (string, error) {
	for range issueRetries {
		token, err := Generate()
		if err != nil {
			return "", err
		}

		var stored string
		err = q.QueryRowContext(
			ctx,
			`INSERT INTO validation_tokens(token, user_email, review_id) VALUES ($1, $2, $3)
			ON CONFLICT (token) DO NOTHING
			RETURNING token`,
			token, email, reviewID,
		).Scan(&stored)

		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("store token: %w", err)
		}
		return stored, nil
	}
	return "", ErrExhausted
}

// Consume deletes the token issued to email for reviewID. It fails with
// ErrNotFound when the token does not exist, was issued for another address or
// review, or was already consumed.
func Consume(ctx context.Context, q repository.Querier, email, token string, reviewID int64) error {
	var deleted string
	err := q.QueryRowContext(
		ctx,
		`DELETE FROM validation_tokens
		WHERE token = $1 AND user_email = $2 AND review_id = $3
		RETURNING token`,
		token, email, reviewID,
	).Scan(&deleted)
	return repository.Errors{NotFound: ErrNotFound}.Map(err)
}
