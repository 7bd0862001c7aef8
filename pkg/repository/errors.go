package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Errors maps storage failures onto a domain's sentinel errors.
// A nil field leaves the matching failure unchanged.
type Errors struct {
	NotFound   error
	Duplicate  error
	ForeignKey error
}

// Map translates err using the configured sentinels.
// sql.ErrNoRows maps to NotFound, unique violations (23505) to Duplicate,
// and foreign key violations (23503) to ForeignKey.
func (e Errors) Map(err error) error {
	if err == nil {
		return nil
	}

	if e.NotFound != nil && errors.Is(err, sql.ErrNoRows) {
		return e.NotFound
	}
	if e.Duplicate != nil && IsUniqueViolation(err) {
		return e.Duplicate
	}
	if e.ForeignKey != nil && IsForeignKeyViolation(err) {
		return e.ForeignKey
	}

	return err
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, pgUniqueViolation)
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, pgForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
