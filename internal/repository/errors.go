package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert or update hits a unique constraint.
	ErrDuplicate = errors.New("record already exists")

	// ErrInUse is returned when a delete is blocked by a foreign key.
	ErrInUse = errors.New("record is referenced by other data")

	// ErrDuplicateAdmissionNo is returned when a registration races another
	// for the same admission number. It is not retried.
	ErrDuplicateAdmissionNo = errors.New("admission number already assigned")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError converts driver errors into repository sentinels. onUnique is
// returned for unique violations so callers can pick a specific sentinel.
func mapError(err error, onUnique error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return onUnique
		case pgForeignKeyViolation:
			return ErrInUse
		}
	}
	return err
}
