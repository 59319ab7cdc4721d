package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// IsForeignKeyViolationError checks if the error is a foreign key violation error
func IsForeignKeyViolationError(err error) bool {
	return hasPgCode(err, pgForeignKeyViolation)
}

// IsCheckViolationError checks if the error is a check constraint violation error
func IsCheckViolationError(err error) bool {
	return hasPgCode(err, pgCheckViolation)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
