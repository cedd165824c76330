package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"carrest/internal/domain"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// MapError wraps constraint violations into domain sentinels, keeping the
// constraint name. Other errors are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return domain.NewConstraintError(domain.ErrUniqueViolation, pgErr.ConstraintName, err)
		case foreignKeyViolationCode:
			return domain.NewConstraintError(domain.ErrForeignKeyViolation, pgErr.ConstraintName, err)
		}
	}

	return err
}
