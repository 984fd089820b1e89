package repos

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/vbarroso/manutencao-backend/internal/pkg/errors"
)

const (
	pgUndefinedTable  = "42P01"
	pgUniqueViolation = "23505"
)

// mapPgError folds the SQLSTATE codes the engine reacts to into sentinels:
// a missing table means the schema was never provisioned (offline fallback
// territory), a unique violation is a retryable identifier collision.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedTable:
			return fmt.Errorf("%w: %s", apperrors.ErrSchemaUnavailable, pgErr.Message)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateKey, pgErr.Message)
		}
	}
	return err
}
