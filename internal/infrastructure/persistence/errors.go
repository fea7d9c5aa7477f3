package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/profitmap/docflow/internal/domain/shared"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes the repositories react to
const (
	pgLockNotAvailable = "55P03"
	pgUniqueViolation  = "23505"
)

// translateError maps storage failures onto domain errors. notFound and duplicate
// replace the generic NOT_FOUND and CONFLICT errors when the caller knows the
// entity involved. Lock timeouts become RESOURCE_CONTENTION; anything the domain
// does not model becomes STORAGE_UNAVAILABLE with the driver error as cause.
func translateError(err error, notFound, duplicate *shared.DomainError) error {
	if err == nil {
		return nil
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	var pgErr *pgconn.PgError
	isPg := errors.As(err, &pgErr)

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if notFound == nil {
			notFound = shared.ErrNotFound
		}
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isPg && pgErr.Code == pgUniqueViolation:
		if duplicate == nil {
			duplicate = shared.ErrConflict
		}
		return duplicate.WithCause(err)
	case isPg && pgErr.Code == pgLockNotAvailable,
		errors.Is(err, context.DeadlineExceeded):
		return shared.ErrResourceContention.WithCause(err)
	default:
		return shared.ErrStorageUnavailable.WithCause(err)
	}
}
