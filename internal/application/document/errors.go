package document

import (
	"errors"

	"github.com/profitmap/docflow/internal/domain/shared"
)

// classify makes sure nothing but domain errors leaves the application layer.
// Repositories already translate what they know; anything left is a storage failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return shared.ErrStorageUnavailable.WithCause(err)
}
