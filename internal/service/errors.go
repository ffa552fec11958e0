// Package service holds the cellar and placement business logic.  Every
// operation runs in one database transaction and fails as a whole.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/wine-cellar/internal/repository"
)

// Error taxonomy.  Errors returned by this package wrap exactly one of
// these; callers match with errors.Is.
var (
	// ErrValidation marks malformed input, rejected before any lookup.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a wine, cellar, coordinate or basket that does
	// not exist for the requesting user.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an occupied target where swapping is not allowed.
	ErrConflict = errors.New("conflict")
	// ErrStorageConflict marks a write lost to a concurrent change.  The
	// caller may retry the whole operation.
	ErrStorageConflict = errors.New("storage conflict")
)

// IsRetryable reports whether err is a storage conflict.
func IsRetryable(err error) bool { return errors.Is(err, ErrStorageConflict) }

// storageErr maps repository write failures onto the taxonomy.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrConflict) || repository.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s: concurrent change", ErrStorageConflict, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
