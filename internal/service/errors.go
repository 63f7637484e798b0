package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/golf-scorecard/internal/repository"
)

// Sentinel errors returned by the scorecard services.  The HTTP layer maps
// each one to a status code with errors.Is; the wrapped message carries the
// detail.
var (
	// ErrValidation reports malformed input.  Nothing was written.
	ErrValidation = errors.New("invalid input")
	// ErrForbidden reports a caller who is not a member of the room or does
	// not own the score.  Nothing was written.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound reports a missing room, hole or score.
	ErrNotFound = errors.New("not found")
	// ErrConsistency reports a broken store invariant detected mid
	// transaction.  The transaction was rolled back; retrying will not help.
	ErrConsistency = errors.New("consistency check failed")
	// ErrStore reports an unavailable or failing store.
	ErrStore = errors.New("store unavailable")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeErr classifies an error coming out of the repository layer.  Errors
// that already carry a service sentinel pass through; a repository miss
// becomes ErrNotFound; anything else is a store failure.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isServiceErr(err):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		return fmt.Errorf("%s: %w: %v", op, ErrStore, err)
	}
}

func isServiceErr(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConsistency) ||
		errors.Is(err, ErrStore)
}
