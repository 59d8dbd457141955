package ledger

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update targets no stored transaction.
var ErrNotFound = errors.New("transaction not found")

// ErrConflict is returned when a snapshot match resolves to more than one
// stored transaction; the update is refused rather than guessed.
var ErrConflict = errors.New("multiple transactions matched")

// ErrDuplicateFingerprint is returned by the store when an insert trips the
// fingerprint uniqueness constraint. Importers treat it as a skipped
// duplicate, not a failure.
var ErrDuplicateFingerprint = errors.New("duplicate fingerprint")

// ValidationError rejects a request before any mutation is started.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
