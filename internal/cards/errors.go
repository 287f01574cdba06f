package cards

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both missing rows and rows deliberately masked
	// from the caller (private cards, other tenants' records).
	ErrNotFound = errors.New("business card not found")

	// ErrConflict signals a unique-constraint violation, e.g. a caller-supplied
	// slug that already exists.
	ErrConflict = errors.New("record already exists")

	// ErrForbidden signals that the actor's role or company association does
	// not permit the operation.
	ErrForbidden = errors.New("operation not permitted")
)

// ValidationError carries field-level messages for a rejected payload.
// Nothing is persisted when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}
