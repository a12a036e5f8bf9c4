package apperr

import (
	"errors"
	"fmt"
)

// Sentinels shared across the stores. Handlers translate these with
// errors.Is/As; repos wrap them with context via fmt.Errorf("...: %w").
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
)

// ValidationError rejects malformed input before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidReferenceError aborts an order that names a product which does
// not exist (or is no longer active).
type InvalidReferenceError struct {
	ProductID int64
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}
