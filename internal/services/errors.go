package services

import (
	"errors"
	"fmt"

	"github.com/sjperalta/dairydash-api/internal/repository"
)

// Common service errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrValidation      = errors.New("validation failed")
	ErrConstraint      = errors.New("constraint violation")
	ErrDuplicate       = errors.New("duplicate record")
	ErrExternalService = errors.New("external service unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidState    = errors.New("invalid state transition")
)

// validationError wraps ErrValidation with a field message
func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// translate maps repository errors onto the service taxonomy
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case repository.IsNotFound(err):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case repository.IsForeignKeyError(err):
		return fmt.Errorf("%w: %s is still referenced", ErrConstraint, what)
	case repository.IsDuplicateKeyError(err, ""):
		return fmt.Errorf("%w: %s", ErrDuplicate, what)
	default:
		return err
	}
}
