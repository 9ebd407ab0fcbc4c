package services

import (
	"errors"
	"fmt"

	"suryaghar-backend/internal/repositories"
)

var (
	ErrNotFound = repositories.ErrNotFound
	ErrConflict = repositories.ErrConflict

	errStaleStatus = repositories.ErrStaleStatus

	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnavailable       = errors.New("service unavailable")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}
