package domain

import (
	"errors"
	"fmt"
)

// Classified business errors. A bulk run records these as per-item
// failures and keeps going.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrPermission = errors.New("permission denied")
	ErrConflict   = errors.New("conflict")
)

// Unclassified errors. These always abort a bulk run.
var (
	ErrAuth        = errors.New("authentication failed")
	ErrRateLimited = errors.New("rate limited")
	ErrServer      = errors.New("server error")
)

// NewValidationError returns an error describing invalid caller input.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError reports that the named resource does not exist.
func NewNotFoundError(resource string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, resource)
}

// NewPermissionError reports that the caller may not perform action.
func NewPermissionError(action string) error {
	return fmt.Errorf("%w: not allowed to %s", ErrPermission, action)
}

// IsBusiness reports whether err is a classified business error, i.e. one
// that concerns a single item and is safe to record before moving on.
func IsBusiness(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAuth) || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServer) {
		return false
	}
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrPermission) ||
		errors.Is(err, ErrConflict)
}
