package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the not-found family, matched with errors.Is.
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrWinnerNotFound   = errors.New("winner not found")
)

// ErrNoEligibleEmployees means the draw pool was empty. Scheduled callers
// treat this as a skippable condition rather than a failure.
var ErrNoEligibleEmployees = errors.New("no employees configured")

// ErrScheduleParse marks a malformed cron expression or unparseable date.
// The scheduling layer logs it and no-ops instead of propagating.
var ErrScheduleParse = errors.New("unparseable schedule")

// ValidationError carries a human-readable message surfaced as a 400
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a ValidationError with a formatted message
func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err belongs to the not-found family
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGameNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrWinnerNotFound)
}
