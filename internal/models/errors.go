package models

import "errors"

var (
	ErrDesignNotFound      = errors.New("design not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrNoRegenerationsLeft = errors.New("No regenerations left")
	// ErrStaleGeneration is returned by guarded writes when the design has
	// been regenerated since the run started.
	ErrStaleGeneration = errors.New("design was regenerated by a newer run")
	ErrNoSourceImage   = errors.New("no product image for this variation")
	ErrVideoInProgress = errors.New("video is already being generated for this variation")
	ErrNoGoldPrice     = errors.New("no gold price snapshot")
	ErrRateLimited     = errors.New("too many designs this hour, try again later")
	ErrInvalidInput    = errors.New("invalid input")
	// ErrSearchUnavailable means reference search is not configured.
	ErrSearchUnavailable = errors.New("reference search is not configured")
)

// ValidationError carries a user-facing message for rejected input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
