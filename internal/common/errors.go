// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Ledger errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidConfidence = errors.New("confidence out of range")
	ErrInvalidInput      = errors.New("invalid input")
	ErrPersistence       = errors.New("persistence failed")
	ErrReviewIncomplete  = errors.New("transactions still need review")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// TransitionError reports an operation that is not legal from the
// transaction's current status.
type TransitionError struct {
	Op   string
	ID   string
	From string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s transaction %s from status %q", ErrInvalidTransition, e.Op, e.ID, e.From)
}

// Is makes TransitionError match ErrInvalidTransition.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
