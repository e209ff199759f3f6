package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionError(t *testing.T) {
	err := &TransitionError{Op: "approve", ID: "txn1", From: "manual"}

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), ErrInvalidTransition)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `cannot approve transaction txn1 from status "manual"`)

	var target *TransitionError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &target))
	assert.Equal(t, "txn1", target.ID)
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not save", ErrPersistence)
	assert.Equal(t, "could not save: persistence failed", err.Error())
	assert.ErrorIs(t, err, ErrPersistence)

	bare := NewUserError("nothing to do", nil)
	assert.Equal(t, "nothing to do", bare.Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "rate limit", err: fmt.Errorf("sheets: %w", ErrRateLimit), want: true},
		{name: "retryable wrapper", err: &RetryableError{Err: errors.New("503"), Retryable: true}, want: true},
		{name: "non retryable wrapper", err: &RetryableError{Err: errors.New("400"), Retryable: false}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
