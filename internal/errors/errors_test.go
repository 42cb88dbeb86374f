package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "failed to read input",
				Err:     errors.New("file not found"),
			},
			expected: "input: failed to read input: file not found",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeConstruct,
				Message: "target shape cannot be instantiated",
				Err:     nil,
			},
			expected: "construct: target shape cannot be instantiated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	appErr := &AppError{
		Type:    ErrorTypeInput,
		Message: "test message",
		Err:     wrappedErr,
	}

	result := appErr.Unwrap()
	assert.Equal(t, wrappedErr, result)
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		target   error
		expected bool
	}{
		{
			name:     "matching error types",
			appError: NewConstructError("a", nil),
			target:   NewConstructError("b", nil),
			expected: true,
		},
		{
			name:     "different error types",
			appError: NewConstructError("a", nil),
			target:   NewInputError("b", nil),
			expected: false,
		},
		{
			name:     "non-AppError target",
			appError: NewConstructError("a", nil),
			target:   errors.New("plain"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.Is(tt.appError, tt.target))
		})
	}
}

func TestConstructError_WrapsSentinel(t *testing.T) {
	err := NewConstructError("cannot construct interface value", ErrNotConstructible)
	assert.True(t, errors.Is(err, ErrNotConstructible))
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "construct error",
			err:      NewConstructError("bad target", nil),
			expected: "Construction error: bad target",
		},
		{
			name:     "input error",
			err:      NewInputError("missing file", nil),
			expected: "Input error: missing file",
		},
		{
			name:     "config error",
			err:      NewConfigError("bad yaml", nil),
			expected: "Configuration error: bad yaml",
		},
		{
			name:     "sentinel no input",
			err:      ErrNoInput,
			expected: "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin.",
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: "Error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserFriendlyError(tt.err))
		})
	}
}
