package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrAccountNotFound", err: ErrAccountNotFound, expected: true},
		{name: "ErrSummaryNotFound", err: ErrSummaryNotFound, expected: true},
		{
			name:     "wrapped ErrAccountNotFound",
			err:      fmt.Errorf("processing 0911: %w", ErrAccountNotFound),
			expected: true,
		},
		{name: "ErrInvalidPath", err: ErrInvalidPath, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")

	err := NewStoreError("PhoneNumbers/0911", "update", "write failed", cause)
	assert.Equal(t, `update operation on "PhoneNumbers/0911" failed: write failed: connection reset`, err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("AllFinishedTime", "set", "rejected", nil)
	assert.Equal(t, `set operation on "AllFinishedTime" failed: rejected`, bare.Error())
	assert.Nil(t, bare.Unwrap())
}
