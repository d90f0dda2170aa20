package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		kind     error
		expected string
	}{
		{
			name:     "validation",
			err:      &ValidationError{Fields: map[string]string{"Price": "failed on rule: min", "Name": "failed on rule: required"}},
			kind:     ErrInvalidArgument,
			expected: "validation failed: Name: failed on rule: required, Price: failed on rule: min",
		},
		{
			name:     "invalid argument",
			err:      InvalidArgument("id must be positive"),
			kind:     ErrInvalidArgument,
			expected: "id must be positive",
		},
		{
			name:     "duplicate name",
			err:      &DuplicateNameError{Name: "Notebook Dell"},
			kind:     ErrDuplicateName,
			expected: "product with name 'Notebook Dell' already exists",
		},
		{
			name:     "not found by id",
			err:      &NotFoundError{ID: 7},
			kind:     ErrProductNotFound,
			expected: "product with id 7 not found",
		},
		{
			name:     "not found by name",
			err:      &NotFoundError{Name: "Mouse"},
			kind:     ErrProductNotFound,
			expected: "product with name 'Mouse' not found",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("operation failed: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.kind)
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestDuplicateNameError_As(t *testing.T) {
	err := fmt.Errorf("create: %w", &DuplicateNameError{Name: "Mouse"})
	var dup *DuplicateNameError
	assert.True(t, errors.As(err, &dup))
	assert.Equal(t, "Mouse", dup.Name)
	assert.False(t, errors.Is(err, ErrProductNotFound))
}
