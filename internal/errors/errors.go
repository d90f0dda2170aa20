// Package errors provides the error kinds reported by catalog operations.
// Callers test them with errors.Is against the sentinels and use errors.As
// to get at the details.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDuplicateName   = errors.New("duplicate product name")
	ErrProductNotFound = errors.New("product not found")
)

// ValidationError lists rejected request fields and the rule each one failed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

type argumentError struct {
	msg string
}

func (e *argumentError) Error() string { return e.msg }
func (e *argumentError) Unwrap() error { return ErrInvalidArgument }

// InvalidArgument reports a rejected argument that is not a request field, e.g. a non-positive id.
func InvalidArgument(msg string) error {
	return &argumentError{msg: msg}
}

// DuplicateNameError carries the conflicting name as submitted (after trimming).
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("product with name '%s' already exists", e.Name)
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// NotFoundError identifies the missing product by id or, for name lookups, by name.
type NotFoundError struct {
	ID   int64
	Name string
}

func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("product with name '%s' not found", e.Name)
	}
	return fmt.Sprintf("product with id %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrProductNotFound }
