package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound = errors.New("post not found")
	ErrEmptyID  = errors.New("post ID cannot be empty")
)

// FieldError reports a malformed metadata field with enough context to point
// at the offending file and key. Builds surface these instead of silently
// dropping the post.
type FieldError struct {
	File  string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("%s: field %q: %v", e.File, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// NewFieldError wraps err with file and field context.
func NewFieldError(file, field string, err error) *FieldError {
	return &FieldError{File: file, Field: field, Err: err}
}
