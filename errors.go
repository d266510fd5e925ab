package resumepdf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lvillar/resumepdf/block"
	"github.com/lvillar/resumepdf/layout"
)

// Sentinel errors for common generation failure conditions.
var (
	ErrNotFound      = errors.New("resumepdf: not found")
	ErrInvalidInput  = errors.New("resumepdf: invalid input")
	ErrBlockNotFound = block.ErrNotFound
	ErrBuildFailed   = layout.ErrBuildFailed
)

// Error represents an error that occurred during a specific generation step.
// It wraps an underlying error and includes the operation name for context.
type Error struct {
	Op  string // operation name, e.g. "theme", "layout", "build"
	Err error  // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resumepdf.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("resumepdf.%s: unknown error", e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError creates a new Error wrapping err with operation context.
func newError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

// FieldError is one problem with one input field.
type FieldError struct {
	Path    string `json:"loc"`
	Message string `json:"msg"`
}

// ValidationError lists every problem found in a request. It wraps
// ErrInvalidInput.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Path + ": " + f.Message
	}
	return "resumepdf: invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Add records a problem.
func (e *ValidationError) Add(path, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Err returns e when it holds problems and nil otherwise.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
