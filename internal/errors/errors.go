// Package errors provides a lightweight structured error type (ReadmeError)
// for category-based classification across the render pipeline and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a podreadme error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Source document and metadata errors
	CategoryParse     ErrorCategory = "parse"
	CategoryMetadata  ErrorCategory = "metadata"
	CategoryChangelog ErrorCategory = "changelog"

	// Output errors
	CategoryRender     ErrorCategory = "render"
	CategoryWeave      ErrorCategory = "weave"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryState    ErrorCategory = "state"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the render pass
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
)

// ReadmeError is a structured error with category, severity, and context
type ReadmeError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ReadmeError
type ContextFields map[string]any

// Error implements the error interface
func (e *ReadmeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *ReadmeError) Unwrap() error {
	return e.Cause
}

// IsFatal reports whether the error must abort the entire render pass.
func (e *ReadmeError) IsFatal() bool {
	return e.Severity == SeverityFatal
}

// WithContext adds context information to the error
func (e *ReadmeError) WithContext(key string, value any) *ReadmeError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new ReadmeError
func New(category ErrorCategory, severity ErrorSeverity, message string) *ReadmeError {
	return &ReadmeError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new ReadmeError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ReadmeError {
	return &ReadmeError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}
