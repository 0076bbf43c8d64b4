// Package errors provides a lightweight structured error type (PacksmithError)
// for category-based classification and exit-code mapping in the CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a Packsmith error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External tool integration errors
	CategoryToolchain ErrorCategory = "toolchain"

	// Build and processing errors
	CategoryFreeze     ErrorCategory = "freeze"
	CategoryDocs       ErrorCategory = "docs"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryStore      ErrorCategory = "store"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryDaemon   ErrorCategory = "daemon"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// PacksmithError is a structured error with category, retryability, and context
type PacksmithError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for PacksmithError
type ContextFields map[string]any

// Error implements the error interface
func (e *PacksmithError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *PacksmithError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *PacksmithError) WithContext(key string, value any) *PacksmithError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithSeverity overrides the severity of the error
func (e *PacksmithError) WithSeverity(severity ErrorSeverity) *PacksmithError {
	e.Severity = severity
	return e
}

// New creates a new PacksmithError
func New(category ErrorCategory, severity ErrorSeverity, message string) *PacksmithError {
	return &PacksmithError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: false,
	}
}

// Wrap creates a new PacksmithError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *PacksmithError {
	return &PacksmithError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}

// Retryable creates a new retryable PacksmithError
func Retryable(category ErrorCategory, severity ErrorSeverity, message string) *PacksmithError {
	return &PacksmithError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: true,
	}
}
