// SPDX-License-Identifier: MPL-2.0

// Package issue provides the error type used for user-facing failures:
// what operation failed, which resource was involved, and how to fix it.
package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is an error with context for user-facing error messages.
	//
	// Use the ErrorContext builder for convenient construction:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load registry file").
	//		WithResource("~/.config/fansh/dirs").
	//		WithSuggestion("Pass the file with -r/--registry").
	//		Wrap(originalErr).
	//		BuildError()
	ActionableError struct {
		// Operation describes what was being attempted (e.g., "register directory").
		Operation string

		// Resource identifies the file, path, or entity involved (optional).
		Resource string

		// Suggestions provides hints on how to fix the issue (optional).
		Suggestions []string

		// Cause is the underlying error that triggered this error (optional).
		Cause error
	}

	// ErrorContext is a builder for constructing ActionableError instances.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithOperation wraps an error with operation context.
func WrapWithOperation(err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{
		Operation: operation,
		Cause:     err,
	}
}

// Error implements the error interface. The message is concise and suitable
// for default (non-verbose) output.
func (e *ActionableError) Error() string {
	var msg strings.Builder

	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)

	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}

	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}

	return msg.String()
}

// Unwrap returns the underlying cause error for use with errors.Is/As.
func (e *ActionableError) Unwrap() error { return e.Cause }

// Format returns the error message, suggestions appended as bullet points.
// In verbose mode the full error chain is included.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	for _, suggestion := range e.Suggestions {
		msg.WriteString("\n  • ")
		msg.WriteString(suggestion)
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		err := e.Cause
		depth := 1
		for err != nil {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			err = errors.Unwrap(err)
			depth++
		}
	}

	return msg.String()
}

// WithOperation sets the operation being performed, a verb phrase like
// "register directory" or "save history".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the resource (file, path, entity) involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion adds a suggestion for how to fix the issue. Can be called
// multiple times.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// Wrap wraps an underlying error as the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build creates an ActionableError from the context. Returns nil if no
// operation is set (operation is required).
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}

	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError creates an ActionableError and returns it as an error interface,
// for direct use in return statements.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}
