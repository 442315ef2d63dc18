// Package errors provides structured error types and exit codes for the
// respect command.
package errors

import (
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/AndreyAkinshin/respect/internal/config"
	"github.com/AndreyAkinshin/respect/pkg/respect"
)

// Exit codes.
const (
	ExitSuccess      = 0 // Success
	ExitRuntimeError = 1 // Runtime error, or resources that differ from what was asked for
	ExitConfigError  = 2 // Invalid configuration or resources failing validation
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindMismatch
)

var kindNames = [...]string{"runtime", "config", "not found", "validation", "mismatch"}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the base error type for the respect command.
type Error struct {
	Kind    ErrorKind
	Message string
	Path    string // Resource or config path if applicable
	Command string // Command name if applicable
	Cause   error  // Underlying error
}

func (e *Error) Error() string {
	if e.Path != "" && e.Command != "" {
		return fmt.Sprintf("%s %s: %s", e.Command, e.Path, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	default:
		return ExitRuntimeError
	}
}

// Config creates a new configuration error.
func Config(message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *Error {
	return Config(fmt.Sprintf(format, args...))
}

// Mismatchf creates an error for resources that differ from the requested form.
func Mismatchf(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindMismatch,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validationf creates an error for resources that fail to decode or validate.
func Validationf(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// ResourceError attributes an error to a command and resource path.
func ResourceError(command, path string, err error) *Error {
	return &Error{
		Kind:    Classify(err),
		Command: command,
		Path:    path,
		Message: err.Error(),
		Cause:   err,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// Classify maps library errors onto error kinds.
func Classify(err error) ErrorKind {
	var e *Error
	var schemaErr *jsonschema.ValidationError
	var configErr *config.ValidationError
	var notFound *respect.NotFoundError

	switch {
	case errors.As(err, &e):
		return e.Kind
	case errors.As(err, &configErr):
		return KindConfig
	case errors.As(err, &schemaErr):
		return KindValidation
	case errors.Is(err, respect.ErrMismatch):
		return KindMismatch
	case errors.As(err, &notFound):
		return KindNotFound
	}
	return KindRuntime
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode()
	}
	return (&Error{Kind: Classify(err)}).ExitCode()
}
