// Package apperrors implements the engine's structured error taxonomy:
// a single AppError carrier type tagged with an ErrorType, plus
// constructors for each named error kind (ProviderNotFound,
// IntegrationError, ApprovalRequired, RunbookParseError, MLEngineError,
// ConfigurationError).
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType tags an AppError with its broad category, used for HTTP
// status mapping and safe-message selection.
type ErrorType string

const (
	ErrorTypeProviderNotFound ErrorType = "provider_not_found"
	ErrorTypeIntegration      ErrorType = "integration"
	ErrorTypeApprovalRequired ErrorType = "approval_required"
	ErrorTypeRunbookParse     ErrorType = "runbook_parse"
	ErrorTypeMLEngine         ErrorType = "ml_engine"
	ErrorTypeConfiguration    ErrorType = "configuration"
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeInternal         ErrorType = "internal"
)

var statusCodes = map[ErrorType]int{
	ErrorTypeProviderNotFound: http.StatusNotFound,
	ErrorTypeIntegration:      http.StatusBadGateway,
	ErrorTypeApprovalRequired: http.StatusPreconditionRequired,
	ErrorTypeRunbookParse:     http.StatusBadRequest,
	ErrorTypeMLEngine:         http.StatusBadGateway,
	ErrorTypeConfiguration:    http.StatusInternalServerError,
	ErrorTypeValidation:       http.StatusBadRequest,
	ErrorTypeInternal:         http.StatusInternalServerError,
}

var safeMessages = map[ErrorType]string{
	ErrorTypeProviderNotFound: "The requested integration is not configured",
	ErrorTypeIntegration:      "An upstream integration failed to respond",
	ErrorTypeApprovalRequired: "This action requires approval before it can run",
	ErrorTypeRunbookParse:     "The runbook definition could not be parsed",
	ErrorTypeMLEngine:         "The analysis backend could not be reached",
	ErrorTypeConfiguration:    "The service is misconfigured",
	ErrorTypeInternal:         "An unexpected error occurred",
}

// AppError is the single carrier type for every structured error this
// module raises. It implements error and supports errors.Is/As via
// Unwrap.
type AppError struct {
	Type       ErrorType
	Message    string
	Details    string
	StatusCode int
	Cause      error
}

// New creates an AppError of the given type with no cause.
func New(t ErrorType, message string) *AppError {
	return &AppError{Type: t, Message: message, StatusCode: statusCodeFor(t)}
}

// Newf creates an AppError with a formatted message.
func Newf(t ErrorType, format string, args ...interface{}) *AppError {
	return New(t, fmt.Sprintf(format, args...))
}

// Wrap creates an AppError of the given type wrapping an underlying cause.
func Wrap(cause error, t ErrorType, message string) *AppError {
	err := New(t, message)
	err.Cause = cause
	return err
}

// Wrapf creates a wrapped AppError with a formatted message.
func Wrapf(cause error, t ErrorType, format string, args ...interface{}) *AppError {
	return Wrap(cause, t, fmt.Sprintf(format, args...))
}

func statusCodeFor(t ErrorType) int {
	if code, ok := statusCodes[t]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped cause, if any, so errors.Is/As work.
func (e *AppError) Unwrap() error { return e.Cause }

// WithDetails sets Details in place and returns the receiver.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithDetailsf sets a formatted Details string in place.
func (e *AppError) WithDetailsf(format string, args ...interface{}) *AppError {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

// --------------------------------------------------------------------
// Named constructors
// --------------------------------------------------------------------

// NewProviderNotFound builds the error raised when the registry cannot
// resolve a category, or a category's resolved mode has no constructor.
func NewProviderNotFound(category string, mode ...string) *AppError {
	if len(mode) > 0 && mode[0] != "" {
		return Newf(ErrorTypeProviderNotFound,
			"no provider found for category %q (mode=%s)", category, mode[0])
	}
	return Newf(ErrorTypeProviderNotFound, "no provider found for category %q", category)
}

// NewIntegrationError builds the error raised when a provider method call
// fails.
func NewIntegrationError(provider, message string) *AppError {
	return New(ErrorTypeIntegration, fmt.Sprintf("[%s] %s", provider, message))
}

// NewApprovalRequired builds the error raised when an action requires
// human approval before it can be executed.
func NewApprovalRequired(actionID string, risk string) *AppError {
	return Newf(ErrorTypeApprovalRequired, "action %q requires approval (risk=%s)", actionID, risk)
}

// NewRunbookParseError builds the error raised when a runbook YAML file
// fails to parse or validate.
func NewRunbookParseError(path, reason string) *AppError {
	return Newf(ErrorTypeRunbookParse, "failed to parse runbook %q: %s", path, reason)
}

// NewMLEngineError builds the error raised when the ML backend itself is
// unreachable (distinct from a parse-failure degrade, which never
// raises).
func NewMLEngineError(message string) *AppError {
	return New(ErrorTypeMLEngine, message)
}

// NewConfigurationError builds the error raised for invalid or missing
// configuration at workflow entry.
func NewConfigurationError(message string) *AppError {
	return New(ErrorTypeConfiguration, message)
}

// NewValidationError builds a plain validation error whose message is
// always safe to surface to a caller verbatim.
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, message)
}

// --------------------------------------------------------------------
// Introspection helpers
// --------------------------------------------------------------------

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// GetType returns the ErrorType of err, or ErrorTypeInternal if err is not
// an AppError.
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// GetStatusCode returns the HTTP status code associated with err.
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// SafeErrorMessage returns a message safe to show to an external caller:
// validation messages pass through verbatim (they describe caller input),
// everything else maps to a generic per-type message that hides internal
// detail.
func SafeErrorMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "An unexpected error occurred"
	}
	if appErr.Type == ErrorTypeValidation {
		return appErr.Message
	}
	if msg, ok := safeMessages[appErr.Type]; ok {
		return msg
	}
	return "An internal error occurred"
}

// LogFields returns a structured-logging field map for err, suitable for
// zap.Any("error_fields", ...) / SugaredLogger.Infow style logging.
func LogFields(err error) map[string]interface{} {
	fields := map[string]interface{}{"error": err.Error()}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fields
	}
	fields["error_type"] = string(appErr.Type)
	fields["status_code"] = appErr.StatusCode
	if appErr.Details != "" {
		fields["error_details"] = appErr.Details
	}
	if appErr.Cause != nil {
		fields["underlying_error"] = appErr.Cause.Error()
	}
	return fields
}

// Chain joins zero or more errors (nils filtered out) into a single
// error whose message concatenates each non-nil error with " -> ".
// Returns nil if every argument is nil, and the single error unmodified
// if exactly one is non-nil.
func Chain(errs ...error) error {
	var nonNil []error
	for _, e := range errs {
		if e != nil {
			nonNil = append(nonNil, e)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	}
	msg := nonNil[0].Error()
	for _, e := range nonNil[1:] {
		msg += " -> " + e.Error()
	}
	return errors.New(msg)
}
