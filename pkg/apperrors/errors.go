// Package apperrors defines the service-wide error taxonomy and its HTTP
// mapping. Handlers wrap domain failures in one of these types so the API
// layer can derive status codes and stable machine-readable codes without
// string matching.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a coded application error. Code is a stable dotted identifier
// ("plugin.validation", "app.not_found") suitable for clients and logs.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Error codes, grouped by concern.
const (
	CodeValidation       = "app.validation"
	CodeSecurity         = "app.security"
	CodePermissionDenied = "app.permission_denied"
	CodeNotFound         = "app.not_found"
	CodeConflict         = "app.conflict"
	CodeUnavailable      = "app.unavailable"
	CodeInternal         = "app.internal"

	CodePluginValidation = "plugin.validation"
	CodePluginSecurity   = "plugin.security"
	CodePluginLoad       = "plugin.load"
)

// NewValidation builds a blocking validation error.
func NewValidation(message string, cause error) *Error {
	return &Error{Code: CodeValidation, Message: message, Err: cause}
}

// NewPluginValidation builds a validation error scoped to plugin manifests.
func NewPluginValidation(message string, cause error) *Error {
	return &Error{Code: CodePluginValidation, Message: message, Err: cause}
}

// NewSecurity builds a security rejection.
func NewSecurity(message string, cause error) *Error {
	return &Error{Code: CodeSecurity, Message: message, Err: cause}
}

// NewPluginSecurity builds a security rejection scoped to plugin content.
func NewPluginSecurity(message string, cause error) *Error {
	return &Error{Code: CodePluginSecurity, Message: message, Err: cause}
}

// NewPermissionDenied builds a permission-denied error.
func NewPermissionDenied(message string) *Error {
	if message == "" {
		message = "Permission denied"
	}
	return &Error{Code: CodePermissionDenied, Message: message}
}

// NewNotFound builds a not-found error.
func NewNotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return &Error{Code: CodeNotFound, Message: message}
}

// NewConflict builds a conflict error.
func NewConflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewUnavailable reports that a required backing service is not configured
// or not reachable in this deployment.
func NewUnavailable(message string) *Error {
	if message == "" {
		message = "Service unavailable"
	}
	return &Error{Code: CodeUnavailable, Message: message}
}

// NewInternal builds an internal error.
func NewInternal(message string, cause error) *Error {
	if message == "" {
		message = "Internal server error"
	}
	return &Error{Code: CodeInternal, Message: message, Err: cause}
}

// NewPluginLoad builds a plugin load failure.
func NewPluginLoad(message string, cause error) *Error {
	return &Error{Code: CodePluginLoad, Message: message, Err: cause}
}

// HTTPStatus maps an error to the status code an API boundary should emit.
// Unknown errors map to 500.
func HTTPStatus(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case CodeValidation, CodePluginValidation:
		return http.StatusBadRequest
	case CodeSecurity, CodePluginSecurity, CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON error envelope API handlers emit.
type Body struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToBody converts any error into the standard error envelope. Non-app
// errors are reported generically so internals never leak to clients.
func ToBody(err error) Body {
	var appErr *Error
	if errors.As(err, &appErr) {
		return Body{Error: appErr.Message, Code: appErr.Code}
	}
	return Body{Error: "Unexpected error", Code: "app.unexpected"}
}
