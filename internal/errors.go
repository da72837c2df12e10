package internal

import (
	"errors"
	"fmt"
)

// ErrorType classifies the failure modes every fetch and download
// operation can report.
type ErrorType int

const (
	ErrTransport ErrorType = iota
	ErrHTTPStatus
	ErrMalformedPayload
	ErrBusinessFailure
	ErrNotLoggedIn
	ErrResourceNotFound
	ErrDownloadFailed
	ErrInvalidRef
)

// String returns the string representation of ErrorType.
func (et ErrorType) String() string {
	switch et {
	case ErrTransport:
		return "Transport"
	case ErrHTTPStatus:
		return "HTTPStatus"
	case ErrMalformedPayload:
		return "MalformedPayload"
	case ErrBusinessFailure:
		return "BusinessFailure"
	case ErrNotLoggedIn:
		return "NotLoggedIn"
	case ErrResourceNotFound:
		return "ResourceNotFound"
	case ErrDownloadFailed:
		return "DownloadFailed"
	case ErrInvalidRef:
		return "InvalidRef"
	default:
		return "Unknown"
	}
}

// APIError is the error value every operation returns for documented
// failure modes. Message is user-facing; Code is the HTTP status when
// the failure came from a non-2xx response, zero otherwise.
type APIError struct {
	Type    ErrorType
	Code    int
	Message string
	Op      string
	cause   error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any, for errors.Is/As chains.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Retryable reports whether re-issuing the operation may succeed without
// any input change. Business failures and missing resources are not
// retryable; transport hiccups and server-side statuses are.
func (e *APIError) Retryable() bool {
	switch e.Type {
	case ErrTransport:
		return true
	case ErrHTTPStatus:
		return e.Code >= 500
	default:
		return false
	}
}

// NewAPIError creates an APIError of the given type.
func NewAPIError(op string, t ErrorType, message string) *APIError {
	return &APIError{Type: t, Message: message, Op: op}
}

// NewStatusError builds the failure for a non-2xx response. The
// user-facing message embeds the numeric status code.
func NewStatusError(op, what string, code int) *APIError {
	return &APIError{
		Type:    ErrHTTPStatus,
		Code:    code,
		Message: fmt.Sprintf("%s failed (%d).", what, code),
		Op:      op,
	}
}

// NewTransportError wraps a low-level network error behind a generic
// user-facing message; the raw error stays available via Unwrap but is
// never shown to the user.
func NewTransportError(op, what string, cause error) *APIError {
	return &APIError{
		Type:    ErrTransport,
		Message: fmt.Sprintf("%s failed.", what),
		Op:      op,
		cause:   cause,
	}
}

// NewParseError is the fixed generic failure for malformed payloads.
// Parser internals are never leaked to the caller.
func NewParseError(op, what string, cause error) *APIError {
	return &APIError{
		Type:    ErrMalformedPayload,
		Message: fmt.Sprintf("%s failed.", what),
		Op:      op,
		cause:   cause,
	}
}

// NewBusinessError reports success:false or a missing required field,
// using the server-supplied message when present.
func NewBusinessError(op, serverMessage, fallback string) *APIError {
	message := serverMessage
	if message == "" {
		message = fallback
	}
	return &APIError{Type: ErrBusinessFailure, Message: message, Op: op}
}

// NewNotLoggedInError is the precondition failure raised before any
// network call when credentials are missing.
func NewNotLoggedInError(op string) *APIError {
	return &APIError{Type: ErrNotLoggedIn, Message: "not logged in", Op: op}
}

// NewResourceNotFoundError distinguishes "nothing to show" from
// transport or parse failures.
func NewResourceNotFoundError(op string) *APIError {
	return &APIError{Type: ErrResourceNotFound, Message: "no resource found", Op: op}
}

// NewDownloadError reports a downloader-level failure. The partial file
// has already been removed when this is returned.
func NewDownloadError(op string, cause error) *APIError {
	return &APIError{
		Type:    ErrDownloadFailed,
		Message: "download failed.",
		Op:      op,
		cause:   cause,
	}
}

// NewInvalidRefError reports an asset reference that cannot be resolved
// against the API base URL.
func NewInvalidRefError(op, ref string) *APIError {
	return &APIError{
		Type:    ErrInvalidRef,
		Message: fmt.Sprintf("invalid asset reference %q", ref),
		Op:      op,
	}
}

// IsType reports whether err is an APIError of the given type.
func IsType(err error, t ErrorType) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Type == t
}
