// Package apperr defines the closed error taxonomy for the service.
//
// Every error that reaches the API boundary is an *Error with a stable
// machine-readable code and an HTTP status. Raw errors are normalized
// through From before rendering, so no untyped error ever reaches a
// client response body.
package apperr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Code is a stable machine-readable error tag.
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeExternalAPI        Code = "EXTERNAL_API_ERROR"
	CodeRateLimit          Code = "RATE_LIMIT_ERROR"
	CodeNotFound           Code = "NOT_FOUND"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// Error is the single error envelope used across the service.
type Error struct {
	Status     int            // HTTP status for the terminal translator
	Code       Code           // stable machine tag
	Message    string         // safe to surface to clients
	Details    string         // optional field-level detail (validation)
	Service    string         // upstream dependency name (external errors)
	Retryable  bool           // hint for well-behaved clients
	RetryAfter time.Duration  // rate-limit backoff hint, 0 if unknown
	Operational bool          // anticipated failure vs programming defect
	Meta       map[string]any // diagnostic context, never sent to clients

	cause error
}

func (e *Error) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Code, e.Service, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.cause }

// WithMeta attaches a diagnostic key-value pair and returns the error.
func (e *Error) WithMeta(key string, val any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = val
	return e
}

// Validation builds a 400 error. Each entry in fields describes one
// violated field; they are joined into Details.
func Validation(fields ...string) *Error {
	return &Error{
		Status:      400,
		Code:        CodeValidation,
		Message:     "Request validation failed",
		Details:     strings.Join(fields, "; "),
		Operational: true,
	}
}

// ExternalAPI builds a 502 error for a failure while calling the named
// upstream service. The cause's message is preserved verbatim so callers
// can distinguish timeout-vs-failure.
func ExternalAPI(service string, cause error) *Error {
	msg := "upstream call failed"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Status:      502,
		Code:        CodeExternalAPI,
		Message:     msg,
		Service:     service,
		Retryable:   true,
		Operational: true,
		cause:       cause,
	}
}

// Timeout builds the EXTERNAL_API_ERROR variant produced when an attempt
// exceeds its time budget. The message states the elapsed bound.
func Timeout(service string, bound time.Duration) *Error {
	return &Error{
		Status:      502,
		Code:        CodeExternalAPI,
		Message:     fmt.Sprintf("call to %s timed out after %s", service, bound),
		Service:     service,
		Retryable:   true,
		Operational: true,
	}
}

// RateLimit builds a 429 error with a backoff hint.
func RateLimit(retryAfter time.Duration) *Error {
	return &Error{
		Status:      429,
		Code:        CodeRateLimit,
		Message:     "Too many requests, please try again later",
		Retryable:   true,
		RetryAfter:  retryAfter,
		Operational: true,
	}
}

// NotFound builds a 404 error for a missing entity.
func NotFound(resource string) *Error {
	return &Error{
		Status:      404,
		Code:        CodeNotFound,
		Message:     fmt.Sprintf("%s not found", resource),
		Operational: true,
	}
}

// Unauthorized builds a 401 error.
func Unauthorized(msg string) *Error {
	if msg == "" {
		msg = "authentication required"
	}
	return &Error{Status: 401, Code: CodeUnauthorized, Message: msg, Operational: true}
}

// Forbidden builds a 403 error.
func Forbidden(msg string) *Error {
	if msg == "" {
		msg = "access denied"
	}
	return &Error{Status: 403, Code: CodeForbidden, Message: msg, Operational: true}
}

// Unavailable builds a 503 error for a dependency that is down.
func Unavailable(service string, cause error) *Error {
	return &Error{
		Status:      503,
		Code:        CodeServiceUnavailable,
		Message:     fmt.Sprintf("%s is currently unavailable", service),
		Service:     service,
		Retryable:   true,
		Operational: true,
		cause:       cause,
	}
}

// Internal builds a 500 error. The original message survives only in the
// wrapped cause and server-side logs; clients see a generic phrase.
func Internal(cause error) *Error {
	return &Error{
		Status:      500,
		Code:        CodeInternal,
		Message:     "An unexpected error occurred",
		Operational: false,
		cause:       cause,
	}
}

// Config builds a non-operational 500 for invalid runtime configuration.
func Config(msg string) *Error {
	return &Error{
		Status:      500,
		Code:        CodeInternal,
		Message:     msg,
		Operational: false,
	}
}

// From normalizes any error into the taxonomy. Typed errors pass through
// untouched; everything else becomes a non-operational internal error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// Retryable reports whether the retry executor may attempt err again.
func Retryable(err error) bool {
	var ae *Error
	if errors.As(err, &ae) {
		switch ae.Code {
		case CodeValidation, CodeUnauthorized, CodeForbidden, CodeNotFound, CodeInternal:
			return false
		}
		return ae.Retryable
	}
	// Unclassified errors default to retryable, like transient network
	// failures surfaced by transports as plain errors.
	return true
}
