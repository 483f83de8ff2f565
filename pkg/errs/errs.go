package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures of the generation core so the HTTP layer and the
// resilient invoker can react without string matching.
type Kind string

const (
	KindRetrievalUnavailable      Kind = "RETRIEVAL_UNAVAILABLE"
	KindGenerationUnavailable     Kind = "GENERATION_UNAVAILABLE"
	KindGenerationMemoryExhausted Kind = "GENERATION_MEMORY_EXHAUSTED"
	KindTimeout                   Kind = "TIMEOUT"
	KindSessionBusy               Kind = "SESSION_BUSY"
	KindSessionNotFound           Kind = "SESSION_NOT_FOUND"
	KindMalformedRequest          Kind = "MALFORMED_REQUEST"
	KindIO                        Kind = "IO_ERROR"
	KindUnknown                   Kind = "UNKNOWN"
)

// Error carries a kind plus a user-presentable message. The wrapped cause is
// kept for logs only and never serialized to clients.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the kind from an error chain, KindUnknown when untagged.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Transient reports whether a failure class is worth retrying. Memory
// exhaustion and malformed requests will fail the same way on every attempt.
func Transient(err error) bool {
	switch KindOf(err) {
	case KindRetrievalUnavailable, KindGenerationUnavailable, KindTimeout, KindIO:
		return true
	case KindUnknown:
		// Untagged errors from external clients (connection reset, 5xx) are
		// treated as transient; the invoker's retry budget bounds the damage.
		return true
	default:
		return false
	}
}

// HTTPStatus maps a kind to the response status the error middleware emits.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindMalformedRequest:
		return http.StatusBadRequest
	case KindSessionNotFound:
		return http.StatusNotFound
	case KindSessionBusy:
		return http.StatusConflict
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindRetrievalUnavailable, KindGenerationUnavailable:
		return http.StatusServiceUnavailable
	case KindGenerationMemoryExhausted:
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-presentable part of the error, hiding wrapped
// internals from clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "an internal error occurred"
}
