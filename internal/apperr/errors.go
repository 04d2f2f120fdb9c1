// Package apperr defines the flat error taxonomy returned by the pipeline.
//
// Every failure that leaves the orchestrator is exactly one *Error carrying a
// Kind. Callers switch on the Kind, never on message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure
type Kind string

const (
	KindInvalidInput         Kind = "invalid-input"
	KindInvalidTemplate      Kind = "invalid-template"
	KindUpstreamInvalid      Kind = "upstream-invalid-response"
	KindUpstreamSchema       Kind = "upstream-schema-violation"
	KindUpstreamTimeout      Kind = "upstream-timeout"
	KindUpstreamRateLimited  Kind = "upstream-rate-limited"
	KindReferenceOutOfBounds Kind = "reference-out-of-bounds"
	KindGenerationFailure    Kind = "generation-failure"
	KindUnknown              Kind = "unknown"
)

// Error is the single typed error value surfaced to callers
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by Kind so errors.Is(err, apperr.New(kind, "")) works
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an Error of the given kind
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind that keeps err as its cause
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	e := &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: err}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// KindOf returns the Kind of err, or KindUnknown when err carries none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// As converts any error into an *Error, wrapping foreign errors as unknown
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(KindUnknown, err, "unexpected failure")
}
