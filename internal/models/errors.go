package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the core operations.
type ErrorKind string

const (
	// KindConfigurationMissing: required credentials absent. Fatal at startup.
	KindConfigurationMissing ErrorKind = "configuration_missing"
	// KindUpstreamUnavailable: provider or LLM call failed or timed out.
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	// KindNotFound: the requested identity does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindInvalidInput: malformed request, rejected before any remote call.
	KindInvalidInput ErrorKind = "invalid_input"
)

// Sentinels for errors.Is checks against a kind.
var (
	ErrConfigurationMissing = &Error{Kind: KindConfigurationMissing}
	ErrUpstreamUnavailable  = &Error{Kind: KindUpstreamUnavailable}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
)

// Error is a typed failure with an operation and optional ticker context.
type Error struct {
	Kind   ErrorKind
	Op     string
	Ticker string
	Msg    string
	Err    error
}

// NewError creates a typed error.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Invalid creates an InvalidInput error with a message.
func Invalid(op string, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// NotFound creates a NotFound error for a ticker.
func NotFound(op string, ticker string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Ticker: ticker}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Ticker != "" {
		msg += " (" + e.Ticker + ")"
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind. Sentinels carry only a kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Ticker == "" && t.Msg == "" && t.Err == nil
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
