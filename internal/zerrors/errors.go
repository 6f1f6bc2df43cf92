// Package zerrors defines the closed set of error kinds surfaced across
// Zenith's services, and the JSON shape the CLI-adjacent callers render them
// in ({"error": "<kind>", "message": "..."}).
package zerrors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind is a closed enum of error categories. Never add a kind without
// updating every switch that exhausts this set.
type Kind string

const (
	NoResult            Kind = "NoResult"
	InvalidState        Kind = "InvalidState"
	ConstraintViolation Kind = "ConstraintViolation"
	Migration           Kind = "Migration"
	Serialization       Kind = "Serialization"
	Io                  Kind = "Io"
	Embedding           Kind = "Embedding"
	Other               Kind = "Other"
)

// Error wraps a Kind with a message and an optional cause, matching the
// %w-wrapping idiom the teacher uses throughout internal/storage/sqlite.
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

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an existing error, preserving it as
// the Unwrap() cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// As reports whether err (or something it wraps) is a *Error and returns it.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err if it is (or wraps) a *Error, else Other.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Other
}

// JSON is the user-visible error envelope described in spec §7.
type JSON struct {
	ErrorKind string `json:"error"`
	Message   string `json:"message"`
}

// ToJSON renders err as the CLI-facing error envelope.
func ToJSON(err error) JSON {
	if e, ok := As(err); ok {
		return JSON{ErrorKind: string(e.Kind), Message: e.Message}
	}
	return JSON{ErrorKind: string(Other), Message: err.Error()}
}

// MarshalJSON lets zerrors.JSON be written directly with encoding/json.
func (j JSON) MarshalJSON() ([]byte, error) {
	type alias JSON
	return json.Marshal(alias(j))
}
