package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid is the kind of every *ValidationError.
	ErrInvalid = errors.New("invalid document")

	// ErrSchema reports a malformed schema definition.
	ErrSchema = errors.New("malformed schema")
)

// ValidationError reports a document rejected by a Validator.
//
// Arg names the rejected argument of the operation which validated it
// ("original", "updated", "result", "initial"), Path is the JSON
// Pointer of the offending value within it.  Expected and Actual
// describe the mismatch when it is one of shape.
type ValidationError struct {
	Arg      string
	Path     string
	Expected string
	Actual   string
	Msg      string

	// Err is the underlying error of a foreign validator, if any.
	Err error
}

func (e *ValidationError) Error() string {
	msg := ErrInvalid.Error()
	if e.Arg != "" {
		msg += " " + e.Arg
	}
	msg += fmt.Sprintf(" at %q", e.Path)
	if e.Expected != "" || e.Actual != "" {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return msg
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalid}
	}
	return []error{ErrInvalid, e.Err}
}
