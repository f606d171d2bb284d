package patch

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is the kind of every *SyntaxError.
	ErrSyntax = errors.New("malformed patch")

	ErrMalformedPath = errors.New("malformed path")
	ErrPathNotFound  = errors.New("target path does not exist")
	ErrTypeMismatch  = errors.New("type mismatch at target")
	ErrTestFailed    = errors.New("test operation failed")
	ErrInvalidMove   = errors.New("cannot move a value into itself")
	ErrRootRemove    = errors.New("cannot remove the document root")
)

// SyntaxError reports the first structural violation found in a patch.
// Index is the offending operation, or -1 when the patch as a whole is
// malformed.  Field names the offending member, if any.
type SyntaxError struct {
	Index int
	Field string
	Msg   string
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("%v: %s", ErrSyntax, e.Msg)
	case e.Field == "":
		return fmt.Sprintf("%v: op %d: %s", ErrSyntax, e.Index, e.Msg)
	default:
		return fmt.Sprintf("%v: op %d: %q %s", ErrSyntax, e.Index, e.Field, e.Msg)
	}
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Error reports a well formed operation which could not be applied.
// Err is one of the Err* kinds above, so callers may use errors.Is.
type Error struct {
	Index int
	Op    Kind
	Path  string
	Err   error
	Msg   string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("op %d (%s %q): %v", e.Index, e.Op, e.Path, e.Err)
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(kind error, format string, args ...any) *Error {
	return &Error{Err: kind, Msg: fmt.Sprintf(format, args...)}
}
