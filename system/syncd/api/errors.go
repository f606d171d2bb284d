package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.lsp.dev/jsonrpc2"
)

// Error codes carried in JSON-RPC error messages.
const (
	CodeInvalidParams = "invalid_params"
	CodeUnavailable   = "unavailable"
)

// Error represents an API error response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Is implements the errors.Is interface for error matching.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	if t.Message != "" {
		return e.Message == t.Message
	}
	return false
}

// MarshalText returns "codeLength:code:message", or just the message
// when there is no code.  The length prefix allows colons in codes.
func (e *Error) MarshalText() ([]byte, error) {
	if e == nil {
		return nil, nil
	}
	if e.Code != "" {
		return []byte(fmt.Sprintf("%d:%s:%s", len(e.Code), e.Code, e.Message)), nil
	}
	return []byte(e.Message), nil
}

// UnmarshalText parses the form written by MarshalText.
func (e *Error) UnmarshalText(text []byte) error {
	if e == nil {
		return fmt.Errorf("cannot unmarshal into nil Error")
	}
	s := string(text)
	if i := strings.IndexByte(s, ':'); i > 0 {
		codeLen, err := strconv.Atoi(s[:i])
		if err == nil && codeLen >= 0 && i+1+codeLen < len(s) && s[i+1+codeLen] == ':' {
			e.Code = s[i+1 : i+1+codeLen]
			e.Message = s[i+1+codeLen+1:]
			return nil
		}
	}
	e.Code = ""
	e.Message = s
	return nil
}

// NewError returns an error with the given code.
func NewError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// RPCError returns e as a JSON-RPC error with the given code.  The
// message carries the MarshalText form of e.
func (e *Error) RPCError(code jsonrpc2.Code) *jsonrpc2.Error {
	text, _ := e.MarshalText()
	return jsonrpc2.NewError(code, string(text))
}

// FromRPC recovers an *Error from a JSON-RPC error reply.  Other errors
// are returned unchanged.
func FromRPC(err error) error {
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) {
		return err
	}
	e := &Error{}
	if uerr := e.UnmarshalText([]byte(rpcErr.Message)); uerr != nil {
		return err
	}
	return e
}
