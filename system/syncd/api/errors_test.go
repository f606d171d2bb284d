package api

import (
	"errors"
	"fmt"
	"testing"

	"go.lsp.dev/jsonrpc2"
)

func TestErrorText(t *testing.T) {
	for _, e := range []*Error{
		NewError(CodeUnavailable, "no document: yet"),
		{Message: "plain: message"},
		NewError("a:b", ""),
	} {
		d, err := e.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Error
		if err := back.UnmarshalText(d); err != nil {
			t.Fatal(err)
		}
		if back != *e {
			t.Errorf("got %#v, want %#v", back, *e)
		}
	}
	if !errors.Is(NewError(CodeUnavailable, "x"), &Error{Code: CodeUnavailable}) {
		t.Error("code match failed")
	}
}

func TestFromRPC(t *testing.T) {
	rpcErr := NewError(CodeInvalidParams, "bad session").RPCError(jsonrpc2.InvalidParams)
	err := FromRPC(fmt.Errorf("call: %w", rpcErr))
	if !errors.Is(err, &Error{Code: CodeInvalidParams}) {
		t.Errorf("got %v", err)
	}
	other := errors.New("other")
	if FromRPC(other) != other {
		t.Error("non rpc error changed")
	}
}
