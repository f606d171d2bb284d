package ir

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestJSONRoundTrip(t *testing.T) {
	tests := []string{
		`null`,
		`true`,
		`"a/b~c"`,
		`12345678901234567890`,
		`-0.5e10`,
		`[]`,
		`{}`,
		`{"z":1,"a":{"y":[1,"two",null,false]},"":"empty"}`,
		`"é\n\"q\""`,
	}
	for _, in := range tests {
		n := mustJSON(t, in)
		d, err := n.MarshalJSON()
		if err != nil {
			t.Errorf("MarshalJSON(%s): %v", in, err)
			continue
		}
		back := mustJSON(t, string(d))
		if !Equal(n, back) {
			t.Errorf("round trip of %s gave %s", in, d)
		}
	}
}

func TestJSONKeyOrder(t *testing.T) {
	n := mustJSON(t, `{"b":1,"a":2,"b":3}`)
	d, err := n.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != `{"b":3,"a":2}` {
		t.Errorf("got %s", d)
	}
}

func TestJSONDepth(t *testing.T) {
	nested := func(n int) []byte {
		return []byte(strings.Repeat(`{"a":[`, n) + strings.Repeat("]}", n))
	}
	if _, err := FromJSON(nested(MaxDepth / 2)); err != nil {
		t.Errorf("depth %d: %v", MaxDepth, err)
	}
	if _, err := FromJSON(nested(MaxDepth/2 + 1)); !errors.Is(err, ErrParse) {
		t.Errorf("depth %d: got %v, want ErrParse", MaxDepth+2, err)
	}
	if _, err := FromJSON([]byte(strings.Repeat("[", 1<<20))); !errors.Is(err, ErrParse) {
		t.Errorf("unterminated deep input: got %v, want ErrParse", err)
	}
}

func TestJSONErrors(t *testing.T) {
	for _, in := range []string{``, `[1,`, `{"a"}`, `1 2`, `{"a":1}}`} {
		if _, err := FromJSON([]byte(in)); !errors.Is(err, ErrParse) {
			t.Errorf("FromJSON(%q) err = %v, want ErrParse", in, err)
		}
	}
	if _, err := FromFloat(math.Inf(1)).MarshalJSON(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("+Inf encode err = %v, want ErrUnsupported", err)
	}
	n := &Node{Type: NumberType, Float64: ptr(math.NaN())}
	if _, err := n.MarshalJSON(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("NaN encode err = %v, want ErrUnsupported", err)
	}
}

func TestAny(t *testing.T) {
	n, err := FromAny(map[string]any{"b": []any{int64(1), 2.5, "x", nil, true}, "a": uint64(7)})
	if err != nil {
		t.Fatal(err)
	}
	d, _ := n.MarshalJSON()
	if string(d) != `{"a":7,"b":[1,2.5,"x",null,true]}` {
		t.Errorf("got %s", d)
	}
	back, err := FromAny(ToAny(n))
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(n, back) {
		t.Error("ToAny/FromAny round trip differs")
	}
	if _, err := FromAny(struct{}{}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func ptr[T any](v T) *T { return &v }
