package encode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/signadot/docsync/format"
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/parse"
	"github.com/signadot/docsync/patch"
)

func mustJSON(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := ir.FromJSON([]byte(s))
	if err != nil {
		t.Fatalf("FromJSON(%q): %v", s, err)
	}
	return n
}

func TestEncodeJSON(t *testing.T) {
	n := mustJSON(t, `{"b":[1,{"c":null}],"a":"x","e":{},"f":[]}`)
	if got, want := MustString(n), `{"b":[1,{"c":null}],"a":"x","e":{},"f":[]}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	buf := bytes.NewBuffer(nil)
	if err := Encode(n, buf, EncodeIndent(2)); err != nil {
		t.Fatal(err)
	}
	want := `{
  "b": [
    1,
    {
      "c": null
    }
  ],
  "a": "x",
  "e": {},
  "f": []
}
`
	if buf.String() != want {
		t.Errorf("got\n%s\nwant\n%s", buf, want)
	}
}

func TestEncodeYAMLRoundTrip(t *testing.T) {
	n := mustJSON(t, `{"z":[1,"two",{"three":true}],"a":null,"m":{"k":"v: w"}}`)
	buf := bytes.NewBuffer(nil)
	if err := Encode(n, buf, EncodeFormat(format.YAMLFormat)); err != nil {
		t.Fatal(err)
	}
	back, err := parse.Parse(buf.Bytes(), parse.ParseYAML())
	if err != nil {
		t.Fatalf("%v\n%s", err, buf)
	}
	if MustString(back) != MustString(n) {
		t.Errorf("got %s, want %s", MustString(back), MustString(n))
	}
	if !strings.HasPrefix(buf.String(), "z:") {
		t.Errorf("key order lost:\n%s", buf)
	}
}

func TestEncodeListing(t *testing.T) {
	p, err := patch.Decode([]byte(`[
		{"op":"add","path":"/foo/1","value":"qux"},
		{"op":"remove","path":"/bar"},
		{"op":"replace","path":"","value":2},
		{"op":"move","from":"/a","path":"/b"},
		{"op":"copy","from":"/a","path":"/c d"},
		{"op":"test","path":"/d","value":{"x":true}}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	buf := bytes.NewBuffer(nil)
	if err := EncodeListing(p, buf); err != nil {
		t.Fatal(err)
	}
	want := `+ /foo/1 "qux"
- /bar
~ "" 2
> /a -> /b
= /a -> "/c d"
? /d {"x":true}
`
	if buf.String() != want {
		t.Errorf("got\n%s\nwant\n%s", buf, want)
	}
}

func TestColorsEscapePercent(t *testing.T) {
	c := NewColors()
	if got := c.Color(ir.StringType, ValueColor, `"100%"`); !strings.Contains(got, `"100%"`) {
		t.Errorf("got %q", got)
	}
	var none *Colors
	if got := none.Op(patch.KindAdd, "x"); got != "x" {
		t.Errorf("got %q", got)
	}
}
