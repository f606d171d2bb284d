package docsync

import (
	"errors"
	"testing"

	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/parse"
	"github.com/signadot/docsync/schema"
)

type diffTest struct {
	a    string
	b    string
	diff string
}

var diffTests = []diffTest{
	{
		a:    `name: John`,
		b:    "name: John\nage: 30",
		diff: `[{"op":"add","path":"/age","value":30}]`,
	},
	{
		a:    `foo: [bar, baz]`,
		b:    `foo: [bar, qux, baz]`,
		diff: `[{"op":"add","path":"/foo/1","value":"qux"}]`,
	},
	{
		a: `
f1: a
f2: a
f3: a
f5:
  f5a: 1
  f5b: 2`,
		b: `
f0: b
f1: b
f2: a
f5:
  f5a: 1`,
		diff: `[{"op":"add","path":"/f0","value":"b"},` +
			`{"op":"remove","path":"/f3"},` +
			`{"op":"replace","path":"/f1","value":"b"},` +
			`{"op":"remove","path":"/f5/f5b"}]`,
	},
	{
		a: `
- 1
- 2
- 3`,
		b: `
- 3
- 2
- 1`,
		// any alignment will do, the round trip is checked
	},
	{
		a:    `[]`,
		b:    `[{count: 1}]`,
		diff: `[{"op":"add","path":"/0","value":{"count":1}}]`,
	},
	{
		a:    `a: {b: [x, y, z]}`,
		b:    `a: {b: [x, y, z]}`,
		diff: `[]`,
	},
}

func yamlNode(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := parse.Parse([]byte(s), parse.ParseYAML())
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return n
}

func js(n *ir.Node) string {
	d, err := n.MarshalJSON()
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return string(d)
}

func TestDiff(t *testing.T) {
	for i := range diffTests {
		dt := &diffTests[i]
		a, b := yamlNode(t, dt.a), yamlNode(t, dt.b)
		p, err := Diff(nil, a, b)
		if err != nil {
			t.Errorf("%d: %v", i, err)
			continue
		}
		if got := p.String(); dt.diff != "" && got != dt.diff {
			t.Errorf("%d: diff\n got %s\nwant %s", i, got, dt.diff)
		}
		res, err := Apply(nil, a, p)
		if err != nil {
			t.Errorf("%d: apply: %v", i, err)
			continue
		}
		if !ir.Equal(res, b) {
			t.Errorf("%d: apply gave %s, want %s", i, js(res), js(b))
		}
	}
}

func TestDiffValidates(t *testing.T) {
	v := mustSchema(t, `{type: object, properties: {n: {type: number}}}`)
	ok := yamlNode(t, `n: 1`)
	bad := yamlNode(t, `n: one`)
	tests := []struct {
		a, b *ir.Node
		arg  string
	}{
		{bad, ok, ArgOriginal},
		{ok, bad, ArgUpdated},
		{bad, bad, ArgOriginal},
	}
	for _, tc := range tests {
		p, err := Diff(v, tc.a, tc.b)
		var ve *schema.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("got %v, %v", p, err)
		}
		if ve.Arg != tc.arg || ve.Path != "/n" {
			t.Errorf("got arg %q path %q, want %q /n", ve.Arg, ve.Path, tc.arg)
		}
	}
}

func mustSchema(t *testing.T, src string) *schema.Schema {
	t.Helper()
	s, err := schema.ParseSchema(yamlNode(t, src))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDiffLargeNumbers(t *testing.T) {
	a, err := ir.FromJSON([]byte(`{"n":9007199254740993}`))
	if err != nil {
		t.Fatal(err)
	}
	b, err := ir.FromJSON([]byte(`{"n":9007199254740992.5}`))
	if err != nil {
		t.Fatal(err)
	}
	p, err := Diff(nil, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := p.String(), `[{"op":"replace","path":"/n","value":9007199254740992.5}]`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	res, err := Apply(nil, a, p)
	if err != nil {
		t.Fatal(err)
	}
	if js(res) != `{"n":9007199254740992.5}` {
		t.Errorf("apply gave %s", js(res))
	}
}
