package libdiff

import (
	"testing"

	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/patch"

	jsonpatch "github.com/evanphx/json-patch"
)

func js(n *ir.Node) string {
	d, err := n.MarshalJSON()
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return string(d)
}

func mustJSON(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := ir.FromJSON([]byte(s))
	if err != nil {
		t.Fatalf("FromJSON(%q): %v", s, err)
	}
	return n
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     string
	}{
		{
			name: "add member",
			from: `{"name":"John"}`,
			to:   `{"name":"John","age":30}`,
			want: `[{"op":"add","path":"/age","value":30}]`,
		},
		{
			name: "insert in middle of array",
			from: `{"foo":["bar","baz"]}`,
			to:   `{"foo":["bar","qux","baz"]}`,
			want: `[{"op":"add","path":"/foo/1","value":"qux"}]`,
		},
		{
			name: "equal",
			from: `{"a":[1,{"b":null}],"c":"d"}`,
			to:   `{"c":"d","a":[1,{"b":null}]}`,
			want: `[]`,
		},
		{
			name: "scalar change",
			from: `{"a":1}`,
			to:   `{"a":2}`,
			want: `[{"op":"replace","path":"/a","value":2}]`,
		},
		{
			name: "same number different literal",
			from: `{"a":1}`,
			to:   `{"a":1.0}`,
			want: `[]`,
		},
		{
			name: "string vs number",
			from: `{"a":"10"}`,
			to:   `{"a":10}`,
			want: `[{"op":"replace","path":"/a","value":10}]`,
		},
		{
			name: "type change",
			from: `{"a":{"b":1}}`,
			to:   `{"a":[1]}`,
			want: `[{"op":"replace","path":"/a","value":[1]}]`,
		},
		{
			name: "adds then removes then shared",
			from: `{"x":1,"y":{"z":1},"w":2}`,
			to:   `{"y":{"z":2},"v":3,"u":4}`,
			want: `[{"op":"add","path":"/v","value":3},` +
				`{"op":"add","path":"/u","value":4},` +
				`{"op":"remove","path":"/x"},` +
				`{"op":"remove","path":"/w"},` +
				`{"op":"replace","path":"/y/z","value":2}]`,
		},
		{
			name: "trailing removes descend",
			from: `[1,2,3,4]`,
			to:   `[1]`,
			want: `[{"op":"remove","path":"/3"},{"op":"remove","path":"/2"},{"op":"remove","path":"/1"}]`,
		},
		{
			name: "trailing adds ascend",
			from: `[1]`,
			to:   `[1,2,3]`,
			want: `[{"op":"add","path":"/1","value":2},{"op":"add","path":"/2","value":3}]`,
		},
		{
			name: "changed elements recurse in place",
			from: `[{"a":1},{"b":1}]`,
			to:   `[{"a":2},{"b":2}]`,
			want: `[{"op":"replace","path":"/0/a","value":2},{"op":"replace","path":"/1/b","value":2}]`,
		},
		{
			name: "escaped keys",
			from: `{"a/b":1,"c~d":1}`,
			to:   `{"a/b":2}`,
			want: `[{"op":"remove","path":"/c~0d"},{"op":"replace","path":"/a~1b","value":2}]`,
		},
		{
			name: "root scalar",
			from: `1`,
			to:   `"x"`,
			want: `[{"op":"replace","path":"","value":"x"}]`,
		},
		{
			name: "root empty key",
			from: `{"":1,"a":1}`,
			to:   `{"":2,"a":1}`,
			want: `[{"op":"replace","path":"","value":{"":2,"a":1}}]`,
		},
		{
			name: "nested empty key",
			from: `{"a":{"":1}}`,
			to:   `{"a":{"":2}}`,
			want: `[{"op":"replace","path":"/a/","value":2}]`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			from, to := mustJSON(t, tc.from), mustJSON(t, tc.to)
			p := Diff(from, to)
			if got := p.String(); got != tc.want {
				t.Errorf("Diff:\n got %s\nwant %s", got, tc.want)
			}
			res, err := patch.Apply(from, p)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if !ir.Equal(res, to) {
				t.Errorf("Apply(from, Diff(from, to)) = %s, want %s", js(res), tc.to)
			}
		})
	}
}

func TestDiffRoundTrip(t *testing.T) {
	docs := []string{
		`null`,
		`[]`,
		`{}`,
		`[1,2,3,4,5]`,
		`[5,4,3,2,1]`,
		`[1,1,1,2,2]`,
		`[2,1,2,1]`,
		`["a",{"b":[1,2,{"c":true}]},null,3.5]`,
		`[{"b":[2,{"c":false}]},"a",3.5,"a"]`,
		`{"a":[1,2,3],"b":{"c":{"d":"e"}},"f":null}`,
		`{"a":[3,2],"b":{"c":{"d":"x","g":[]}},"h":false}`,
		`{"a":{"a":{"a":[]}}}`,
		`{"list":[{"id":1},{"id":2},{"id":3}]}`,
		`{"list":[{"id":3},{"id":1},{"id":4},{"id":2}]}`,
	}
	for _, a := range docs {
		for _, b := range docs {
			from, to := mustJSON(t, a), mustJSON(t, b)
			p := Diff(from, to)
			res, err := patch.Apply(from, p)
			if err != nil {
				t.Errorf("Apply(%s, %s): %v", a, p, err)
				continue
			}
			if !ir.Equal(res, to) {
				t.Errorf("round trip %s -> %s via %s gave %s", a, b, p, js(res))
			}
			if a == b && len(p) != 0 {
				t.Errorf("Diff(%s, %s) = %s, want empty", a, b, p)
			}
			for _, op := range p {
				switch op.Kind() {
				case patch.KindAdd, patch.KindRemove, patch.KindReplace:
				default:
					t.Errorf("Diff(%s, %s) emitted %s", a, b, op)
				}
			}
			if from.Type != ir.ObjectType && from.Type != ir.ArrayType {
				continue
			}
			if to.Type != ir.ObjectType && to.Type != ir.ArrayType {
				continue
			}
			checkOracle(t, from, to, p)
		}
	}
}

// checkOracle applies p with an independent implementation.
func checkOracle(t *testing.T, from, to *ir.Node, p patch.Patch) {
	t.Helper()
	if len(p) == 0 || p[0].Target().IsRoot() {
		return
	}
	d, err := p.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	jp, err := jsonpatch.DecodePatch(d)
	if err != nil {
		t.Fatalf("DecodePatch(%s): %v", d, err)
	}
	doc, err := from.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	out, err := jp.Apply(doc)
	if err != nil {
		t.Errorf("json-patch Apply(%s, %s): %v", doc, d, err)
		return
	}
	if got := mustJSON(t, string(out)); !ir.Equal(got, to) {
		t.Errorf("json-patch Apply(%s, %s) = %s, want %s", doc, d, out, js(to))
	}
}

func TestDiffDoesNotAlias(t *testing.T) {
	from := mustJSON(t, `{}`)
	to := mustJSON(t, `{"a":{"b":1}}`)
	p := Diff(from, to)
	to.Values[0].Values[0] = ir.FromInt(2)
	if got, want := p.String(), `[{"op":"add","path":"/a","value":{"b":1}}]`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDiffArrayByIndex(t *testing.T) {
	from := mustJSON(t, `["bar","baz"]`)
	to := mustJSON(t, `["bar","qux","baz"]`)
	p := DiffArrayByIndex(nil, nil, from, to, doDiff)
	want := `[{"op":"replace","path":"/1","value":"qux"},{"op":"add","path":"/2","value":"baz"}]`
	if got := p.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
