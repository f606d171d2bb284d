package main

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/parse"
)

func mustJSON(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := ir.FromJSON([]byte(s))
	if err != nil {
		t.Fatalf("FromJSON(%q): %v", s, err)
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

type sourceItem struct {
	doc string
	err error
}

func sliceSource(t *testing.T, items []sourceItem) iter.Seq2[*ir.Node, error] {
	return func(yield func(*ir.Node, error) bool) {
		for _, it := range items {
			var doc *ir.Node
			if it.err == nil {
				doc = mustJSON(t, it.doc)
			}
			if !yield(doc, it.err) {
				return
			}
		}
	}
}

func TestFollow(t *testing.T) {
	src := sliceSource(t, []sourceItem{
		{err: errors.New("not yet")},
		{doc: `{"a":1}`},
		{doc: `{"a":1}`},
		{doc: `{"a":2}`},
		{err: errors.New("garbled")},
		{doc: `{"a":2,"b":[true]}`},
	})
	buf := bytes.NewBuffer(nil)
	if err := follow(&MainConfig{}, buf, true, src); err != nil {
		t.Fatal(err)
	}
	var ops []string
	seps := 0
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		switch {
		case line == "---":
			seps++
		case strings.HasPrefix(line, "# difference found at "):
		default:
			ops = append(ops, line)
		}
	}
	want := []string{`~ /a 2`, `+ /b [true]`}
	if strings.Join(ops, "\n") != strings.Join(want, "\n") || seps != 1 {
		t.Errorf("got output:\n%s", buf)
	}
}

func TestCommandSource(t *testing.T) {
	ctx := context.Background()
	var got []string
	for doc, err := range commandSource(ctx, `echo '{"n":[1,2]}'`, time.Millisecond, 2, nil) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, js(doc))
	}
	if len(got) != 2 || got[0] != `{"n":[1,2]}` || got[1] != got[0] {
		t.Errorf("got %v", got)
	}

	for _, err := range commandSource(ctx, `exit 3`, time.Millisecond, 1, nil) {
		if err == nil {
			t.Error("expected command error")
		}
	}
	for _, err := range commandSource(ctx, `echo 'a: [x]'`, time.Millisecond, 1, []parse.ParseOption{parse.ParseYAML()}) {
		if err != nil {
			t.Errorf("yaml output: %v", err)
		}
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{"v":1}`), 0644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	next, stop := iter.Pull2(fileSource(ctx, path, nil))
	defer stop()

	doc, err, ok := next()
	if !ok || err != nil || js(doc) != `{"v":1}` {
		t.Fatalf("first: %v %v %v", js(doc), err, ok)
	}

	// write to a temporary file and rename, as editors do
	tmp := filepath.Join(filepath.Dir(path), "doc.json.tmp")
	if err := os.WriteFile(tmp, []byte(`{"v":2}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	for {
		doc, err, ok := next()
		if !ok {
			t.Fatal("source ended before the change was seen")
		}
		if err == nil && js(doc) == `{"v":2}` {
			break
		}
	}
}
