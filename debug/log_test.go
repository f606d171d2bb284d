package debug

import (
	"io"
	"os"
	"testing"
)

type doc struct{ s string }

func (d *doc) MarshalJSON() ([]byte, error) { return []byte(d.s), nil }

func TestLogf(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	stderr := os.Stderr
	os.Stderr = w
	Logf("diff %v -> %v: %s %d\n", &doc{`{"a":1}`}, &doc{`[]`}, "ok", 3)
	os.Stderr = stderr
	w.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if want := "diff {\"a\":1} -> []: ok 3\n"; string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
