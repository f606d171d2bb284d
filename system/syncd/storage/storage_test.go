package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signadot/docsync/ir"
)

func TestSaveLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "sub", "state.json"))
	snap, err := s.Load()
	if err != nil || snap != nil {
		t.Fatalf("empty store: %v %v", snap, err)
	}
	doc, err := ir.FromJSON([]byte(`{"b":[1,2],"a":null}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(7, doc); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(8, doc); err != nil {
		t.Fatal(err)
	}
	snap, err = s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Seq != 8 || !ir.Equal(snap.State, doc) || snap.Timestamp == "" {
		t.Errorf("got %+v", snap)
	}
	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "state.json")
	for _, content := range []string{`{`, `{"seq":"1","state":{}}`, `{"seq":1}`} {
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := New(p).Load(); err == nil {
			t.Errorf("%s: no error", content)
		}
	}
}
