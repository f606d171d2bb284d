package server

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/patch"
	"github.com/signadot/docsync/schema"
	"github.com/signadot/docsync/system/syncd/storage"
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

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func gathered(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		m := mf.GetMetric()[0]
		if c := m.GetCounter(); c != nil {
			return c.GetValue()
		}
		return m.GetGauge().GetValue()
	}
	t.Fatalf("no metric %s", name)
	return 0
}

func counterSchema(t *testing.T) schema.Validator {
	t.Helper()
	s, err := schema.ParseSchema(mustJSON(t, `{
		"type": "object",
		"required": ["count"],
		"properties": {"count": {"type": "integer", "minimum": 0}}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func setCount(n int64) func(*ir.Node) (*ir.Node, error) {
	return func(doc *ir.Node) (*ir.Node, error) {
		doc.Set("count", ir.FromInt(n))
		return nil, nil
	}
}

func TestPublish(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, err := New(&Spec{
		Validator: counterSchema(t),
		Initial:   mustJSON(t, `{"count":0}`),
		Log:       quietLog(),
		Registry:  reg,
	})
	if err != nil {
		t.Fatal(err)
	}
	seq, p, err := s.Publish(setCount(2))
	if err != nil {
		t.Fatal(err)
	}
	if seq != 1 || js(p.Node()) != `[{"op":"replace","path":"/count","value":2}]` {
		t.Errorf("got seq %d patch %s", seq, p)
	}

	// no change, no new sequence number
	seq, p, err = s.Publish(setCount(2))
	if err != nil || seq != 1 || len(p) != 0 {
		t.Errorf("unchanged: got %d %s %v", seq, p, err)
	}

	seq, _, err = s.Publish(setCount(-1))
	var verr *schema.ValidationError
	if !errors.As(err, &verr) || seq != 1 {
		t.Errorf("invalid: got %d %v", seq, err)
	}

	seq, err = s.Apply(patch.Patch{patch.Replace{Path: []string{"count"}, Value: ir.FromInt(3)}})
	if err != nil || seq != 2 {
		t.Errorf("apply: got %d %v", seq, err)
	}
	seq, err = s.Apply(patch.Patch{patch.Remove{Path: []string{"count"}}})
	if !errors.Is(err, schema.ErrInvalid) || seq != 2 {
		t.Errorf("apply invalid: got %d %v", seq, err)
	}

	snap := s.Snapshot()
	if snap.Seq != 2 || js(snap.Doc) != `{"count":3}` {
		t.Errorf("snapshot: got %d %s", snap.Seq, js(snap.Doc))
	}
	if got := gathered(t, reg, "docsync_server_patches_published_total"); got != 2 {
		t.Errorf("patches metric: got %v", got)
	}
	if got := gathered(t, reg, "docsync_server_seq"); got != 2 {
		t.Errorf("seq metric: got %v", got)
	}
}

func TestInitialInvalid(t *testing.T) {
	_, err := New(&Spec{
		Validator: counterSchema(t),
		Initial:   mustJSON(t, `{}`),
		Log:       quietLog(),
	})
	if !errors.Is(err, schema.ErrInvalid) {
		t.Errorf("got %v", err)
	}
}

func TestResume(t *testing.T) {
	store := storage.New(filepath.Join(t.TempDir(), "state.json"))
	spec := func() *Spec {
		return &Spec{
			Validator: counterSchema(t),
			Initial:   mustJSON(t, `{"count":0}`),
			Store:     store,
			Log:       quietLog(),
		}
	}
	s, err := New(spec())
	if err != nil {
		t.Fatal(err)
	}
	for i := int64(1); i <= 3; i++ {
		if _, _, err := s.Publish(setCount(i * 10)); err != nil {
			t.Fatal(err)
		}
	}

	s, err = New(spec())
	if err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.Seq != 3 || js(snap.Doc) != `{"count":30}` {
		t.Errorf("got %d %s", snap.Seq, js(snap.Doc))
	}
	seq, _, err := s.Publish(setCount(40))
	if err != nil || seq != 4 {
		t.Errorf("got %d %v", seq, err)
	}
}
