package replica

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/patch"
	"github.com/signadot/docsync/pointer"
	"github.com/signadot/docsync/system/syncd/api"
	"github.com/signadot/docsync/system/syncd/server"
	"go.lsp.dev/jsonrpc2"
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

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func atSeq(n int64) func(int64, *ir.Node) bool {
	return func(seq int64, _ *ir.Node) bool { return seq >= n }
}

func TestConverge(t *testing.T) {
	srv, err := server.New(&server.Spec{
		Initial: mustJSON(t, `{"items":[]}`),
		Log:     quietLog(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.StartTCP("127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	defer srv.StopTCP()

	ctx := testContext(t)
	var replicas []*Replica
	for _, name := range []string{"a", "b"} {
		r, err := Dial(ctx, srv.TCPAddr(), &Options{Name: name, Log: quietLog()})
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()
		replicas = append(replicas, r)
	}

	var last int64
	for i := range 20 {
		seq, _, err := srv.Publish(func(doc *ir.Node) (*ir.Node, error) {
			items := ir.Get(doc, "items")
			items.Values = append(items.Values, ir.FromInt(int64(i)))
			if i%3 == 0 {
				items.Values = items.Values[1:]
			}
			return nil, nil
		})
		if err != nil {
			t.Fatal(err)
		}
		last = seq
	}

	want := srv.Snapshot()
	if want.Seq != last {
		t.Fatalf("server at %d, last publish %d", want.Seq, last)
	}
	for _, r := range replicas {
		seq, doc, err := r.WaitFor(ctx, atSeq(last))
		if err != nil {
			t.Fatal(err)
		}
		if seq != want.Seq || !ir.Equal(doc, want.Doc) {
			t.Errorf("replica at %d: %s, want %d: %s", seq, js(doc), want.Seq, js(want.Doc))
		}
	}
}

// fakeServer answers snapshot calls with a settable snapshot and lets
// the test send any notification.
type fakeServer struct {
	conn  jsonrpc2.Conn
	mu    sync.Mutex
	snap  api.Snapshot
	calls atomic.Int32
}

func (f *fakeServer) set(seq int64, doc *ir.Node) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = api.Snapshot{Seq: seq, Doc: doc}
}

func (f *fakeServer) send(t *testing.T, seq int64, p patch.Patch) {
	t.Helper()
	if err := f.conn.Notify(context.Background(), api.MethodPatch, &api.PatchEvent{Seq: seq, Patch: p}); err != nil {
		t.Fatal(err)
	}
}

func startFake(t *testing.T, seq int64, doc *ir.Node) (*fakeServer, *Replica) {
	t.Helper()
	sc, cc := net.Pipe()
	f := &fakeServer{conn: jsonrpc2.NewConn(jsonrpc2.NewStream(sc))}
	f.set(seq, doc)
	f.conn.Go(context.Background(), func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() != api.MethodSnapshot {
			return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
		}
		f.calls.Add(1)
		f.mu.Lock()
		snap := f.snap
		f.mu.Unlock()
		return reply(ctx, &snap, nil)
	})
	t.Cleanup(func() { f.conn.Close() })

	r, err := New(testContext(t), cc, &Options{Log: quietLog()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	return f, r
}

func addOp(path string, v *ir.Node) patch.Op {
	return patch.Add{Path: pointer.MustParse(path), Value: v}
}

func TestApplyInOrder(t *testing.T) {
	f, r := startFake(t, 5, mustJSON(t, `{}`))
	if r.Seq() != 5 {
		t.Fatalf("initial seq %d", r.Seq())
	}
	f.send(t, 3, patch.Patch{addOp("/stale", ir.FromInt(3))})
	f.send(t, 6, patch.Patch{addOp("/a", ir.FromInt(1))})
	f.send(t, 7, patch.Patch{addOp("/b", ir.FromInt(2))})

	seq, doc, err := r.WaitFor(testContext(t), atSeq(7))
	if err != nil {
		t.Fatal(err)
	}
	if js(doc) != `{"a":1,"b":2}` || seq != 7 {
		t.Errorf("got %d %s", seq, js(doc))
	}
	if n := f.calls.Load(); n != 1 {
		t.Errorf("got %d snapshot calls", n)
	}
}

func TestResyncOnFailedApply(t *testing.T) {
	f, r := startFake(t, 5, mustJSON(t, `{"a":1}`))
	f.set(6, mustJSON(t, `{"b":2}`))
	f.send(t, 6, patch.Patch{patch.Remove{Path: pointer.MustParse("/missing")}})
	f.send(t, 7, patch.Patch{addOp("/c", ir.FromInt(3))})

	seq, doc, err := r.WaitFor(testContext(t), atSeq(7))
	if err != nil {
		t.Fatal(err)
	}
	if js(doc) != `{"b":2,"c":3}` || seq != 7 {
		t.Errorf("got %d %s", seq, js(doc))
	}
	if n := f.calls.Load(); n != 2 {
		t.Errorf("got %d snapshot calls", n)
	}
}

func TestResyncOnGap(t *testing.T) {
	f, r := startFake(t, 1, mustJSON(t, `[]`))
	f.set(4, mustJSON(t, `[1,2,3]`))
	f.send(t, 4, patch.Patch{addOp("/-", ir.FromInt(4))})

	seq, doc, err := r.WaitFor(testContext(t), atSeq(4))
	if err != nil {
		t.Fatal(err)
	}
	// the snapshot already holds 4, so the queued notification is stale
	if js(doc) != `[1,2,3]` || seq != 4 {
		t.Errorf("got %d %s", seq, js(doc))
	}
	f.send(t, 5, patch.Patch{addOp("/-", ir.FromInt(4))})
	_, doc, err = r.WaitFor(testContext(t), atSeq(5))
	if err != nil {
		t.Fatal(err)
	}
	if js(doc) != `[1,2,3,4]` {
		t.Errorf("got %s", js(doc))
	}
}

func TestClosed(t *testing.T) {
	f, r := startFake(t, 0, mustJSON(t, `null`))
	f.conn.Close()
	_, _, err := r.WaitFor(testContext(t), atSeq(1))
	if err == nil || err == context.DeadlineExceeded {
		t.Errorf("got %v", err)
	}
}

func TestServerStop(t *testing.T) {
	srv, err := server.New(&server.Spec{
		Initial: mustJSON(t, `{"n":0}`),
		Log:     quietLog(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.StartTCP("127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	ctx := testContext(t)
	r, err := Dial(ctx, srv.TCPAddr(), &Options{Name: "stop", Log: quietLog()})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err := srv.StopTCP(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-r.Done():
	case <-ctx.Done():
		t.Fatal("replica still connected")
	}
	seq, doc, err := r.WaitFor(ctx, atSeq(1))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("got %v, want %v", err, ErrClosed)
	}
	if seq != 0 || js(doc) != `{"n":0}` {
		t.Errorf("kept %d %s", seq, js(doc))
	}
}

func TestSnapshotParamsSent(t *testing.T) {
	sc, cc := net.Pipe()
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(sc))
	names := make(chan string, 1)
	conn.Go(context.Background(), func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		var params api.SnapshotParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			t.Error(err)
		}
		names <- params.Session
		return reply(ctx, &api.Snapshot{Seq: 1, Doc: ir.FromInt(1)}, nil)
	})
	defer conn.Close()

	r, err := New(testContext(t), cc, &Options{Name: "r1", Log: quietLog()})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if got := <-names; got != "r1" {
		t.Errorf("got session %q", got)
	}
	if seq, doc := r.Snapshot(); seq != 1 || js(doc) != `1` {
		t.Errorf("got %d %s", seq, js(doc))
	}
}
