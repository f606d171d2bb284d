// Package replica keeps a local copy of a document served by a syncd
// server.
package replica

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/signadot/docsync/debug"
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/schema"
	"github.com/signadot/docsync/state"
	"github.com/signadot/docsync/system/syncd/api"
	"go.lsp.dev/jsonrpc2"
)

// ErrClosed is returned once the connection to the server has ended.
var ErrClosed = errors.New("replica connection closed")

// Options configure a Replica.  The zero value is usable.
type Options struct {
	// Validator checks every document the replica commits.
	Validator schema.Validator
	// Name identifies the replica in server logs.
	Name     string
	Log      *slog.Logger
	Registry prometheus.Registerer
}

// Replica follows the document of one server connection.
type Replica struct {
	conn    jsonrpc2.Conn
	log     *slog.Logger
	opts    Options
	metrics *Metrics

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	holder    *state.Holder
	seq       int64
	resyncing bool
	pending   []*api.PatchEvent
	err       error
	// changed is closed and replaced whenever the document changes.
	changed chan struct{}
}

// Dial connects to the server at addr and returns once the first
// snapshot has been received.
func Dial(ctx context.Context, addr string, opts *Options) (*Replica, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return New(ctx, conn, opts)
}

// New runs the replica protocol over rwc and returns once the first
// snapshot has been received.  ctx bounds only that first exchange.
func New(ctx context.Context, rwc io.ReadWriteCloser, opts *Options) (*Replica, error) {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	r := &Replica{
		conn:      jsonrpc2.NewConn(jsonrpc2.NewStream(rwc)),
		log:       log.With("replica", opts.Name),
		opts:      *opts,
		metrics:   NewMetrics(opts.Registry),
		resyncing: true,
		changed:   make(chan struct{}),
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.conn.Go(r.ctx, r.handle)
	go func() {
		<-r.conn.Done()
		r.cancel()
		r.mu.Lock()
		r.notifyLocked()
		r.mu.Unlock()
	}()

	if err := r.resync(ctx); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// Close ends the connection.
func (r *Replica) Close() error {
	err := r.conn.Close()
	<-r.conn.Done()
	return err
}

// Done is closed when the connection has ended.
func (r *Replica) Done() <-chan struct{} {
	return r.conn.Done()
}

// Err returns the error which stopped the replica, if any.
func (r *Replica) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Seq returns the sequence number of the local document.
func (r *Replica) Seq() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Snapshot returns the sequence number and a copy of the local
// document.
func (r *Replica) Snapshot() (int64, *ir.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq, r.holder.Snapshot()
}

// WaitFor blocks until cond holds for the local document, and returns
// the document it held for.  cond receives a copy.
func (r *Replica) WaitFor(ctx context.Context, cond func(seq int64, doc *ir.Node) bool) (int64, *ir.Node, error) {
	for {
		r.mu.Lock()
		changed := r.changed
		seq, doc := r.seq, r.holder.Snapshot()
		r.mu.Unlock()

		if cond(seq, doc) {
			return seq, doc, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return seq, doc, ctx.Err()
		case <-r.conn.Done():
			if err := r.Err(); err != nil {
				return seq, doc, err
			}
			return seq, doc, ErrClosed
		}
	}
}

// handle receives notifications.  It runs on the connection's read loop
// and so never calls the server itself.
func (r *Replica) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case api.MethodPatch:
		ev := &api.PatchEvent{}
		if err := json.Unmarshal(req.Params(), ev); err != nil {
			r.log.Error("invalid patch event", "error", err)
			r.mu.Lock()
			r.startResyncLocked()
			r.mu.Unlock()
			return reply(ctx, nil, nil)
		}
		r.mu.Lock()
		r.receiveLocked(ev)
		r.mu.Unlock()
		return reply(ctx, nil, nil)
	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (r *Replica) receiveLocked(ev *api.PatchEvent) {
	if r.resyncing {
		r.pending = append(r.pending, ev)
		return
	}
	switch {
	case ev.Seq <= r.seq:
		r.log.Debug("ignoring stale patch", "seq", ev.Seq, "have", r.seq)
		return
	case ev.Seq > r.seq+1:
		r.log.Warn("sequence gap", "seq", ev.Seq, "have", r.seq)
		r.startResyncLocked()
		r.pending = append(r.pending, ev)
		return
	}
	if err := r.holder.ApplyIncoming(ev.Patch); err != nil {
		r.log.Warn("failed to apply patch", "seq", ev.Seq, "error", err)
		r.metrics.ApplyFailures.Inc()
		r.startResyncLocked()
		return
	}
	if debug.Sync() {
		debug.Logf("replica: applied %d: %s\n", ev.Seq, ev.Patch)
	}
	r.seq = ev.Seq
	r.metrics.Applied.Inc()
	r.metrics.Seq.Set(float64(r.seq))
	r.notifyLocked()
}

func (r *Replica) startResyncLocked() {
	if r.resyncing {
		return
	}
	r.resyncing = true
	r.metrics.Resyncs.Inc()
	go func() {
		if err := r.resync(r.ctx); err != nil {
			r.log.Error("resync failed", "error", err)
			r.conn.Close()
		}
	}()
}

// resync replaces the local document with a server snapshot, then
// replays the notifications received in the meantime.
func (r *Replica) resync(ctx context.Context) error {
	var snap api.Snapshot
	if _, err := r.conn.Call(ctx, api.MethodSnapshot, &api.SnapshotParams{Session: r.opts.Name}, &snap); err != nil {
		err = fmt.Errorf("snapshot: %w", api.FromRPC(err))
		r.fail(err)
		return err
	}
	doc := snap.Doc
	if doc == nil {
		doc = ir.Null()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.holder == nil {
		h, err := state.New(r.opts.Validator, doc, state.WithLogger(r.log))
		if err != nil {
			r.err = err
			return err
		}
		r.holder = h
	} else if err := r.holder.Reset(doc); err != nil {
		r.err = err
		return err
	}
	r.seq = snap.Seq
	r.resyncing = false
	r.metrics.Seq.Set(float64(r.seq))
	r.log.Debug("synced", "seq", r.seq, "pending", len(r.pending))

	pending := r.pending
	r.pending = nil
	for _, ev := range pending {
		r.receiveLocked(ev)
	}
	r.notifyLocked()
	return nil
}

func (r *Replica) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
	}
}

func (r *Replica) notifyLocked() {
	close(r.changed)
	r.changed = make(chan struct{})
}
