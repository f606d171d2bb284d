package server

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/signadot/docsync/debug"
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/patch"
	"github.com/signadot/docsync/state"
	"github.com/signadot/docsync/system/syncd/api"
)

// Server represents the syncd server.
type Server struct {
	Spec    Spec
	Metrics *Metrics

	holder *state.Holder

	// mu orders changes, snapshots and listener start and stop, so a
	// snapshot at seq n is always followed by the notification for n+1.
	mu  sync.Mutex
	seq int64

	// TCP listener for session protocol
	tcpListener *TCPListener
}

// New creates a new Server instance.  If spec.Store holds a snapshot,
// the server resumes from it and spec.Initial is ignored.
func New(spec *Spec) (*Server, error) {
	if spec.Log == nil {
		spec.Log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slogLevel(),
		}))
	}
	if spec.Config == nil {
		spec.Config = DefaultConfig()
	}

	initial, seq := spec.Initial, int64(0)
	if spec.Store != nil {
		snap, err := spec.Store.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load state: %w", err)
		}
		if snap != nil {
			initial, seq = snap.State, snap.Seq
			spec.Log.Info("resumed state", "path", spec.Store.Path(), "seq", seq, "timestamp", snap.Timestamp)
		}
	}
	if initial == nil {
		initial = ir.Null()
	}
	holder, err := state.New(spec.Validator, initial, state.WithLogger(spec.Log))
	if err != nil {
		return nil, err
	}

	s := &Server{
		Spec:    *spec,
		Metrics: NewMetrics(spec.Registry),
		holder:  holder,
		seq:     seq,
	}
	s.Metrics.Seq.Set(float64(seq))
	return s, nil
}

func slogLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Publish runs m on a copy of the served document and, if the validated
// outcome differs, commits it and sends the operations to every session.
// It returns the sequence number of the served document and the
// published operations, which must not be modified.
func (s *Server) Publish(m state.Mutator) (int64, patch.Patch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.holder.MutateAndDiff(m)
	if err != nil {
		return s.seq, nil, err
	}
	if len(p) == 0 {
		return s.seq, nil, nil
	}
	return s.commit(p), p, nil
}

// Replace publishes the change from the served document to doc.
func (s *Server) Replace(doc *ir.Node) (int64, patch.Patch, error) {
	return s.Publish(func(*ir.Node) (*ir.Node, error) {
		return doc, nil
	})
}

// Apply applies p to the served document and sends it unchanged to
// every session.
func (s *Server) Apply(p patch.Patch) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.holder.ApplyIncoming(p); err != nil {
		return s.seq, err
	}
	if len(p) == 0 {
		return s.seq, nil
	}
	return s.commit(p), nil
}

// commit is called with s.mu held once the holder has accepted p.
func (s *Server) commit(p patch.Patch) int64 {
	s.seq++
	ev := &api.PatchEvent{Seq: s.seq, Patch: p}
	if debug.Sync() {
		debug.Logf("syncd: publish %d: %s\n", ev.Seq, p)
	}
	if s.Spec.Store != nil {
		if err := s.Spec.Store.Save(s.seq, s.holder.Snapshot()); err != nil {
			s.Spec.Log.Error("failed to save state", "seq", s.seq, "error", err)
		}
	}
	s.Metrics.Patches.Inc()
	s.Metrics.Operations.Add(float64(len(p)))
	s.Metrics.Seq.Set(float64(s.seq))
	if s.tcpListener != nil {
		s.tcpListener.broadcast(ev)
	}
	s.Spec.Log.Debug("published", "seq", s.seq, "ops", len(p))
	return s.seq
}

// Snapshot returns a copy of the served document and its sequence
// number.
func (s *Server) Snapshot() api.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return api.Snapshot{Seq: s.seq, Doc: s.holder.Snapshot()}
}

// StartTCP starts the TCP listener on the given address.
// The listener runs in a separate goroutine.
func (s *Server) StartTCP(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tcpListener != nil {
		return fmt.Errorf("TCP listener already running")
	}

	listener, err := NewTCPListener(addr, s)
	if err != nil {
		return err
	}
	s.tcpListener = listener

	go func() {
		if err := listener.Serve(); err != nil {
			s.Spec.Log.Error("TCP listener error", "error", err)
		}
	}()
	return nil
}

// StopTCP stops the TCP listener and closes every session.
func (s *Server) StopTCP() error {
	s.mu.Lock()
	listener := s.tcpListener
	s.tcpListener = nil
	s.mu.Unlock()

	if listener == nil {
		return nil
	}
	return listener.Close()
}

// TCPAddr returns the TCP listener's address, or "" if not running.
func (s *Server) TCPAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tcpListener == nil {
		return ""
	}
	return s.tcpListener.Addr().String()
}
