package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"sync"

	"github.com/signadot/docsync/system/syncd/api"
	"go.lsp.dev/jsonrpc2"
)

// Session represents one replica connection.  Requests are answered on
// the connection's read loop; notifications are written by a separate
// goroutine draining the outgoing queue.
type Session struct {
	ID     string
	conn   jsonrpc2.Conn
	server *Server
	log    *slog.Logger

	outgoing chan *api.PatchEvent
	done     chan struct{}

	closeOnce sync.Once
}

// SessionConfig contains configuration for creating a session.
type SessionConfig struct {
	Server         *Server
	Log            *slog.Logger
	OutgoingBuffer int // buffer size for outgoing channel (default 100)
}

// NewSession creates a new session for the given connection.
func NewSession(id string, conn net.Conn, cfg *SessionConfig) *Session {
	bufSize := cfg.OutgoingBuffer
	if bufSize <= 0 {
		bufSize = 100
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		ID:       id,
		conn:     jsonrpc2.NewConn(jsonrpc2.NewStream(conn)),
		server:   cfg.Server,
		log:      log.With("session", id),
		outgoing: make(chan *api.PatchEvent, bufSize),
		done:     make(chan struct{}),
	}
}

// Run serves the session and blocks until the connection ends or Close
// is called.
func (s *Session) Run(ctx context.Context) error {
	s.conn.Go(ctx, s.handle)

	var wg sync.WaitGroup
	wg.Go(func() {
		s.writer(ctx)
	})

	select {
	case <-s.conn.Done():
	case <-s.done:
	}
	s.Close()
	<-s.conn.Done()
	wg.Wait()

	s.log.Debug("connection closed", "reason", s.conn.Err())
	return nil
}

// Close signals the session to shut down.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return s.conn.Close()
}

// enqueue queues ev without blocking.  It reports false if the queue is
// full.
func (s *Session) enqueue(ev *api.PatchEvent) bool {
	select {
	case <-s.done:
		return true
	default:
	}
	select {
	case s.outgoing <- ev:
		return true
	default:
		return false
	}
}

// writer sends queued notifications in order.
func (s *Session) writer(ctx context.Context) {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.outgoing:
			if err := s.conn.Notify(ctx, api.MethodPatch, ev); err != nil {
				select {
				case <-s.done:
					return
				default:
				}
				s.log.Error("failed to send patch", "seq", ev.Seq, "error", err)
				s.Close()
				return
			}
		}
	}
}

// handle answers requests.  It runs on the connection's read loop and
// must not block on the peer.
func (s *Session) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case api.MethodSnapshot:
		var params api.SnapshotParams
		if raw := req.Params(); len(raw) != 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &params); err != nil {
				apiErr := api.NewError(api.CodeInvalidParams, "invalid snapshot params: %v", err)
				return reply(ctx, nil, apiErr.RPCError(jsonrpc2.InvalidParams))
			}
		}
		select {
		case <-s.done:
			apiErr := api.NewError(api.CodeUnavailable, "session closing")
			return reply(ctx, nil, apiErr.RPCError(jsonrpc2.InternalError))
		default:
		}
		snap := s.server.Snapshot()
		s.server.Metrics.Snapshots.Inc()
		s.log.Debug("snapshot", "client", params.Session, "seq", snap.Seq)
		return reply(ctx, &snap, nil)
	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}
