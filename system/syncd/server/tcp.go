package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/signadot/docsync/system/syncd/api"
)

// TCPListener manages TCP connections for the session protocol.
type TCPListener struct {
	listener net.Listener
	server   *Server

	// Session management
	sessions   map[string]*Session
	sessionsMu sync.RWMutex

	// Shutdown
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewTCPListener creates a new TCP listener.
func NewTCPListener(addr string, server *Server) (*TCPListener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return &TCPListener{
		listener: listener,
		server:   server,
		sessions: make(map[string]*Session),
	}, nil
}

// Addr returns the listener's network address.
func (l *TCPListener) Addr() net.Addr {
	return l.listener.Addr()
}

// Serve accepts connections and creates sessions.
// Blocks until Close is called or an error occurs.
func (l *TCPListener) Serve() error {
	l.server.Spec.Log.Info("TCP listener started", "addr", l.listener.Addr().String())

	for {
		conn, err := l.listener.Accept()
		if err != nil {
			if l.closed.Load() {
				return nil // Normal shutdown
			}
			l.server.Spec.Log.Error("accept error", "error", err)
			continue
		}

		l.wg.Add(1)
		go l.handleConnection(conn)
	}
}

// handleConnection creates and runs a session for the connection.
func (l *TCPListener) handleConnection(conn net.Conn) {
	defer l.wg.Done()

	sessionID := uuid.NewString()
	l.server.Spec.Log.Debug("new TCP connection", "session", sessionID, "remote", conn.RemoteAddr().String())

	session := NewSession(sessionID, conn, &SessionConfig{
		Server:         l.server,
		Log:            l.server.Spec.Log,
		OutgoingBuffer: l.server.Spec.Config.SessionBuffer,
	})

	// A session is registered before it reads its first request, so it
	// receives every notification following the snapshot it asks for.
	l.sessionsMu.Lock()
	if l.closed.Load() {
		l.sessionsMu.Unlock()
		conn.Close()
		return
	}
	l.sessions[sessionID] = session
	l.sessionsMu.Unlock()
	l.server.Metrics.Sessions.Inc()

	if err := session.Run(context.Background()); err != nil {
		l.server.Spec.Log.Error("session error", "session", sessionID, "error", err)
	}

	l.sessionsMu.Lock()
	delete(l.sessions, sessionID)
	l.sessionsMu.Unlock()
	l.server.Metrics.Sessions.Dec()

	l.server.Spec.Log.Debug("session ended", "session", sessionID)
}

// broadcast queues ev on every session, closing those whose queue is
// full.
func (l *TCPListener) broadcast(ev *api.PatchEvent) {
	var slow []*Session
	l.sessionsMu.RLock()
	for _, session := range l.sessions {
		if !session.enqueue(ev) {
			slow = append(slow, session)
		}
	}
	l.sessionsMu.RUnlock()

	for _, session := range slow {
		l.server.Spec.Log.Warn("dropping slow session", "session", session.ID, "seq", ev.Seq)
		l.server.Metrics.Dropped.Inc()
		session.Close()
	}
}

// Close shuts down the listener and all sessions.
func (l *TCPListener) Close() error {
	if l.closed.Swap(true) {
		return nil // Already closed
	}

	// Close listener to stop accepting new connections
	if err := l.listener.Close(); err != nil {
		l.server.Spec.Log.Error("error closing listener", "error", err)
	}

	// Close all active sessions
	l.sessionsMu.RLock()
	for _, session := range l.sessions {
		session.Close()
	}
	l.sessionsMu.RUnlock()

	// Wait for all sessions to complete
	l.wg.Wait()

	l.server.Spec.Log.Info("TCP listener stopped")
	return nil
}

// SessionCount returns the number of active sessions.
func (l *TCPListener) SessionCount() int {
	l.sessionsMu.RLock()
	defer l.sessionsMu.RUnlock()
	return len(l.sessions)
}
