package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Server accepts WebSocket connections and relays text messages between
// them. The accept loop is never blocked by any individual session:
// each upgraded connection runs its receive loop on its own goroutine.
type Server struct {
	cfg    ServerConfig
	logger *slog.Logger

	registry    *Registry
	broadcaster *Broadcaster
	upgrader    websocket.Upgrader

	httpSrv  *http.Server
	listener net.Listener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool
}

// NewServer creates a relay server.
func NewServer(cfg ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	registry := NewRegistry()

	return &Server{
		cfg:         cfg,
		logger:      logger,
		registry:    registry,
		broadcaster: NewBroadcaster(registry, logger),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: cfg.HandshakeTimeout,
			// The relay has no origin policy; any client may connect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start binds the listen address and begins accepting connections. A
// bind failure is returned immediately and leaves no server state
// running.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(ctx)

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		s.cancel()
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return err
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Path, s.handleUpgrade)
	if s.cfg.HealthEnabled {
		mux.HandleFunc(s.cfg.HealthPath, s.handleHealth)
	}
	s.httpSrv = &http.Server{Handler: mux}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpSrv.Serve(ln); err != http.ErrServerClosed {
			s.logger.Error("listener stopped", "error", err)
		}
	}()

	s.logger.Info("relay server listening",
		"addr", ln.Addr().String(),
		"path", s.cfg.Path,
		"max_conns", s.cfg.MaxConns,
	)

	return nil
}

// Stop closes the listener, terminates every live session, and waits
// for all session goroutines to finish or ctx to expire.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.mu.Unlock()

	s.logger.Info("stopping relay server")
	s.cancel()

	// Stop accepting. Upgraded connections are hijacked from the HTTP
	// server, so they are closed via their sessions below.
	if err := s.httpSrv.Close(); err != nil {
		s.logger.Warn("listener close", "error", err)
	}

	for _, sess := range s.registry.Snapshot() {
		sess.Terminate()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("relay server stopped")
	case <-ctx.Done():
		s.logger.Warn("shutdown timeout, abandoning session goroutines")
	}

	return nil
}

// Addr returns the bound listen address, useful when the configured
// port is 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.ListenAddr
	}
	return s.listener.Addr().String()
}

// Stats returns a point-in-time view of the server.
func (s *Server) Stats() ServerStats {
	return ServerStats{
		Connected: s.registry.Len(),
		Broadcast: s.broadcaster.Stats(),
	}
}

// handleUpgrade performs the WebSocket handshake and runs the session's
// receive loop. A handshake failure discards the connection without any
// registry side effects.
func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if s.ctx.Err() != nil {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	if s.registry.Len() >= s.cfg.MaxConns {
		s.logger.Warn("rejecting connection, at capacity",
			"remote", r.RemoteAddr,
			"max_conns", s.cfg.MaxConns,
		)
		http.Error(w, "server at connection capacity", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		s.logger.Warn("handshake failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	conn.SetReadLimit(s.cfg.MaxMessageBytes)

	s.wg.Add(1)
	defer s.wg.Done()

	s.serveSession(newSession(conn, s.cfg.WriteTimeout))
}

// serveSession owns a session from join to leave.
func (s *Server) serveSession(sess *Session) {
	s.registry.Join(sess)
	s.logger.Info("client connected",
		"session", sess.ID(),
		"remote", sess.RemoteAddr(),
		"clients", s.registry.Len(),
	)

	defer func() {
		sess.Terminate()
		s.registry.Leave(sess)
		s.logger.Info("client disconnected",
			"session", sess.ID(),
			"clients", s.registry.Len(),
		)
	}()

	for {
		data, err := sess.Receive()
		if err != nil {
			switch {
			case sess.Closed():
				// Terminated locally (shutdown or delivery failure).
				s.logger.Debug("session terminated", "session", sess.ID())
			case websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived):
				s.logger.Debug("peer closed connection", "session", sess.ID())
			default:
				s.logger.Warn("read error", "session", sess.ID(), "error", err)
			}
			return
		}

		s.broadcaster.Broadcast(sess, data)
	}
}

// handleHealth reports server status and the current session count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := struct {
		Status  string `json:"status"`
		Clients int    `json:"clients"`
	}{
		Status:  "healthy",
		Clients: s.registry.Len(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
