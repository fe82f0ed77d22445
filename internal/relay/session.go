package relay

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Session represents one connected client after a completed handshake.
//
// A session's inbound and outbound directions are independent: Receive
// runs on the session's own goroutine while Send may be called
// concurrently from any broadcast fan-out. Writes are serialized by an
// internal mutex; nothing here ever holds the registry lock.
type Session struct {
	id           uuid.UUID
	conn         *websocket.Conn
	writeTimeout time.Duration

	// Write serialization
	writeMu sync.Mutex

	// State
	mu     sync.Mutex
	closed bool
}

// newSession wraps an upgraded WebSocket connection.
func newSession(conn *websocket.Conn, writeTimeout time.Duration) *Session {
	return &Session{
		id:           uuid.New(),
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

// ID returns the session's identity.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// RemoteAddr returns the peer's network address.
func (s *Session) RemoteAddr() string {
	return s.conn.RemoteAddr().String()
}

// Receive blocks until one whole text message arrives, the peer closes,
// or an I/O error occurs. Messages are never partially delivered.
func (s *Session) Receive() ([]byte, error) {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Send transmits one whole text message to this session's peer. It
// fails with ErrSessionClosed once the session has been terminated. A
// failed send never affects any other session.
func (s *Session) Send(data []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Terminate closes the session. It is idempotent and safe to call
// concurrently with an in-progress Receive, which it unblocks.
func (s *Session) Terminate() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	// Best-effort close frame; the transport close below is what
	// actually releases the handle and unblocks the read.
	s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return s.conn.Close()
}

// Closed reports whether Terminate has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
