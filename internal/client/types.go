package client

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected  = errors.New("not connected")
	ErrAlreadyClosed = errors.New("already closed")
)

// Message wraps raw message data with a receive timestamp.
type Message struct {
	Data       []byte    // Raw message bytes from the server
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// Config configures a relay client.
type Config struct {
	URL              string        // WebSocket URL (e.g. ws://localhost:8080/ws)
	HandshakeTimeout time.Duration // Dial deadline
	WriteTimeout     time.Duration // Write deadline for sends
	BufferSize       int           // Message channel buffer size
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		BufferSize:       256,
	}
}
