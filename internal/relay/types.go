package relay

import (
	"errors"
	"time"
)

// Errors
var (
	ErrSessionClosed  = errors.New("session closed")
	ErrAlreadyStarted = errors.New("server already started")
	ErrNotStarted     = errors.New("server not started")
)

// ServerConfig configures the relay server.
type ServerConfig struct {
	ListenAddr       string        // TCP listen address (e.g. ":8080")
	Path             string        // WebSocket endpoint path
	MaxConns         int           // Upper bound on concurrent sessions
	MaxMessageBytes  int64         // Read limit per message; oversized reads fail the session
	HandshakeTimeout time.Duration // HTTP→WebSocket upgrade deadline
	WriteTimeout     time.Duration // Write deadline for sends
	HealthEnabled    bool          // Serve the health endpoint
	HealthPath       string        // Health endpoint path
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:       ":8080",
		Path:             "/ws",
		MaxConns:         1024,
		MaxMessageBytes:  64 * 1024,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		HealthEnabled:    true,
		HealthPath:       "/healthz",
	}
}

// BroadcastStats contains fan-out counters.
type BroadcastStats struct {
	MessagesReceived  int64 // Messages handed to the broadcaster
	MessagesDelivered int64 // Successful per-recipient sends
	DeliveryErrors    int64 // Failed per-recipient sends
}

// ServerStats provides a point-in-time view of the server.
type ServerStats struct {
	Connected int // Sessions currently in the registry
	Broadcast BroadcastStats
}
