package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultListenAddr       = ":8080"
	DefaultPath             = "/ws"
	DefaultMaxConns         = 1024
	DefaultMaxMessageBytes  = 64 * 1024
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultHealthPath       = "/healthz"
	DefaultLogLevel         = "info"
)

func (c *RelayConfig) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.Path == "" {
		c.Server.Path = DefaultPath
	}
	if c.Server.MaxConns == 0 {
		c.Server.MaxConns = DefaultMaxConns
	}
	if c.Server.MaxMessageBytes == 0 {
		c.Server.MaxMessageBytes = DefaultMaxMessageBytes
	}
	if c.Server.HandshakeTimeout == 0 {
		c.Server.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Health.Path == "" {
		c.Health.Path = DefaultHealthPath
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
