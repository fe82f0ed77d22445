package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *RelayConfig) Validate() error {
	if c.Server.ListenAddr == "" {
		return errors.New("server.listen_addr is required")
	}
	if _, _, err := net.SplitHostPort(c.Server.ListenAddr); err != nil {
		return fmt.Errorf("server.listen_addr is not a valid host:port: %q", c.Server.ListenAddr)
	}

	if !strings.HasPrefix(c.Server.Path, "/") {
		return fmt.Errorf("server.path must start with '/', got %q", c.Server.Path)
	}

	if c.Server.MaxConns < 1 {
		return errors.New("server.max_conns must be >= 1")
	}
	if c.Server.MaxMessageBytes < 1 {
		return errors.New("server.max_message_bytes must be >= 1")
	}
	if c.Server.HandshakeTimeout <= 0 {
		return errors.New("server.handshake_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return errors.New("server.write_timeout must be positive")
	}

	if c.Health.Enabled && !strings.HasPrefix(c.Health.Path, "/") {
		return fmt.Errorf("health.path must start with '/', got %q", c.Health.Path)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug/info/warn/error, got %q", c.Log.Level)
	}

	return nil
}
