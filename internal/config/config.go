package config

import "time"

// RelayConfig is the root configuration for a relay instance.
type RelayConfig struct {
	Server ServerConfig `yaml:"server"`
	Health HealthConfig `yaml:"health"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds the WebSocket listener settings.
type ServerConfig struct {
	ListenAddr       string        `yaml:"listen_addr"`
	Path             string        `yaml:"path"`
	MaxConns         int           `yaml:"max_conns"`
	MaxMessageBytes  int64         `yaml:"max_message_bytes"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}
