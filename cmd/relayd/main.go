// relayd runs the WebSocket text relay server.
// Usage: relayd [--config configs/relayd.yaml] [--addr :8080]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/relayworks/ws-relay/internal/config"
	"github.com/relayworks/ws-relay/internal/relay"
	"github.com/relayworks/ws-relay/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	addr := flag.String("addr", "", "listen address override (host:port)")
	flag.Parse()

	// Load configuration first; log level comes from it
	var cfg *config.RelayConfig
	var err error
	if *configPath != "" {
		cfg, err = config.LoadAndValidate(*configPath)
	} else {
		cfg = config.Default()
	}
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.ListenAddr = *addr
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("starting relayd",
		"version", version.Version,
		"commit", version.Commit,
		"addr", cfg.Server.ListenAddr,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	srv := relay.NewServer(relay.ServerConfig{
		ListenAddr:       cfg.Server.ListenAddr,
		Path:             cfg.Server.Path,
		MaxConns:         cfg.Server.MaxConns,
		MaxMessageBytes:  cfg.Server.MaxMessageBytes,
		HandshakeTimeout: cfg.Server.HandshakeTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
		HealthEnabled:    cfg.Health.Enabled,
		HealthPath:       cfg.Health.Path,
	}, logger)

	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start relay server", "error", err)
		os.Exit(1)
	}

	logger.Info("relayd running",
		"addr", srv.Addr(),
		"health_enabled", cfg.Health.Enabled,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("relayd stopped")
}

// logLevel maps a config level string to a slog level.
func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
