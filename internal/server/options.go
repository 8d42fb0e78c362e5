package server

import (
	"log/slog"

	"github.com/kubedeck/kubedeck/internal/events"
	"github.com/kubedeck/kubedeck/internal/kube"
	"github.com/kubedeck/kubedeck/internal/terminal"
	"github.com/kubedeck/kubedeck/internal/watch"
)

// Option is a functional option for configuring ServerContext.
type Option func(*ServerContext) error

// WithProvider sets the cluster connection provider.
func WithProvider(provider kube.Provider) Option {
	return func(sc *ServerContext) error {
		if provider == nil {
			return ErrMissingProvider
		}
		sc.provider = provider
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return ErrMissingLogger
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig sets the server configuration.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return ErrMissingConfig
		}
		sc.config = config.Clone()
		return nil
	}
}

// WithBus sets the event bus.
func WithBus(bus *events.Bus) Option {
	return func(sc *ServerContext) error {
		if bus == nil {
			return ErrMissingBus
		}
		sc.bus = bus
		return nil
	}
}

// WithWatchManager sets a preconfigured watch manager, e.g. one wired to
// metrics.
func WithWatchManager(m *watch.Manager) Option {
	return func(sc *ServerContext) error {
		sc.watches = m
		return nil
	}
}

// WithTerminalManager sets a preconfigured terminal session manager.
func WithTerminalManager(m *terminal.Manager) Option {
	return func(sc *ServerContext) error {
		sc.terminals = m
		return nil
	}
}
