package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kubedeck/kubedeck/internal/events"
	"github.com/kubedeck/kubedeck/internal/kube"
	"github.com/kubedeck/kubedeck/internal/terminal"
	"github.com/kubedeck/kubedeck/internal/watch"
)

// Config holds server settings.
type Config struct {
	// ListenAddr is the HTTP listen address. The server is meant for a local
	// desktop UI, so the default binds loopback only.
	ListenAddr string
	// DefaultShell is the shell launched for terminal sessions.
	DefaultShell string
	// MockMode serves deterministic fixture data instead of real clusters.
	MockMode bool
}

// NewDefaultConfig returns the default server configuration.
func NewDefaultConfig() *Config {
	return &Config{
		ListenAddr:   "127.0.0.1:7771",
		DefaultShell: "/bin/sh",
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ServerContext bundles every dependency the HTTP layer needs and manages
// their shared lifecycle.
type ServerContext struct {
	provider  kube.Provider
	watches   *watch.Manager
	terminals *terminal.Manager
	bus       *events.Bus
	logger    *slog.Logger
	config    *Config

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext assembles a server context. The provider option is
// required; everything else has defaults.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	serverCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		bus:    events.NewBus(),
		logger: slog.Default(),
		config: NewDefaultConfig(),
		ctx:    serverCtx,
		cancel: cancel,
	}

	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}

	if err := sc.validate(); err != nil {
		cancel()
		return nil, err
	}

	if sc.watches == nil {
		sc.watches = watch.NewManager(serverCtx, sc.bus, sc.logger, nil)
	}
	if sc.terminals == nil {
		sc.terminals = terminal.NewManager(sc.bus, sc.logger)
	}

	return sc, nil
}

func (sc *ServerContext) validate() error {
	if sc.provider == nil {
		return ErrMissingProvider
	}
	return nil
}

// Provider returns the connection provider.
func (sc *ServerContext) Provider() kube.Provider {
	return sc.provider
}

// Watches returns the watch manager.
func (sc *ServerContext) Watches() *watch.Manager {
	return sc.watches
}

// Terminals returns the terminal session manager.
func (sc *ServerContext) Terminals() *terminal.Manager {
	return sc.terminals
}

// Bus returns the event bus feeding the UI.
func (sc *ServerContext) Bus() *events.Bus {
	return sc.bus
}

// Logger returns the structured logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	return sc.config
}

// Context returns the lifecycle context; it is cancelled on shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Shutdown stops background work and releases resources. It is safe to call
// once; subsequent calls return an error.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.shutdown {
		return fmt.Errorf("server context already shut down")
	}
	sc.shutdown = true

	sc.watches.StopAll()
	sc.terminals.CloseAll()
	sc.bus.Close()
	sc.cancel()
	return nil
}

// IsShutdown reports whether Shutdown has completed.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}
