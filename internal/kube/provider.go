package kube

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// EnvUseMock switches the whole application onto the deterministic mock
// provider when set to "true" or "1". It is read once at startup.
const EnvUseMock = "KUBEDECK_USE_MOCK"

// UseMockFromEnv reports whether the mock provider is requested.
func UseMockFromEnv() bool {
	v := os.Getenv(EnvUseMock)
	return v == "1" || strings.EqualFold(v, "true")
}

// Provider hands out cluster clients by context name and owns the active
// kubeconfig path. It is the single place where mock and real connections
// diverge; everything above it is provider-agnostic.
type Provider interface {
	// ClientFor returns a client for the named context. An empty name means
	// ambient configuration.
	ClientFor(ctx context.Context, contextName string) (*Client, error)
	// KubeContexts lists the selectable context names.
	KubeContexts() ([]string, error)
	// SetKubeconfigPath switches the active kubeconfig and drops all pooled
	// connections.
	SetKubeconfigPath(path string)
	// KubeconfigPath returns the active kubeconfig path, empty for default.
	KubeconfigPath() string
	// InvalidateAll drops all pooled connections.
	InvalidateAll()
}

// NewProvider selects the provider implementation once. All callers work
// against the Provider interface from here on.
func NewProvider(logger *slog.Logger, useMock bool, poolOpts ...PoolOption) Provider {
	if useMock {
		return NewMockProvider(logger)
	}
	return &clusterProvider{
		pool:   NewPool(logger, poolOpts...),
		logger: logger,
	}
}

// clusterProvider resolves real cluster connections through the pool.
type clusterProvider struct {
	pool   *Pool
	logger *slog.Logger

	mu             sync.RWMutex
	kubeconfigPath string
}

func (p *clusterProvider) ClientFor(ctx context.Context, contextName string) (*Client, error) {
	id := ConnectionIdentity{
		Context:        contextName,
		KubeconfigPath: p.KubeconfigPath(),
	}
	conn, err := p.pool.GetOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewClient(conn, p.logger), nil
}

func (p *clusterProvider) KubeContexts() ([]string, error) {
	return ListKubeContexts(p.KubeconfigPath())
}

func (p *clusterProvider) SetKubeconfigPath(path string) {
	p.mu.Lock()
	p.kubeconfigPath = path
	p.mu.Unlock()
	p.pool.InvalidateAll()
}

func (p *clusterProvider) KubeconfigPath() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.kubeconfigPath
}

func (p *clusterProvider) InvalidateAll() {
	p.pool.InvalidateAll()
}
