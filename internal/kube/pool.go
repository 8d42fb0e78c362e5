package kube

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kubedeck/kubedeck/internal/logging"
)

// DefaultConnTTL bounds how long a pooled connection may be reused before it
// is rebuilt from the kubeconfig.
const DefaultConnTTL = 300 * time.Second

// PoolMetrics receives pool activity notifications. Implementations must be
// safe for concurrent use; a nil PoolMetrics disables reporting.
type PoolMetrics interface {
	ConnHit()
	ConnMiss()
	ConnEvicted(reason string)
	PoolSize(n int)
}

// Eviction reasons reported to PoolMetrics.
const (
	EvictionReasonExpired     = "expired"
	EvictionReasonInvalidated = "invalidated"
)

type poolEntry struct {
	conn      *Conn
	createdAt time.Time
}

// buildFunc resolves an identity into a live connection. Swapped out in tests.
type buildFunc func(ctx context.Context, id ConnectionIdentity) (*Conn, error)

// Pool caches connections per identity with lazy TTL eviction. Expired
// entries are swept at the start of every lookup, so staleness is bounded
// without a background timer.
type Pool struct {
	mu      sync.Mutex
	entries map[ConnectionIdentity]poolEntry

	ttl     time.Duration
	build   buildFunc
	now     func() time.Time
	logger  *slog.Logger
	metrics PoolMetrics
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithTTL overrides the connection lifetime.
func WithTTL(ttl time.Duration) PoolOption {
	return func(p *Pool) { p.ttl = ttl }
}

// WithPoolMetrics attaches a metrics sink.
func WithPoolMetrics(m PoolMetrics) PoolOption {
	return func(p *Pool) { p.metrics = m }
}

// withBuilder replaces connection construction, for tests.
func withBuilder(build buildFunc) PoolOption {
	return func(p *Pool) { p.build = build }
}

// withClock replaces the time source, for tests.
func withClock(now func() time.Time) PoolOption {
	return func(p *Pool) { p.now = now }
}

// NewPool creates a connection pool with the default TTL.
func NewPool(logger *slog.Logger, opts ...PoolOption) *Pool {
	p := &Pool{
		entries: make(map[ConnectionIdentity]poolEntry),
		ttl:     DefaultConnTTL,
		now:     time.Now,
		logger:  logger,
	}
	p.build = func(_ context.Context, id ConnectionIdentity) (*Conn, error) {
		cfg, err := ResolveRestConfig(id)
		if err != nil {
			return nil, err
		}
		return NewConn(cfg)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetOrCreate returns the pooled connection for id, constructing one if the
// pool has no live entry. Two concurrent misses for the same identity may
// both construct; the first insertion wins and the loser's handle is
// discarded, which is safe because construction creates no cluster state.
func (p *Pool) GetOrCreate(ctx context.Context, id ConnectionIdentity) (*Conn, error) {
	p.mu.Lock()
	p.sweepLocked()
	if entry, ok := p.entries[id]; ok {
		p.mu.Unlock()
		if p.metrics != nil {
			p.metrics.ConnHit()
		}
		return entry.conn, nil
	}
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.ConnMiss()
	}
	conn, err := p.build(ctx, id)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if entry, ok := p.entries[id]; ok {
		return entry.conn, nil
	}
	p.entries[id] = poolEntry{conn: conn, createdAt: p.now()}
	p.reportSizeLocked()
	p.logger.Debug("cluster connection established", slog.String(logging.KeyKubeContext, id.String()))
	return conn, nil
}

// InvalidateAll drops every pooled connection. Called when the active
// kubeconfig path changes so no stale-context handle survives the switch.
func (p *Pool) InvalidateAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.entries)
	for id := range p.entries {
		delete(p.entries, id)
		if p.metrics != nil {
			p.metrics.ConnEvicted(EvictionReasonInvalidated)
		}
	}
	p.reportSizeLocked()
	if n > 0 {
		p.logger.Info("connection pool invalidated", slog.Int("dropped", n))
	}
}

// Size returns the number of live entries, sweeping expired ones first.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sweepLocked()
	return len(p.entries)
}

func (p *Pool) sweepLocked() {
	cutoff := p.now().Add(-p.ttl)
	swept := false
	for id, entry := range p.entries {
		if entry.createdAt.After(cutoff) {
			continue
		}
		delete(p.entries, id)
		swept = true
		if p.metrics != nil {
			p.metrics.ConnEvicted(EvictionReasonExpired)
		}
		p.logger.Debug("expired cluster connection evicted", slog.String(logging.KeyKubeContext, id.String()))
	}
	if swept {
		p.reportSizeLocked()
	}
}

func (p *Pool) reportSizeLocked() {
	if p.metrics != nil {
		p.metrics.PoolSize(len(p.entries))
	}
}
