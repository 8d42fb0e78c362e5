// Package instrumentation exposes Prometheus metrics for the backend.
package instrumentation

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnPoolHits counts pooled connection lookups served from the pool.
	ConnPoolHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kubedeck_conn_pool_hits_total",
		Help: "Number of connection lookups served from the pool.",
	})

	// ConnPoolMisses counts lookups that had to build a new connection.
	ConnPoolMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kubedeck_conn_pool_misses_total",
		Help: "Number of connection lookups that built a new connection.",
	})

	// ConnPoolEvictions counts dropped pool entries by reason.
	ConnPoolEvictions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kubedeck_conn_pool_evictions_total",
		Help: "Number of connections dropped from the pool.",
	}, []string{"reason"})

	// ConnPoolSize tracks the current number of pooled connections.
	ConnPoolSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kubedeck_conn_pool_size",
		Help: "Current number of pooled cluster connections.",
	})

	// ActiveWatches tracks the number of running watch tasks.
	ActiveWatches = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kubedeck_active_watches",
		Help: "Current number of running resource watch tasks.",
	})

	// APIRequests counts HTTP API requests by route and status code.
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kubedeck_api_requests_total",
		Help: "Number of HTTP API requests handled.",
	}, []string{"route", "method", "code"})

	// APIRequestDuration observes HTTP API latency by route.
	APIRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kubedeck_api_request_duration_seconds",
		Help:    "HTTP API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// Register installs all collectors on reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		ConnPoolHits,
		ConnPoolMisses,
		ConnPoolEvictions,
		ConnPoolSize,
		ActiveWatches,
		APIRequests,
		APIRequestDuration,
	)
}

// Handler serves the default registry in Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// PoolMetrics adapts the collectors to the connection pool's metrics sink.
type PoolMetrics struct{}

func (PoolMetrics) ConnHit()  { ConnPoolHits.Inc() }
func (PoolMetrics) ConnMiss() { ConnPoolMisses.Inc() }

func (PoolMetrics) ConnEvicted(reason string) {
	ConnPoolEvictions.WithLabelValues(reason).Inc()
}

func (PoolMetrics) PoolSize(n int) { ConnPoolSize.Set(float64(n)) }

// WatchMetrics adapts the collectors to the watch manager's metrics sink.
type WatchMetrics struct{}

func (WatchMetrics) WatchStarted() { ActiveWatches.Inc() }
func (WatchMetrics) WatchStopped() { ActiveWatches.Dec() }
