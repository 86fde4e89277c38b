package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the application's prometheus metrics behind a dedicated
// registry so tests can create isolated instances.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	operations *prometheus.CounterVec

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// NewCollector creates and registers all metrics
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "railmap",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "railmap",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by method and route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "railmap",
				Name:      "network_operations_total",
				Help:      "Network mutations by operation and result",
			},
			[]string{"operation", "result"},
		),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "railmap",
			Name:      "travel_time_cache_hits_total",
			Help:      "Travel-time estimate cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "railmap",
			Name:      "travel_time_cache_misses_total",
			Help:      "Travel-time estimate cache misses",
		}),
	}

	c.registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.operations,
		c.cacheHits,
		c.cacheMisses,
	)
	return c
}

// Handler exposes the collector's registry in prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one completed HTTP request
func (c *Collector) ObserveRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordOperation counts one network mutation attempt
func (c *Collector) RecordOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.operations.WithLabelValues(operation, result).Inc()
}

// CacheHit implements services.CacheMetrics
func (c *Collector) CacheHit() {
	c.cacheHits.Inc()
}

// CacheMiss implements services.CacheMetrics
func (c *Collector) CacheMiss() {
	c.cacheMisses.Inc()
}
