// Package metrics exposes Prometheus instrumentation for the seatmap
// service: refresh outcomes and latency, current record-set size, and
// derived-cache effectiveness.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors, registered on a private
// registry so tests can create isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	RefreshTotal    prometheus.Counter
	RefreshFailures prometheus.Counter
	RefreshDuration prometheus.Histogram
	Entries         prometheus.Gauge
	Locations       prometheus.Gauge
	CacheReads      *prometheus.CounterVec // labels: cache, result (hit|miss)
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RefreshTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seatmap_refresh_total",
			Help: "Completed refresh attempts, successful or not.",
		}),
		RefreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seatmap_refresh_failures_total",
			Help: "Refresh attempts that failed and kept last-known-good data.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seatmap_refresh_duration_seconds",
			Help:    "Wall time of fetch plus merge per refresh.",
			Buckets: prometheus.DefBuckets,
		}),
		Entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "seatmap_entries",
			Help: "Deduplicated space entries in the published record set.",
		}),
		Locations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "seatmap_locations",
			Help: "Distinct canonical locations in the published record set.",
		}),
		CacheReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seatmap_cache_reads_total",
			Help: "Derived-cache reads by cache name and hit/miss result.",
		}, []string{"cache", "result"}),
	}

	reg.MustRegister(
		m.RefreshTotal,
		m.RefreshFailures,
		m.RefreshDuration,
		m.Entries,
		m.Locations,
		m.CacheReads,
	)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCacheRead records one cache read outcome. Safe on a nil receiver so
// instrumentation stays optional.
func (m *Metrics) ObserveCacheRead(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheReads.WithLabelValues(cache, result).Inc()
}
