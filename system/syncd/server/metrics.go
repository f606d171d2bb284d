package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "docsync"

// Metrics are the server's Prometheus collectors.
type Metrics struct {
	Patches    prometheus.Counter
	Operations prometheus.Counter
	Snapshots  prometheus.Counter
	Dropped    prometheus.Counter
	Sessions   prometheus.Gauge
	Seq        prometheus.Gauge
}

// NewMetrics creates the server collectors and registers them with reg,
// if it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Patches: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "server",
			Name:      "patches_published_total",
			Help:      "Total number of operation sequences published",
		}),
		Operations: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "server",
			Name:      "operations_published_total",
			Help:      "Total number of operations published",
		}),
		Snapshots: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "server",
			Name:      "snapshots_served_total",
			Help:      "Total number of snapshots sent to replicas",
		}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "server",
			Name:      "dropped_sessions_total",
			Help:      "Total number of sessions closed for falling behind",
		}),
		Sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "server",
			Name:      "sessions",
			Help:      "Number of connected replica sessions",
		}),
		Seq: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "server",
			Name:      "seq",
			Help:      "Sequence number of the served document",
		}),
	}
}
