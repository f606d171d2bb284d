package replica

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the replica's Prometheus collectors.
type Metrics struct {
	Applied       prometheus.Counter
	ApplyFailures prometheus.Counter
	Resyncs       prometheus.Counter
	Seq           prometheus.Gauge
}

// NewMetrics creates the replica collectors and registers them with
// reg, if it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Applied: f.NewCounter(prometheus.CounterOpts{
			Namespace: "docsync",
			Subsystem: "replica",
			Name:      "patches_applied_total",
			Help:      "Total number of operation sequences applied",
		}),
		ApplyFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "docsync",
			Subsystem: "replica",
			Name:      "apply_failures_total",
			Help:      "Total number of operation sequences which failed to apply",
		}),
		Resyncs: f.NewCounter(prometheus.CounterOpts{
			Namespace: "docsync",
			Subsystem: "replica",
			Name:      "resyncs_total",
			Help:      "Total number of snapshots fetched after the first",
		}),
		Seq: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "docsync",
			Subsystem: "replica",
			Name:      "seq",
			Help:      "Sequence number of the local document",
		}),
	}
}
