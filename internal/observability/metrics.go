package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// observation uplink.
type Metrics struct {
	PacketsSent       prometheus.Counter
	PacketsSkipped    *prometheus.CounterVec // label: reason={parse,empty,encode,send}
	SessionReconnects prometheus.Counter
	Runs              *prometheus.CounterVec // label: outcome={ok,cancelled,retrieval_failed,session_failed}

	ArchiveFetchDuration prometheus.Histogram
	RunDuration          prometheus.Histogram
	RunActive            prometheus.Gauge
}

// NewMetrics creates and registers all uplink metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PacketsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bomwx",
			Name:      "packets_sent_total",
			Help:      "Total weather packets transmitted to APRS-IS.",
		}),
		PacketsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bomwx",
			Name:      "packets_skipped_total",
			Help:      "Stations skipped during a run, by reason.",
		}, []string{"reason"}),
		SessionReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bomwx",
			Name:      "session_reconnects_total",
			Help:      "Mid-session reconnects after the first successful send.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bomwx",
			Name:      "runs_total",
			Help:      "Completed runs by outcome.",
		}, []string{"outcome"}),
		ArchiveFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bomwx",
			Name:      "archive_fetch_duration_seconds",
			Help:      "Duration of the FTP archive retrieval and extraction.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bomwx",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-convert-send run.",
			Buckets:   []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bomwx",
			Name:      "run_active",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.PacketsSent,
		m.PacketsSkipped,
		m.SessionReconnects,
		m.Runs,
		m.ArchiveFetchDuration,
		m.RunDuration,
		m.RunActive,
	)

	return m
}

// NewMetricsForTesting creates Metrics with nothing registered, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PacketsSent:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bomwx", Name: "packets_sent_total"}),
		PacketsSkipped:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "bomwx", Name: "packets_skipped_total"}, []string{"reason"}),
		SessionReconnects:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bomwx", Name: "session_reconnects_total"}),
		Runs:                 prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "bomwx", Name: "runs_total"}, []string{"outcome"}),
		ArchiveFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "bomwx", Name: "archive_fetch_duration_seconds"}),
		RunDuration:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "bomwx", Name: "run_duration_seconds"}),
		RunActive:            prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "bomwx", Name: "run_active"}),
	}
}
