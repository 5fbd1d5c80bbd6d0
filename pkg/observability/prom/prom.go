// Package prom implements the observability hooks with Prometheus metrics.
//
// The CLI is short-lived, so metrics are not served over HTTP. Instead they
// are written in the node_exporter textfile format with [Metrics.WriteTextfile]
// at the end of a run, or after every run in watch mode.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "compcheck"

// Metrics holds the Prometheus collectors. It implements
// observability.AnalysisHooks and observability.CacheHooks.
type Metrics struct {
	// RunsTotal counts runs by status (ok, error).
	RunsTotal *prometheus.CounterVec

	// RunDurationSeconds measures whole runs.
	RunDurationSeconds prometheus.Histogram

	// ParseDurationSeconds measures the parse stage.
	ParseDurationSeconds prometheus.Histogram

	// FilesTotal counts files by result (parsed, failed).
	FilesTotal *prometheus.CounterVec

	// RegistryBuildsTotal counts registries built from source.
	RegistryBuildsTotal prometheus.Counter

	// RegistryComponents is the component count of the last built registry.
	RegistryComponents prometheus.Gauge

	// FindingsTotal counts findings by kind.
	FindingsTotal *prometheus.CounterVec

	// CacheRequestsTotal counts cache lookups by tier and result (hit, miss).
	CacheRequestsTotal *prometheus.CounterVec

	// CacheWriteBytes counts bytes written by tier.
	CacheWriteBytes *prometheus.CounterVec

	// InvalidationsTotal counts dropped snapshots.
	InvalidationsTotal prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates and registers the collectors with reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Analysis runs by status",
		}, []string{"status"}),
		RunDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of analysis runs",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ParseDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Duration of the parse stage",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FilesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Source files by parse result",
		}, []string{"result"}),
		RegistryBuildsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "builds_total",
			Help:      "Registries built from source",
		}),
		RegistryComponents: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "components",
			Help:      "Constrained components in the last built registry",
		}),
		FindingsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_total",
			Help:      "Findings by kind",
		}, []string{"kind"}),
		CacheRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Registry cache lookups by tier and result",
		}, []string{"tier", "result"}),
		CacheWriteBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "write_bytes_total",
			Help:      "Bytes written to the registry cache",
		}, []string{"tier"}),
		InvalidationsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "invalidations_total",
			Help:      "Snapshots dropped from the analysis session",
		}),
		gatherer: reg,
	}
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.gatherer)
}

func (m *Metrics) OnParseStart(context.Context, int) {}

func (m *Metrics) OnParseComplete(_ context.Context, units, failed int, d time.Duration) {
	m.FilesTotal.WithLabelValues("parsed").Add(float64(units))
	m.FilesTotal.WithLabelValues("failed").Add(float64(failed))
	m.ParseDurationSeconds.Observe(d.Seconds())
}

func (m *Metrics) OnRegistryBuild(_ context.Context, components int, _ time.Duration) {
	m.RegistryBuildsTotal.Inc()
	m.RegistryComponents.Set(float64(components))
}

func (m *Metrics) OnUnitChecked(_ context.Context, _ string, findings map[string]int) {
	for kind, n := range findings {
		m.FindingsTotal.WithLabelValues(kind).Add(float64(n))
	}
}

func (m *Metrics) OnRunComplete(_ context.Context, _ int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, tier string) {
	m.CacheRequestsTotal.WithLabelValues(tier, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, tier string) {
	m.CacheRequestsTotal.WithLabelValues(tier, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, tier string, size int) {
	m.CacheWriteBytes.WithLabelValues(tier).Add(float64(size))
}

func (m *Metrics) OnInvalidate(context.Context) { m.InvalidationsTotal.Inc() }
