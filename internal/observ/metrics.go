package observ

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "stcss"

// Cache layers for CacheLookup.
const (
	CacheMemory = "memory"
	CacheDisk   = "disk"
)

// Metrics groups the compiler's prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	files       *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	cache       *prometheus.CounterVec
	phases      *prometheus.HistogramVec
	outputBytes prometheus.Counter
}

// NewMetrics registers every collector on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		files: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "compile",
			Name:      "files_total",
			Help:      "Stylesheets compiled, by result (ok, error)",
		}, []string{"result"}),
		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "compile",
			Name:      "diagnostics_total",
			Help:      "Diagnostics reported, by severity",
		}, []string{"severity"}),
		cache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by layer (memory, disk) and outcome (hit, miss)",
		}, []string{"layer", "outcome"}),
		phases: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "compile",
			Name:      "phase_duration_seconds",
			Help:      "Duration of compile phases",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"phase"}),
		outputBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "compile",
			Name:      "output_bytes_total",
			Help:      "Bytes of CSS produced",
		}),
	}
}

func (m *Metrics) FileCompiled(failed bool) {
	if m == nil {
		return
	}
	result := "ok"
	if failed {
		result = "error"
	}
	m.files.WithLabelValues(result).Inc()
}

func (m *Metrics) Diagnostics(severity string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.diagnostics.WithLabelValues(severity).Add(float64(n))
}

func (m *Metrics) CacheLookup(layer string, hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cache.WithLabelValues(layer, outcome).Inc()
}

func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.phases.WithLabelValues(phase).Observe(d.Seconds())
}

func (m *Metrics) OutputBytes(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.outputBytes.Add(float64(n))
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
