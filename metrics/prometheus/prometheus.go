package prometheusmetrics

import (
	"time"

	"github.com/prebid/gpp-codec/config"
	"github.com/prebid/gpp-codec/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics defines the Prometheus metrics backing the MetricsEngine implementation.
type Metrics struct {
	Registry *prometheus.Registry

	operations     *prometheus.CounterVec
	operationTimer *prometheus.HistogramVec
	sections       *prometheus.CounterVec
	snapshotCache  *prometheus.CounterVec
}

const (
	operationLabel   = "operation"
	statusLabel      = "status"
	sectionLabel     = "section"
	cacheResultLabel = "cache_result"
)

// NewMetrics initializes a new Prometheus metrics instance with preloaded label values.
func NewMetrics(cfg config.PrometheusMetrics, sections []string) *Metrics {
	operationTimeBuckets := []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01}

	metrics := Metrics{}
	metrics.Registry = prometheus.NewRegistry()

	metrics.operations = newCounter(cfg, metrics.Registry,
		"operations",
		"Count of encode and decode operations labeled by outcome.",
		[]string{operationLabel, statusLabel})

	metrics.operationTimer = newHistogramVec(cfg, metrics.Registry,
		"operation_time_seconds",
		"Seconds to complete a successful encode or decode.",
		[]string{operationLabel},
		operationTimeBuckets)

	metrics.sections = newCounter(cfg, metrics.Registry,
		"sections",
		"Count of sections written or read labeled by section name.",
		[]string{sectionLabel, operationLabel})

	metrics.snapshotCache = newCounter(cfg, metrics.Registry,
		"snapshot_cache",
		"Count of decoded snapshot lookups labeled by hit or miss.",
		[]string{cacheResultLabel})

	preloadLabelValues(&metrics, sections)

	return &metrics
}

func newCounter(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string) *prometheus.CounterVec {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounterVec(opts, labels)
	registry.MustRegister(counter)
	return counter
}

func newHistogramVec(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	opts := prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	histogram := prometheus.NewHistogramVec(opts, labels)
	registry.MustRegister(histogram)
	return histogram
}

func (m *Metrics) RecordOperation(labels metrics.Labels) {
	m.operations.With(prometheus.Labels{
		operationLabel: string(labels.Operation),
		statusLabel:    string(labels.Status),
	}).Inc()
}

func (m *Metrics) RecordOperationTime(labels metrics.Labels, length time.Duration) {
	if labels.Status != metrics.StatusOK {
		return
	}
	m.operationTimer.With(prometheus.Labels{
		operationLabel: string(labels.Operation),
	}).Observe(length.Seconds())
}

func (m *Metrics) RecordSection(section string, operation metrics.Operation) {
	m.sections.With(prometheus.Labels{
		sectionLabel:   section,
		operationLabel: string(operation),
	}).Inc()
}

func (m *Metrics) RecordSnapshotCache(result metrics.CacheResult) {
	m.snapshotCache.With(prometheus.Labels{
		cacheResultLabel: string(result),
	}).Inc()
}
