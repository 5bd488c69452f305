package config

import (
	"io"
	"time"

	mainConfig "github.com/prebid/gpp-codec/config"
	"github.com/prebid/gpp-codec/metrics"
	prometheusmetrics "github.com/prebid/gpp-codec/metrics/prometheus"
	"github.com/prometheus/common/expfmt"
	gometrics "github.com/rcrowley/go-metrics"
)

// NewMetricsEngine reads the configuration and returns the appropriate metrics engine
// for this instance.
func NewMetricsEngine(cfg *mainConfig.Configuration, sections []string) *DetailedMetricsEngine {
	// Create a list of metrics engines to use.
	// Capacity of 2, as unlikely to have more than 2 metrics backends, and in the case
	// of 1 we won't use the list so it will be garbage collected.
	engineList := make(MultiMetricsEngine, 0, 2)
	returnEngine := DetailedMetricsEngine{}

	metricsType := cfg.Metrics.Type
	if metricsType == mainConfig.MetricsTypeGoMetrics || metricsType == mainConfig.MetricsTypeAll {
		returnEngine.GoMetrics = metrics.NewMetrics(gometrics.NewPrefixedRegistry("gpp."), sections)
		engineList = append(engineList, returnEngine.GoMetrics)
	}
	if metricsType == mainConfig.MetricsTypePrometheus || metricsType == mainConfig.MetricsTypeAll {
		returnEngine.PrometheusMetrics = prometheusmetrics.NewMetrics(cfg.Metrics.Prometheus, sections)
		engineList = append(engineList, returnEngine.PrometheusMetrics)
	}

	// Now return the proper metrics engine
	if len(engineList) > 1 {
		returnEngine.MetricsEngine = &engineList
	} else if len(engineList) == 1 {
		returnEngine.MetricsEngine = engineList[0]
	} else {
		returnEngine.MetricsEngine = &DummyMetricsEngine{}
	}

	return &returnEngine
}

// DetailedMetricsEngine is a MultiMetricsEngine that preserves links to underlying metrics engines.
type DetailedMetricsEngine struct {
	metrics.MetricsEngine
	GoMetrics         *metrics.Metrics
	PrometheusMetrics *prometheusmetrics.Metrics
}

// Write dumps the current value of every configured metric to w: go-metrics in its plain
// text form, then prometheus in the text exposition format.
func (me *DetailedMetricsEngine) Write(w io.Writer) error {
	if me.GoMetrics != nil {
		gometrics.WriteOnce(me.GoMetrics.MetricsRegistry, w)
	}
	if me.PrometheusMetrics != nil {
		families, err := me.PrometheusMetrics.Registry.Gather()
		if err != nil {
			return err
		}
		for _, family := range families {
			if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
				return err
			}
		}
	}
	return nil
}

// MultiMetricsEngine logs metrics to multiple metrics databases The can be useful in transitioning
// an instance from one engine to another, you can run both in parallel to verify stats match up.
type MultiMetricsEngine []metrics.MetricsEngine

// RecordOperation across all engines
func (me *MultiMetricsEngine) RecordOperation(labels metrics.Labels) {
	for _, thisME := range *me {
		thisME.RecordOperation(labels)
	}
}

// RecordOperationTime across all engines
func (me *MultiMetricsEngine) RecordOperationTime(labels metrics.Labels, length time.Duration) {
	for _, thisME := range *me {
		thisME.RecordOperationTime(labels, length)
	}
}

// RecordSection across all engines
func (me *MultiMetricsEngine) RecordSection(section string, operation metrics.Operation) {
	for _, thisME := range *me {
		thisME.RecordSection(section, operation)
	}
}

// RecordSnapshotCache across all engines
func (me *MultiMetricsEngine) RecordSnapshotCache(result metrics.CacheResult) {
	for _, thisME := range *me {
		thisME.RecordSnapshotCache(result)
	}
}

// DummyMetricsEngine is a Noop metrics engine in case no metrics are configured. (may also be useful for tests)
type DummyMetricsEngine struct{}

// RecordOperation as a noop
func (me *DummyMetricsEngine) RecordOperation(labels metrics.Labels) {
}

// RecordOperationTime as a noop
func (me *DummyMetricsEngine) RecordOperationTime(labels metrics.Labels, length time.Duration) {
}

// RecordSection as a noop
func (me *DummyMetricsEngine) RecordSection(section string, operation metrics.Operation) {
}

// RecordSnapshotCache as a noop
func (me *DummyMetricsEngine) RecordSnapshotCache(result metrics.CacheResult) {
}
