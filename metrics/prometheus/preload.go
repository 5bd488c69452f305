package prometheusmetrics

import (
	"github.com/prebid/gpp-codec/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// preloadLabelValues creates every known label combination up front so dashboards see
// zero valued series before the first event.
func preloadLabelValues(m *Metrics, sections []string) {
	for _, op := range metrics.OperationTypes() {
		for _, status := range metrics.StatusTypes() {
			m.operations.With(prometheus.Labels{
				operationLabel: string(op),
				statusLabel:    string(status),
			})
		}
		m.operationTimer.With(prometheus.Labels{
			operationLabel: string(op),
		})
		for _, section := range sections {
			m.sections.With(prometheus.Labels{
				sectionLabel:   section,
				operationLabel: string(op),
			})
		}
	}
	for _, result := range metrics.CacheResults() {
		m.snapshotCache.With(prometheus.Labels{
			cacheResultLabel: string(result),
		})
	}
}
