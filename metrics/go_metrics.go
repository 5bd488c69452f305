package metrics

import (
	"fmt"
	"time"

	"github.com/rcrowley/go-metrics"
)

// Metrics is the go-metrics backed MetricsEngine.
type Metrics struct {
	MetricsRegistry     metrics.Registry
	OperationStatuses   map[Operation]map[Status]metrics.Meter
	OperationTimers     map[Operation]metrics.Timer
	SectionMeters       map[string]map[Operation]metrics.Meter
	SnapshotCacheMeters map[CacheResult]metrics.Meter
}

// UnknownSection is the bucket for sections outside of the list given to NewMetrics.
const UnknownSection = "unknown"

// NewBlankMetrics creates a new Metrics object with all blank metrics object. This may also be useful for
// testing routines to ensure that no metrics are written anywhere.
func NewBlankMetrics(registry metrics.Registry, sections []string) *Metrics {
	blankMeter := &metrics.NilMeter{}
	newMetrics := &Metrics{
		MetricsRegistry:     registry,
		OperationStatuses:   make(map[Operation]map[Status]metrics.Meter),
		OperationTimers:     make(map[Operation]metrics.Timer),
		SectionMeters:       make(map[string]map[Operation]metrics.Meter, len(sections)+1),
		SnapshotCacheMeters: make(map[CacheResult]metrics.Meter),
	}

	for _, op := range OperationTypes() {
		newMetrics.OperationStatuses[op] = make(map[Status]metrics.Meter)
		for _, status := range StatusTypes() {
			newMetrics.OperationStatuses[op][status] = blankMeter
		}
		newMetrics.OperationTimers[op] = &metrics.NilTimer{}
	}
	names := append(append([]string{}, sections...), UnknownSection)
	for _, name := range names {
		newMetrics.SectionMeters[name] = make(map[Operation]metrics.Meter)
		for _, op := range OperationTypes() {
			newMetrics.SectionMeters[name][op] = blankMeter
		}
	}
	for _, result := range CacheResults() {
		newMetrics.SnapshotCacheMeters[result] = blankMeter
	}
	return newMetrics
}

// NewMetrics creates a new Metrics object with needed metrics defined. The section list
// is fixed at creation; sections outside of it are counted as "unknown".
func NewMetrics(registry metrics.Registry, sections []string) *Metrics {
	newMetrics := NewBlankMetrics(registry, sections)

	for op, statusMap := range newMetrics.OperationStatuses {
		for status := range statusMap {
			statusMap[status] = metrics.GetOrRegisterMeter(fmt.Sprintf("%s_requests.%s", op, status), registry)
		}
		newMetrics.OperationTimers[op] = metrics.GetOrRegisterTimer(fmt.Sprintf("%s_time", op), registry)
	}
	for name, opMap := range newMetrics.SectionMeters {
		for op := range opMap {
			opMap[op] = metrics.GetOrRegisterMeter(fmt.Sprintf("sections.%s.%s", name, op), registry)
		}
	}
	for result := range newMetrics.SnapshotCacheMeters {
		newMetrics.SnapshotCacheMeters[result] = metrics.GetOrRegisterMeter(fmt.Sprintf("snapshot_cache.%s", result), registry)
	}
	return newMetrics
}

func (me *Metrics) RecordOperation(labels Labels) {
	if statusMap, ok := me.OperationStatuses[labels.Operation]; ok {
		if meter, ok := statusMap[labels.Status]; ok {
			meter.Mark(1)
		}
	}
}

// RecordOperationTime only measures successful operations.
func (me *Metrics) RecordOperationTime(labels Labels, length time.Duration) {
	if labels.Status != StatusOK {
		return
	}
	if timer, ok := me.OperationTimers[labels.Operation]; ok {
		timer.Update(length)
	}
}

func (me *Metrics) RecordSection(section string, operation Operation) {
	opMap, ok := me.SectionMeters[section]
	if !ok {
		opMap = me.SectionMeters[UnknownSection]
	}
	if meter, ok := opMap[operation]; ok {
		meter.Mark(1)
	}
}

func (me *Metrics) RecordSnapshotCache(result CacheResult) {
	if meter, ok := me.SnapshotCacheMeters[result]; ok {
		meter.Mark(1)
	}
}
