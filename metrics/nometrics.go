package metrics

import "time"

// NilMetricsEngine implements MetricsEngine by doing nothing. The codec uses it when no
// engine is configured.
type NilMetricsEngine struct{}

func (me *NilMetricsEngine) RecordOperation(labels Labels) {}

func (me *NilMetricsEngine) RecordOperationTime(labels Labels, length time.Duration) {}

func (me *NilMetricsEngine) RecordSection(section string, operation Operation) {}

func (me *NilMetricsEngine) RecordSnapshotCache(result CacheResult) {}
