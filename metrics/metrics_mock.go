package metrics

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MetricsEngineMock is mock for the MetricsEngine interface
type MetricsEngineMock struct {
	mock.Mock
}

// RecordOperation mock
func (me *MetricsEngineMock) RecordOperation(labels Labels) {
	me.Called(labels)
}

// RecordOperationTime mock
func (me *MetricsEngineMock) RecordOperationTime(labels Labels, length time.Duration) {
	me.Called(labels, length)
}

// RecordSection mock
func (me *MetricsEngineMock) RecordSection(section string, operation Operation) {
	me.Called(section, operation)
}

// RecordSnapshotCache mock
func (me *MetricsEngineMock) RecordSnapshotCache(result CacheResult) {
	me.Called(result)
}
