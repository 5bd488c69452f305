package config

import (
	"bytes"
	"testing"
	"time"

	mainConfig "github.com/prebid/gpp-codec/config"
	"github.com/prebid/gpp-codec/metrics"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Start a simple test to insure we get valid MetricsEngines for various configurations
func TestDummyMetricsEngine(t *testing.T) {
	cfg := mainConfig.Configuration{}
	testEngine := NewMetricsEngine(&cfg, nil)
	_, ok := testEngine.MetricsEngine.(*DummyMetricsEngine)
	if !ok {
		t.Error("Expected a DummyMetricsEngine, but didn't get it")
	}
}

func TestGoMetricsEngine(t *testing.T) {
	cfg := mainConfig.Configuration{}
	cfg.Metrics.Type = mainConfig.MetricsTypeGoMetrics
	testEngine := NewMetricsEngine(&cfg, []string{"usnat"})
	_, ok := testEngine.MetricsEngine.(*metrics.Metrics)
	if !ok {
		t.Error("Expected a go-metrics Metrics as MetricsEngine, but didn't get it")
	}
	assert.Nil(t, testEngine.PrometheusMetrics)
}

func TestPrometheusMetricsEngine(t *testing.T) {
	cfg := mainConfig.Configuration{}
	cfg.Metrics.Type = mainConfig.MetricsTypePrometheus
	testEngine := NewMetricsEngine(&cfg, []string{"usnat"})
	assert.Same(t, testEngine.PrometheusMetrics, testEngine.MetricsEngine)
	assert.Nil(t, testEngine.GoMetrics)
}

func TestAllMetricsEngines(t *testing.T) {
	cfg := mainConfig.Configuration{}
	cfg.Metrics.Type = mainConfig.MetricsTypeAll
	testEngine := NewMetricsEngine(&cfg, []string{"usnat"})

	engines, ok := testEngine.MetricsEngine.(*MultiMetricsEngine)
	if !ok {
		t.Fatal("Expected a MultiMetricsEngine, but didn't get it")
	}
	assert.Len(t, *engines, 2)
	assert.NotNil(t, testEngine.GoMetrics)
	assert.NotNil(t, testEngine.PrometheusMetrics)
}

// Test the multiengine
func TestMultiMetricsEngine(t *testing.T) {
	sections := []string{"usnat", "tcfeuv2"}
	goEngine := metrics.NewMetrics(gometrics.NewPrefixedRegistry("gpp."), sections)
	engineList := make(MultiMetricsEngine, 2)
	engineList[0] = goEngine
	engineList[1] = &DummyMetricsEngine{}
	var metricsEngine metrics.MetricsEngine
	metricsEngine = &engineList

	okDecode := metrics.Labels{Operation: metrics.OperationDecode, Status: metrics.StatusOK}
	badEncode := metrics.Labels{Operation: metrics.OperationEncode, Status: metrics.StatusBadInput}
	for i := 0; i < 5; i++ {
		metricsEngine.RecordOperation(okDecode)
		metricsEngine.RecordOperationTime(okDecode, time.Millisecond)
		metricsEngine.RecordSection("usnat", metrics.OperationDecode)
	}
	metricsEngine.RecordOperation(badEncode)
	metricsEngine.RecordSnapshotCache(metrics.CacheHit)
	metricsEngine.RecordSnapshotCache(metrics.CacheMiss)
	metricsEngine.RecordSnapshotCache(metrics.CacheMiss)

	VerifyMetrics(t, "decode_requests.ok", goEngine.OperationStatuses[metrics.OperationDecode][metrics.StatusOK].Count(), 5)
	VerifyMetrics(t, "encode_requests.badinput", goEngine.OperationStatuses[metrics.OperationEncode][metrics.StatusBadInput].Count(), 1)
	VerifyMetrics(t, "decode_time", goEngine.OperationTimers[metrics.OperationDecode].Count(), 5)
	VerifyMetrics(t, "sections.usnat.decode", goEngine.SectionMeters["usnat"][metrics.OperationDecode].Count(), 5)
	VerifyMetrics(t, "sections.tcfeuv2.decode", goEngine.SectionMeters["tcfeuv2"][metrics.OperationDecode].Count(), 0)
	VerifyMetrics(t, "snapshot_cache.hit", goEngine.SnapshotCacheMeters[metrics.CacheHit].Count(), 1)
	VerifyMetrics(t, "snapshot_cache.miss", goEngine.SnapshotCacheMeters[metrics.CacheMiss].Count(), 2)
}

func TestWriteMetrics(t *testing.T) {
	cfg := mainConfig.Configuration{}
	cfg.Metrics.Type = mainConfig.MetricsTypeAll
	testEngine := NewMetricsEngine(&cfg, []string{"usnat"})
	testEngine.RecordOperation(metrics.Labels{Operation: metrics.OperationDecode, Status: metrics.StatusOK})

	var out bytes.Buffer
	require.NoError(t, testEngine.Write(&out))
	assert.Contains(t, out.String(), "meter gpp.decode_requests.ok")
	assert.Contains(t, out.String(), `operations{operation="decode"`)

	out.Reset()
	require.NoError(t, NewMetricsEngine(&mainConfig.Configuration{}, nil).Write(&out))
	assert.Empty(t, out.String())
}

func VerifyMetrics(t *testing.T, name string, actual int64, expected int64) {
	if expected != actual {
		t.Errorf("Error in metric %s: expected %d, got %d.", name, expected, actual)
	}
}
