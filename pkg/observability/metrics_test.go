package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/astviewer/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.BuildMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	bm, err := observability.NewBuildMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return bm, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumOf(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestBuildMetrics_RecordBuild(t *testing.T) {
	t.Parallel()

	bm, reader := setupTestMeter(t)
	ctx := context.Background()

	bm.RecordBuild(ctx, observability.StatusOK, 40, 2*time.Millisecond)
	bm.RecordBuild(ctx, observability.StatusOK, 2, time.Millisecond)
	bm.RecordBuild(ctx, observability.StatusError, 99, time.Millisecond)

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(3), sumOf(t, findMetric(rm, "astview.builds.total")))
	assert.Equal(t, int64(42), sumOf(t, findMetric(rm, "astview.nodes")))

	duration := findMetric(rm, "astview.build.duration")
	require.NotNil(t, duration)

	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)

	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}

	assert.Equal(t, uint64(3), count)
}

func TestBuildMetrics_RecordDiagnostics(t *testing.T) {
	t.Parallel()

	bm, reader := setupTestMeter(t)

	bm.RecordDiagnostics(context.Background(), 0)
	bm.RecordDiagnostics(context.Background(), 3)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(3), sumOf(t, findMetric(rm, "frontend.diagnostics")))
}

func TestBuildMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var bm *observability.BuildMetrics

	assert.NotPanics(t, func() {
		bm.RecordBuild(context.Background(), observability.StatusOK, 1, time.Millisecond)
		bm.RecordDiagnostics(context.Background(), 1)
	})
}
