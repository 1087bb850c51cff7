package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricBuildsTotal   = "astview.builds.total"
	metricBuildDuration = "astview.build.duration"
	metricNodesTotal    = "astview.nodes"
	metricDiagnostics   = "frontend.diagnostics"

	attrStage  = "stage"
	attrStatus = "status"

	// StatusOK marks a successful build.
	StatusOK = "ok"
	// StatusError marks a failed build.
	StatusError = "error"
)

// durationBucketBoundaries covers 1ms to 10s: single files build in
// milliseconds, generated sources take seconds.
var durationBucketBoundaries = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// BuildMetrics holds the instruments recorded per inspected file.
type BuildMetrics struct {
	buildsTotal   metric.Int64Counter
	buildDuration metric.Float64Histogram
	nodesTotal    metric.Int64Counter
	diagnostics   metric.Int64Counter
}

// NewBuildMetrics creates the build instruments from the given meter.
func NewBuildMetrics(mt metric.Meter) (*BuildMetrics, error) {
	builds, err := mt.Int64Counter(metricBuildsTotal,
		metric.WithDescription("Total number of tree builds"),
		metric.WithUnit("{build}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricBuildsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricBuildDuration,
		metric.WithDescription("Time from reading a file to a finished node tree"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricBuildDuration, err)
	}

	nodes, err := mt.Int64Counter(metricNodesTotal,
		metric.WithDescription("Total number of nodes created"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricNodesTotal, err)
	}

	diags, err := mt.Int64Counter(metricDiagnostics,
		metric.WithDescription("Total number of front-end diagnostics"),
		metric.WithUnit("{diagnostic}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDiagnostics, err)
	}

	return &BuildMetrics{
		buildsTotal:   builds,
		buildDuration: duration,
		nodesTotal:    nodes,
		diagnostics:   diags,
	}, nil
}

// RecordBuild records one finished build. Nodes are only counted on success.
func (bm *BuildMetrics) RecordBuild(ctx context.Context, status string, nodes int, duration time.Duration) {
	if bm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrStatus, status))

	bm.buildsTotal.Add(ctx, 1, attrs)
	bm.buildDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusOK {
		bm.nodesTotal.Add(ctx, int64(nodes))
	}
}

// RecordDiagnostics adds n parser diagnostics.
func (bm *BuildMetrics) RecordDiagnostics(ctx context.Context, n int) {
	if bm == nil || n == 0 {
		return
	}

	bm.diagnostics.Add(ctx, int64(n), metric.WithAttributes(attribute.String(attrStage, "parse")))
}
