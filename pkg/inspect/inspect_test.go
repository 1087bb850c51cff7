package inspect_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
	"github.com/Sumatoshi-tech/astviewer/pkg/inspect"
	"github.com/Sumatoshi-tech/astviewer/pkg/observability"
)

const classA = "class A { int f() { return 1; } }"

func writeSource(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestInspectFile(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	reader := sdkmetric.NewManualReader()
	metrics, err := observability.NewBuildMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)

	in := inspect.New(tp.Tracer("test"), nil)
	in.Metrics = metrics

	path := writeSource(t, "A.java", classA)

	res, err := in.File(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, res.File)
	assert.Equal(t, []byte(classA), res.Source())
	assert.Empty(t, res.Diagnostics())
	assert.Equal(t, node.KindCompilationUnit, res.Root.Kind())
	assert.Equal(t, res.Root.Count(), res.Report.Nodes)

	names := make([]string, 0, len(recorder.Ended()))
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}

	assert.Equal(t, []string{"inspect.read", "frontend.parse", "frontend.analyze", "astview.build"}, names)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := false

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "astview.nodes" {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			assert.Equal(t, int64(res.Report.Nodes), sum.DataPoints[0].Value)

			found = true
		}
	}

	assert.True(t, found)
}

func TestInspectStdin(t *testing.T) {
	t.Parallel()

	in := inspect.New(nil, nil)
	in.Stdin = strings.NewReader(classA)

	res, err := in.File(context.Background(), inspect.StdinName)
	require.NoError(t, err)
	assert.Equal(t, inspect.StdinName, res.File)

	_, ok := res.Root.FindFirst(func(n *node.Node) bool { return n.String() == "METHOD (f)" })
	assert.True(t, ok)
}

func TestInspectErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		want  error
		setup func(t *testing.T, in *inspect.Inspector) string
		name  string
	}{
		{
			name:  "missing file",
			setup: func(*testing.T, *inspect.Inspector) string { return filepath.Join(dir, "Missing.java") },
			want:  inspect.ErrRead,
		},
		{
			name:  "other language",
			setup: func(t *testing.T, _ *inspect.Inspector) string { return writeSource(t, "script.py", "print(1)\n") },
			want:  inspect.ErrNotJava,
		},
		{
			name:  "binary",
			setup: func(t *testing.T, _ *inspect.Inspector) string { return writeSource(t, "Blob.java", "class\x00A {}") },
			want:  inspect.ErrBinary,
		},
		{
			name: "too large",
			setup: func(t *testing.T, in *inspect.Inspector) string {
				t.Helper()

				in.MaxBytes = 8

				return writeSource(t, "A.java", classA)
			},
			want: inspect.ErrTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := inspect.New(nil, nil)
			path := tt.setup(t, in)

			_, err := in.File(context.Background(), path)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInspectSizeLimitAllowsExactSize(t *testing.T) {
	t.Parallel()

	in := inspect.New(nil, nil)
	in.MaxBytes = uint64(len(classA))

	_, err := in.File(context.Background(), writeSource(t, "A.java", classA))
	require.NoError(t, err)
}

func TestInspectKeepsSyntaxErrors(t *testing.T) {
	t.Parallel()

	res, err := inspect.New(nil, nil).Source(context.Background(), "A.java", []byte("class A { void m( }"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Diagnostics())
}
