package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astviewer/pkg/config"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, config.DefaultOutputFormat, cfg.Output.Format)
	assert.Equal(t, config.DefaultOutputColor, cfg.Output.Color)
	assert.False(t, cfg.Output.ShowTypes)
	assert.Equal(t, config.DefaultViewerHighlight, cfg.Viewer.Highlight)
	assert.Equal(t, config.DefaultWatchDebounce, cfg.Watch.Debounce)
	assert.Equal(t, config.DefaultTelemetryServiceName, cfg.Telemetry.ServiceName)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)

	size, err := cfg.Input.MaxBytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(4_000_000), size)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "astviewer.yaml", `
logging:
  level: debug
  format: json
output:
  format: yaml
  color: never
  show_types: true
  show_spans: true
input:
  max_file_size: 1MiB
watch:
  debounce: 750ms
telemetry:
  otlp_endpoint: localhost:4317
  otlp_insecure: true
  sample_ratio: 0.25
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	level, err := cfg.Logging.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	assert.True(t, cfg.Logging.JSON())

	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.True(t, cfg.Output.ShowTypes)
	assert.True(t, cfg.Output.ShowSpans)
	assert.False(t, cfg.Output.UseColor(true))

	size, err := cfg.Input.MaxBytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<20), size)

	assert.Equal(t, 750*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 0.0001)
}

func TestLoadConfigTOML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "astviewer.toml", `
[viewer]
highlight = "#FF0000"
accent = "12"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "#FF0000", cfg.Viewer.Highlight)
	assert.Equal(t, "12", cfg.Viewer.Accent)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("ASTVIEWER_OUTPUT_FORMAT", "json")
	t.Setenv("ASTVIEWER_WATCH_DEBOUNCE", "2s")
	t.Setenv("ASTVIEWER_TELEMETRY_PROMETHEUS", "true")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.True(t, cfg.Telemetry.Prometheus)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		want    error
		name    string
		content string
	}{
		{name: "log level", content: "logging:\n  level: loud\n", want: config.ErrInvalidLogLevel},
		{name: "log format", content: "logging:\n  format: xml\n", want: config.ErrInvalidLogFormat},
		{name: "output", content: "output:\n  format: html\n", want: config.ErrInvalidOutput},
		{name: "color", content: "output:\n  color: sometimes\n", want: config.ErrInvalidColor},
		{name: "size", content: "input:\n  max_file_size: lots\n", want: config.ErrInvalidMaxFileSize},
		{name: "debounce", content: "watch:\n  debounce: 0s\n", want: config.ErrInvalidDebounce},
		{name: "ratio", content: "telemetry:\n  sample_ratio: 2\n", want: config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, "astviewer.yaml", tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUseColor(t *testing.T) {
	t.Parallel()

	assert.True(t, config.OutputConfig{Color: config.ColorAuto}.UseColor(true))
	assert.False(t, config.OutputConfig{Color: config.ColorAuto}.UseColor(false))
	assert.True(t, config.OutputConfig{Color: config.ColorAlways}.UseColor(false))
	assert.False(t, config.OutputConfig{Color: config.ColorNever}.UseColor(true))
}

func TestMaxBytesUnlimited(t *testing.T) {
	t.Parallel()

	size, err := config.InputConfig{}.MaxBytes()
	require.NoError(t, err)
	assert.Zero(t, size)
}
