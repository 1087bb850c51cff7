package config

import "time"

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Output defaults.
const (
	DefaultOutputFormat    = "tree"
	DefaultOutputColor     = "auto"
	DefaultOutputShowTypes = false
	DefaultOutputShowSpans = false
)

// Input defaults.
const (
	DefaultMaxFileSize = "4MB"
)

// Viewer defaults. Colors are lipgloss color strings.
const (
	DefaultViewerHighlight = "#FFD75F"
	DefaultViewerAccent    = "#5FAFFF"
)

// Watch defaults.
const (
	DefaultWatchDebounce = 200 * time.Millisecond
)

// Telemetry defaults.
const (
	DefaultTelemetryServiceName = "astviewer"
	DefaultTelemetryInsecure    = false
	DefaultTelemetrySampleRatio = 0.0
	DefaultTelemetryPrometheus  = false
	DefaultTelemetryMetricsAddr = "127.0.0.1:9464"
)
