// Package observability sets up OpenTelemetry tracing and metrics and the
// trace-aware slog logger shared by every astviewer command.
package observability

import "log/slog"

// AppMode identifies how the binary was started.
type AppMode string

// Application modes.
const (
	ModeCLI    AppMode = "cli"
	ModeViewer AppMode = "viewer"
	ModeWatch  AppMode = "watch"
)

const (
	defaultServiceName        = "astviewer"
	defaultShutdownTimeoutSec = 5
)

// Config controls telemetry and logging setup.
type Config struct {
	// OTLPHeaders are sent with every export request.
	OTLPHeaders map[string]string

	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// OTLPEndpoint is the gRPC collector address. Empty disables export.
	OTLPEndpoint string
	OTLPInsecure bool

	// Prometheus registers a scrape reader; Providers.Metrics serves it.
	Prometheus bool

	// SampleRatio is the root span sampling ratio; zero samples everything.
	SampleRatio float64

	ShutdownTimeoutSec int

	LogLevel slog.Level
	LogJSON  bool

	// DebugTrace samples every span and logs attributes the filter drops.
	DebugTrace bool
}

// DefaultConfig returns a no-export configuration logging at info level.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
		LogLevel:           slog.LevelInfo,
	}
}
