package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astviewer/pkg/config"
	"github.com/Sumatoshi-tech/astviewer/pkg/inspect"
	"github.com/Sumatoshi-tech/astviewer/pkg/observability"
	"github.com/Sumatoshi-tech/astviewer/pkg/version"
)

const metricsReadHeaderTimeout = 5 * time.Second

// commandModes maps long-running commands to their telemetry mode.
var commandModes = map[string]observability.AppMode{ //nolint:gochecknoglobals // Read-only lookup table.
	"view":  observability.ModeViewer,
	"watch": observability.ModeWatch,
}

// app is the state shared by all commands of one invocation.
type app struct {
	cfgFile string
	verbose bool
	quiet   bool

	cfg       *config.Config
	providers observability.Providers
	logger    *slog.Logger
	inspector *inspect.Inspector
	metrics   *http.Server
}

func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return err
	}

	a.cfg = cfg

	obsCfg, err := a.observabilityConfig(cmd.Name())
	if err != nil {
		return err
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	a.providers = providers
	a.logger = providers.Logger

	// The viewer owns the terminal; log records would tear its frame.
	if obsCfg.Mode == observability.ModeViewer {
		a.logger = observability.NewLogger(io.Discard, obsCfg)
	}

	slog.SetDefault(a.logger)

	maxBytes, err := cfg.Input.MaxBytes()
	if err != nil {
		return err
	}

	a.inspector = inspect.New(providers.Tracer, a.logger)
	a.inspector.Metrics = providers.Build
	a.inspector.MaxBytes = maxBytes
	a.inspector.Stdin = cmd.InOrStdin()

	if obsCfg.Mode != observability.ModeCLI {
		return a.serveMetrics(cmd.Context())
	}

	return nil
}

func (a *app) observabilityConfig(command string) (observability.Config, error) {
	obsCfg := observability.DefaultConfig()

	level, err := a.cfg.Logging.SlogLevel()
	if err != nil {
		return obsCfg, err
	}

	switch {
	case a.verbose:
		level = slog.LevelDebug
	case a.quiet:
		level = slog.LevelError
	}

	tel := a.cfg.Telemetry

	obsCfg.LogLevel = level
	obsCfg.LogJSON = a.cfg.Logging.JSON()
	obsCfg.ServiceName = tel.ServiceName
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = tel.Environment
	obsCfg.OTLPEndpoint = tel.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(tel.OTLPHeaders)
	obsCfg.OTLPInsecure = tel.OTLPInsecure
	obsCfg.SampleRatio = tel.SampleRatio
	obsCfg.Prometheus = tel.Prometheus

	if mode, ok := commandModes[command]; ok {
		obsCfg.Mode = mode
	}

	return obsCfg, nil
}

// serveMetrics exposes the Prometheus scrape handler when one is configured.
func (a *app) serveMetrics(ctx context.Context) error {
	if a.providers.Metrics == nil || a.cfg.Telemetry.MetricsAddr == "" {
		return nil
	}

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", a.cfg.Telemetry.MetricsAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.Telemetry.MetricsAddr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.providers.Metrics)

	a.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: metricsReadHeaderTimeout}

	go func() {
		serveErr := a.metrics.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "error", serveErr)
		}
	}()

	a.logger.InfoContext(ctx, "serving metrics", "addr", listener.Addr().String())

	return nil
}

// close stops the metrics server and flushes telemetry.
func (a *app) close(ctx context.Context) {
	if a.metrics != nil {
		err := a.metrics.Shutdown(ctx)
		if err != nil {
			a.logger.WarnContext(ctx, "metrics server shutdown", "error", err)
		}
	}

	if a.providers.Shutdown != nil {
		err := a.providers.Shutdown(ctx)
		if err != nil && a.logger != nil {
			a.logger.WarnContext(ctx, "telemetry shutdown", "error", err)
		}
	}
}

// useColor reports whether output written to w gets ANSI colors.
func (a *app) useColor(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}

	return a.cfg.Output.UseColor(isTerminal(w))
}

// isTerminal relies on fatih/color, which turns itself off when stdout is
// not a terminal or NO_COLOR is set.
func isTerminal(w io.Writer) bool {
	return w == os.Stdout && !color.NoColor
}
