// Package config loads astviewer settings from an optional config file,
// ASTVIEWER_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidOutput      = errors.New("invalid output format")
	ErrInvalidColor       = errors.New("invalid color mode")
	ErrInvalidMaxFileSize = errors.New("invalid max file size")
	ErrInvalidDebounce    = errors.New("watch debounce must be positive")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

const (
	envPrefix  = "ASTVIEWER"
	configName = "astviewer"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds all astviewer settings.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Output    OutputConfig    `mapstructure:"output"`
	Input     InputConfig     `mapstructure:"input"`
	Viewer    ViewerConfig    `mapstructure:"viewer"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Watch     WatchConfig     `mapstructure:"watch"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig controls dump rendering.
type OutputConfig struct {
	Format    string `mapstructure:"format"`
	Color     string `mapstructure:"color"`
	ShowTypes bool   `mapstructure:"show_types"`
	ShowSpans bool   `mapstructure:"show_spans"`
}

// InputConfig limits what is read.
type InputConfig struct {
	MaxFileSize string `mapstructure:"max_file_size"`
}

// ViewerConfig holds the interactive viewer colors.
type ViewerConfig struct {
	Highlight string `mapstructure:"highlight"`
	Accent    string `mapstructure:"accent"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	ServiceName  string  `mapstructure:"service_name"`
	Environment  string  `mapstructure:"environment"`
	MetricsAddr  string  `mapstructure:"metrics_addr"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	Prometheus   bool    `mapstructure:"prometheus"`
}

// LoadConfig loads configuration from file and environment variables. An
// empty configPath searches the working directory and the user config dir
// for astviewer.{yaml,toml,json}; a missing file there is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		if dir, err := os.UserConfigDir(); err == nil {
			viperCfg.AddConfigPath(filepath.Join(dir, configName))
		}
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.color", DefaultOutputColor)
	viperCfg.SetDefault("output.show_types", DefaultOutputShowTypes)
	viperCfg.SetDefault("output.show_spans", DefaultOutputShowSpans)

	viperCfg.SetDefault("input.max_file_size", DefaultMaxFileSize)

	viperCfg.SetDefault("viewer.highlight", DefaultViewerHighlight)
	viperCfg.SetDefault("viewer.accent", DefaultViewerAccent)

	viperCfg.SetDefault("watch.debounce", DefaultWatchDebounce)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultTelemetryInsecure)
	viperCfg.SetDefault("telemetry.service_name", DefaultTelemetryServiceName)
	viperCfg.SetDefault("telemetry.environment", "")
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultTelemetrySampleRatio)
	viperCfg.SetDefault("telemetry.prometheus", DefaultTelemetryPrometheus)
	viperCfg.SetDefault("telemetry.metrics_addr", DefaultTelemetryMetricsAddr)
}

func validateConfig(config *Config) error {
	if _, err := config.Logging.SlogLevel(); err != nil {
		return err
	}

	switch strings.ToLower(config.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	switch strings.ToLower(config.Output.Format) {
	case "tree", "json", "yaml":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutput, config.Output.Format)
	}

	switch strings.ToLower(config.Output.Color) {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidColor, config.Output.Color)
	}

	if _, err := config.Input.MaxBytes(); err != nil {
		return err
	}

	if config.Watch.Debounce <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDebounce, config.Watch.Debounce)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}

// SlogLevel parses Level.
func (lc LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(lc.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, lc.Level)
	}

	return level, nil
}

// JSON reports whether logs should be written as JSON.
func (lc LoggingConfig) JSON() bool {
	return strings.EqualFold(lc.Format, "json")
}

// MaxBytes parses MaxFileSize, e.g. "4MB" or "512KiB". Zero means unlimited.
func (ic InputConfig) MaxBytes() (uint64, error) {
	if strings.TrimSpace(ic.MaxFileSize) == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(ic.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidMaxFileSize, ic.MaxFileSize, err)
	}

	return size, nil
}

// UseColor resolves the color mode against whether the output is a terminal.
func (oc OutputConfig) UseColor(terminal bool) bool {
	switch strings.ToLower(oc.Color) {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}
