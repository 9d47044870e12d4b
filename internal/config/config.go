package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrorPolicy selects what happens when a subscriber fails.
type ErrorPolicy string

const (
	// PolicyReturn reports subscriber failures to the caller of the operation.
	PolicyReturn ErrorPolicy = "return"

	// PolicyReport logs subscriber failures and lets the operation succeed.
	PolicyReport ErrorPolicy = "report"
)

// Config is the complete engine configuration.
type Config struct {
	History History `toml:"history" yaml:"history" envPrefix:"HISTORY_"`
	Notify  Notify  `toml:"notify" yaml:"notify" envPrefix:"NOTIFY_"`
	Log     Log     `toml:"log" yaml:"log" envPrefix:"LOG_"`
	Metrics Metrics `toml:"metrics" yaml:"metrics" envPrefix:"METRICS_"`
	Tracing Tracing `toml:"tracing" yaml:"tracing" envPrefix:"TRACING_"`
	Script  Script  `toml:"script" yaml:"script" envPrefix:"SCRIPT_"`
}

// History configures the timeline.
type History struct {
	// MaxEntries bounds the number of recorded snapshots. 0 means unbounded.
	MaxEntries int `toml:"max_entries" yaml:"max_entries" env:"MAX_ENTRIES"`
}

// Notify configures change notification.
type Notify struct {
	ErrorPolicy ErrorPolicy `toml:"error_policy" yaml:"error_policy" env:"ERROR_POLICY"`
}

// Log configures the structured logger.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level" env:"LEVEL"`

	// Format is text or json.
	Format string `toml:"format" yaml:"format" env:"FORMAT"`
}

// Metrics configures the Prometheus collectors.
type Metrics struct {
	Enabled   bool   `toml:"enabled" yaml:"enabled" env:"ENABLED"`
	Namespace string `toml:"namespace" yaml:"namespace" env:"NAMESPACE"`
}

// Tracing configures OpenTelemetry export.
type Tracing struct {
	Enabled bool `toml:"enabled" yaml:"enabled" env:"ENABLED"`

	// Endpoint is the OTLP/HTTP collector URL.
	Endpoint    string `toml:"endpoint" yaml:"endpoint" env:"ENDPOINT"`
	ServiceName string `toml:"service_name" yaml:"service_name" env:"SERVICE_NAME"`
}

// Script configures the Lua command sandbox.
type Script struct {
	// CallStackSize caps Lua call depth. 0 uses the runtime default.
	CallStackSize int `toml:"call_stack_size" yaml:"call_stack_size" env:"CALL_STACK_SIZE"`

	// Timeout bounds a single script command.
	Timeout Duration `toml:"timeout" yaml:"timeout" env:"TIMEOUT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: History{MaxEntries: 0},
		Notify:  Notify{ErrorPolicy: PolicyReturn},
		Log:     Log{Level: "info", Format: "text"},
		Metrics: Metrics{Enabled: false, Namespace: "chronicle"},
		Tracing: Tracing{
			Enabled:     false,
			Endpoint:    "http://localhost:4318",
			ServiceName: "chronicle",
		},
		Script: Script{
			CallStackSize: 0,
			Timeout:       Duration(5 * time.Second),
		},
	}
}

// Validate checks every setting and reports all problems at once.
func (c Config) Validate() error {
	var problems []string

	if c.History.MaxEntries < 0 {
		problems = append(problems, fmt.Sprintf("history.max_entries must be >= 0, got %d", c.History.MaxEntries))
	}

	switch c.Notify.ErrorPolicy {
	case PolicyReturn, PolicyReport:
	default:
		problems = append(problems, fmt.Sprintf("notify.error_policy must be %q or %q, got %q",
			PolicyReturn, PolicyReport, c.Notify.ErrorPolicy))
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		problems = append(problems, "metrics.namespace is required when metrics are enabled")
	}

	if c.Tracing.Enabled {
		if c.Tracing.Endpoint == "" {
			problems = append(problems, "tracing.endpoint is required when tracing is enabled")
		}
		if c.Tracing.ServiceName == "" {
			problems = append(problems, "tracing.service_name is required when tracing is enabled")
		}
	}

	if c.Script.CallStackSize < 0 {
		problems = append(problems, fmt.Sprintf("script.call_stack_size must be >= 0, got %d", c.Script.CallStackSize))
	}
	if c.Script.Timeout < 0 {
		problems = append(problems, fmt.Sprintf("script.timeout must be >= 0, got %s", c.Script.Timeout))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
	}
}
