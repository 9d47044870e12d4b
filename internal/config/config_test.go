package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func noEnv() Option {
	return WithEnvironment(map[string]string{})
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.History.MaxEntries != 0 {
		t.Errorf("MaxEntries = %d, want unbounded", cfg.History.MaxEntries)
	}
	if cfg.Notify.ErrorPolicy != PolicyReturn {
		t.Errorf("ErrorPolicy = %q", cfg.Notify.ErrorPolicy)
	}
	if cfg.Script.Timeout.Std() != 5*time.Second {
		t.Errorf("Script.Timeout = %s", cfg.Script.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"negative max entries", func(c *Config) { c.History.MaxEntries = -1 }, "history.max_entries"},
		{"bad policy", func(c *Config) { c.Notify.ErrorPolicy = "ignore" }, "notify.error_policy"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"metrics without namespace", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Namespace = ""
		}, "metrics.namespace"},
		{"tracing without endpoint", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Endpoint = ""
		}, "tracing.endpoint"},
		{"negative timeout", func(c *Config) { c.Script.Timeout = Duration(-time.Second) }, "script.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("Validate() = %v, want ErrValidationFailed", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.History.MaxEntries = -5
	cfg.Log.Format = "xml"

	var verr *ValidationError
	if !errors.As(cfg.Validate(), &verr) {
		t.Fatal("expected *ValidationError")
	}
	if len(verr.Problems) != 2 {
		t.Errorf("Problems = %v, want 2", verr.Problems)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(verbose) should fail")
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("250ms")); err != nil {
		t.Fatal(err)
	}
	if d.Std() != 250*time.Millisecond {
		t.Errorf("d = %s", d)
	}
	text, _ := d.MarshalText()
	if string(text) != "250ms" {
		t.Errorf("MarshalText() = %q", text)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("UnmarshalText(soon) should fail")
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "chronicle.toml", `
[history]
max_entries = 50

[notify]
error_policy = "report"

[log]
level = "debug"
format = "json"

[script]
timeout = "2s"
`)

	cfg, err := Load(path, noEnv())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.History.MaxEntries != 50 {
		t.Errorf("MaxEntries = %d", cfg.History.MaxEntries)
	}
	if cfg.Notify.ErrorPolicy != PolicyReport {
		t.Errorf("ErrorPolicy = %q", cfg.Notify.ErrorPolicy)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Script.Timeout.Std() != 2*time.Second {
		t.Errorf("Timeout = %s", cfg.Script.Timeout)
	}
	// Untouched sections keep defaults
	if cfg.Tracing.ServiceName != "chronicle" {
		t.Errorf("ServiceName = %q", cfg.Tracing.ServiceName)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "chronicle.yaml", `
history:
  max_entries: 7
metrics:
  enabled: true
  namespace: app
script:
  timeout: 500ms
`)

	cfg, err := Load(path, noEnv())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.History.MaxEntries != 7 {
		t.Errorf("MaxEntries = %d", cfg.History.MaxEntries)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "app" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if cfg.Script.Timeout.Std() != 500*time.Millisecond {
		t.Errorf("Timeout = %s", cfg.Script.Timeout)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, err := Load(path, noEnv())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("", noEnv())
	if err != nil || cfg != Default() {
		t.Errorf("Load(\"\") = %+v, %v", cfg, err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "chronicle.toml", "[history]\nmax_entries = 50\n")

	cfg, err := Load(path, WithEnvironment(map[string]string{
		"CHRONICLE_HISTORY_MAX_ENTRIES": "3",
		"CHRONICLE_LOG_LEVEL":           "warn",
		"CHRONICLE_SCRIPT_TIMEOUT":      "1m",
		"UNRELATED":                     "x",
	}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.History.MaxEntries != 3 {
		t.Errorf("MaxEntries = %d, want env override 3", cfg.History.MaxEntries)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
	if cfg.Script.Timeout.Std() != time.Minute {
		t.Errorf("Timeout = %s", cfg.Script.Timeout)
	}
}

func TestLoadProcessEnvironment(t *testing.T) {
	t.Setenv("CHRONICLE_NOTIFY_ERROR_POLICY", "report")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Notify.ErrorPolicy != PolicyReport {
		t.Errorf("ErrorPolicy = %q", cfg.Notify.ErrorPolicy)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		env     map[string]string
	}{
		{"unsupported extension", "chronicle.ini", "x=1", nil},
		{"malformed toml", "chronicle.toml", "[history\n", nil},
		{"unknown toml key", "chronicle.toml", "[history]\nmax = 1\n", nil},
		{"unknown yaml key", "chronicle.yaml", "history:\n  max: 1\n", nil},
		{"invalid value", "chronicle.toml", "[history]\nmax_entries = -1\n", nil},
		{"bad env value", "chronicle.toml", "", map[string]string{"CHRONICLE_HISTORY_MAX_ENTRIES": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			env := tt.env
			if env == nil {
				env = map[string]string{}
			}
			if _, err := Load(path, WithEnvironment(env)); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

func TestWatchReloads(t *testing.T) {
	path := writeFile(t, "chronicle.toml", "[history]\nmax_entries = 1\n")

	reloaded := make(chan Config, 4)
	w, err := Watch(path, func(cfg Config) { reloaded <- cfg }, noEnv(), WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[history]\nmax_entries = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.History.MaxEntries != 9 {
			t.Errorf("reloaded MaxEntries = %d, want 9", cfg.History.MaxEntries)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}
}

func TestWatchSkipsInvalidFile(t *testing.T) {
	path := writeFile(t, "chronicle.toml", "[history]\nmax_entries = 1\n")

	reloaded := make(chan Config, 4)
	w, err := Watch(path, func(cfg Config) { reloaded <- cfg }, noEnv(), WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[history]\nmax_entries = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		t.Errorf("invalid config delivered: %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "chronicle.toml")

	w, err := Watch(path, func(Config) { t.Error("unexpected reload") }, noEnv())
	if err == nil {
		w.Close()
		t.Fatal("Watch() in a missing directory should fail")
	}
	if w != nil {
		t.Error("Watch() should not return a watcher on error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Watch() error = %v, want a not-exist error", err)
	}
}
