package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/chronicle/internal/config"
	"github.com/dshills/chronicle/internal/script"
)

const testScript = `
function upper(text)
  return string.upper(text)
end

function shout(text)
  return text .. "!"
end

function broken(text)
  error("boom")
end
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.LogOutput == nil {
		opts.LogOutput = &bytes.Buffer{}
	}
	app, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { app.Shutdown(context.Background()) })
	return app
}

func TestNewDefaults(t *testing.T) {
	app := newTestApp(t, Options{})

	if got := app.Engine().Current().Text(); got != "" {
		t.Errorf("initial text = %q, want empty", got)
	}
	if app.Config().History.MaxEntries != config.Default().History.MaxEntries {
		t.Errorf("MaxEntries = %d", app.Config().History.MaxEntries)
	}
	if err := app.RunScript(context.Background(), "upper"); !errors.Is(err, ErrNoScript) {
		t.Errorf("RunScript() without script = %v, want ErrNoScript", err)
	}
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, Options{
		InputPath:  writeFile(t, dir, "input.txt", "hello"),
		ScriptPath: writeFile(t, dir, "edit.lua", testScript),
	})
	ctx := context.Background()

	if err := app.RunScript(ctx, "upper"); err != nil {
		t.Fatal(err)
	}
	if err := app.RunScript(ctx, "shout"); err != nil {
		t.Fatal(err)
	}
	if got := app.Engine().Current().Text(); got != "HELLO!" {
		t.Errorf("text = %q, want %q", got, "HELLO!")
	}

	if _, err := app.Engine().Undo(); err != nil {
		t.Fatal(err)
	}
	if got := app.Engine().Current().Text(); got != "HELLO" {
		t.Errorf("after undo = %q, want %q", got, "HELLO")
	}

	hist := app.Engine().History()
	if len(hist) != 3 || hist[1].Description != "lua upper" {
		t.Errorf("History() = %+v", hist)
	}
}

func TestRunScriptFailure(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, Options{
		InputPath:  writeFile(t, dir, "input.txt", "keep"),
		ScriptPath: writeFile(t, dir, "edit.lua", testScript),
	})

	err := app.RunScript(context.Background(), "broken")
	if err == nil {
		t.Fatal("RunScript(broken) should fail")
	}
	if !strings.Contains(err.Error(), "run broken") {
		t.Errorf("error = %v", err)
	}

	err = app.RunScript(context.Background(), "missing")
	if !errors.Is(err, script.ErrFunctionNotFound) {
		t.Errorf("RunScript(missing) = %v, want ErrFunctionNotFound", err)
	}

	if app.Engine().Len() != 0 || app.Engine().Current().Text() != "keep" {
		t.Errorf("failed scripts changed history: len=%d text=%q",
			app.Engine().Len(), app.Engine().Current().Text())
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "chronicle.toml", `
[history]
max_entries = 1

[log]
level = "debug"
format = "json"
`)
	var logs bytes.Buffer
	app := newTestApp(t, Options{
		ConfigPath: cfgPath,
		ScriptPath: writeFile(t, dir, "edit.lua", testScript),
		LogOutput:  &logs,
	})

	for i := 0; i < 3; i++ {
		if err := app.RunScript(context.Background(), "shout"); err != nil {
			t.Fatal(err)
		}
	}
	if app.Engine().Len() != 1 {
		t.Errorf("Len() = %d, want 1", app.Engine().Len())
	}
	if got := app.Engine().Current().Text(); got != "!!!" {
		t.Errorf("text = %q", got)
	}
	if !strings.Contains(logs.String(), `"msg":"document changed"`) {
		t.Errorf("expected JSON change log, got:\n%s", logs.String())
	}
}

func TestLogLevelOverride(t *testing.T) {
	var logs bytes.Buffer
	newTestApp(t, Options{LogLevel: "debug", LogOutput: &logs})

	if !strings.Contains(logs.String(), "application started") {
		t.Errorf("debug log missing:\n%s", logs.String())
	}
}

func TestInitErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name      string
		opts      Options
		component string
	}{
		{
			name:      "invalid config",
			opts:      Options{ConfigPath: writeFile(t, dir, "bad.toml", "[history]\nmax_entries = -1\n")},
			component: "config",
		},
		{
			name:      "unknown format",
			opts:      Options{ConfigPath: writeFile(t, dir, "bad.ini", "x=1")},
			component: "config",
		},
		{
			name:      "bad log level",
			opts:      Options{LogLevel: "loud"},
			component: "logging",
		},
		{
			name:      "missing input",
			opts:      Options{InputPath: filepath.Join(dir, "nope.txt")},
			component: "document",
		},
		{
			name:      "bad script",
			opts:      Options{ScriptPath: writeFile(t, dir, "bad.lua", "function (")},
			component: "script",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.LogOutput = &bytes.Buffer{}
			_, err := New(context.Background(), tt.opts)

			var ierr *InitError
			if !errors.As(err, &ierr) {
				t.Fatalf("New() error = %v, want *InitError", err)
			}
			if ierr.Component != tt.component {
				t.Errorf("Component = %q, want %q", ierr.Component, tt.component)
			}
			if !strings.HasPrefix(err.Error(), "init "+tt.component+": ") {
				t.Errorf("Error() = %q", err.Error())
			}
		})
	}
}

func TestWriteMetrics(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHRONICLE_METRICS_ENABLED", "true")
	app := newTestApp(t, Options{ScriptPath: writeFile(t, dir, "edit.lua", testScript)})

	if err := app.RunScript(context.Background(), "shout"); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "metrics.prom")
	if err := app.WriteMetrics(out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`chronicle_history_changes_total{kind="record"} 1`,
		"chronicle_command_apply_duration_seconds",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %q:\n%s", want, data)
		}
	}
}

func TestWriteMetricsDisabled(t *testing.T) {
	app := newTestApp(t, Options{})
	out := filepath.Join(t.TempDir(), "metrics.prom")
	if err := app.WriteMetrics(out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("metrics file written while disabled: %v", err)
	}
}

func TestShutdownIdempotent(t *testing.T) {
	dir := t.TempDir()
	app, err := New(context.Background(), Options{
		ScriptPath: writeFile(t, dir, "edit.lua", testScript),
		LogOutput:  &bytes.Buffer{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() = %v", err)
	}
}
