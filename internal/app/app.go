// Package app wires the history engine to its configuration, logging,
// telemetry and scripting, and manages their lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/chronicle/internal/config"
	"github.com/dshills/chronicle/internal/config/watcher"
	"github.com/dshills/chronicle/internal/document"
	"github.com/dshills/chronicle/internal/engine"
	"github.com/dshills/chronicle/internal/engine/history"
	"github.com/dshills/chronicle/internal/event"
	"github.com/dshills/chronicle/internal/logging"
	"github.com/dshills/chronicle/internal/script"
	"github.com/dshills/chronicle/internal/telemetry"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// InputPath is a file holding the initial document text.
	InputPath string

	// ScriptPath is a Lua file defining the functions Run can apply.
	ScriptPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// Watch reloads the configuration file when it changes.
	Watch bool

	// LogOutput receives log records. Defaults to stderr.
	LogOutput io.Writer
}

// Application owns one engine tracking a text document.
type Application struct {
	mu sync.Mutex

	opts   Options
	config config.Config
	logger *slog.Logger

	engine   *engine.Engine[*document.Document]
	registry *prometheus.Registry
	metrics  *telemetry.Metrics[*document.Document]
	script   *script.State
	watcher  *watcher.Watcher

	shutdownTracing func(context.Context) error
	closed          bool
}

// New creates an Application and starts its components.
func New(ctx context.Context, opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(ctx); err != nil {
		_ = app.Shutdown(ctx)
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap(ctx context.Context) error {
	var err error

	// 1. Config
	app.config, err = config.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if app.opts.LogLevel != "" {
		app.config.Log.Level = app.opts.LogLevel
	}

	// 2. Logging
	out := app.opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	app.logger, err = logging.NewWithWriter(out, app.config.Log)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}

	// 3. Tracing
	app.shutdownTracing, err = telemetry.Setup(ctx, app.config.Tracing)
	if err != nil {
		return &InitError{Component: "tracing", Err: err}
	}

	// 4. Engine
	initial := ""
	if app.opts.InputPath != "" {
		data, err := os.ReadFile(app.opts.InputPath)
		if err != nil {
			return &InitError{Component: "document", Err: err}
		}
		initial = string(data)
	}
	app.engine = engine.New(document.New(initial), engine.OptionsFromConfig(app.config, app.logger)...)

	app.engine.SubscribeFunc(func(c event.Change[*document.Document]) error {
		app.logger.Info("document changed",
			slog.String("kind", c.Kind.String()),
			slog.Int("position", c.Position),
			slog.Int("length", c.Len),
			slog.String("description", c.Description),
		)
		return nil
	})

	// 5. Metrics
	if app.config.Metrics.Enabled {
		app.registry = prometheus.NewRegistry()
		app.metrics = telemetry.NewMetrics[*document.Document](app.registry, app.config.Metrics.Namespace)
		if err := app.engine.Subscribe(app.metrics); err != nil {
			return &InitError{Component: "metrics", Err: err}
		}
	}

	// 6. Script
	if app.opts.ScriptPath != "" {
		app.script, err = script.NewState(script.OptionsFromConfig(app.config.Script)...)
		if err != nil {
			return &InitError{Component: "script", Err: err}
		}
		if err := app.script.DoFile(app.opts.ScriptPath); err != nil {
			return &InitError{Component: "script", Err: err}
		}
	}

	// 7. Config watcher
	if app.opts.Watch && app.opts.ConfigPath != "" {
		app.watcher, err = config.Watch(app.opts.ConfigPath, app.engine.Reconfigure,
			config.WithLogger(app.logger),
		)
		if err != nil {
			return &InitError{Component: "config watcher", Err: err}
		}
	}

	app.logger.Debug("application started",
		slog.String("config", app.opts.ConfigPath),
		slog.Int("max_entries", app.config.History.MaxEntries),
	)
	return nil
}

// Engine returns the document engine.
func (app *Application) Engine() *engine.Engine[*document.Document] {
	return app.engine
}

// Config returns the configuration the application started with.
func (app *Application) Config() config.Config {
	return app.config
}

// RunScript applies the Lua function fn to the document as one command.
func (app *Application) RunScript(ctx context.Context, fn string) error {
	if app.script == nil {
		return ErrNoScript
	}

	var cmd history.Command[*document.Document] = script.NewCommand(app.script, document.LuaBridge{}, fn, "").WithContext(ctx)
	if app.metrics != nil {
		cmd = app.metrics.Instrument(cmd)
	}

	if _, err := app.engine.Execute(telemetry.Trace(ctx, cmd, nil)); err != nil {
		return fmt.Errorf("run %s: %w", fn, err)
	}
	return nil
}

// WriteMetrics writes the current metrics to path in the Prometheus text
// format. It is a no-op when metrics are disabled.
func (app *Application) WriteMetrics(path string) error {
	if app.registry == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, app.registry)
}

// Shutdown stops all components. It is safe to call more than once.
func (app *Application) Shutdown(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.closed {
		return nil
	}
	app.closed = true

	var errs []error
	if app.watcher != nil {
		errs = append(errs, app.watcher.Close())
	}
	if app.script != nil {
		errs = append(errs, app.script.Close())
	}
	if app.shutdownTracing != nil {
		errs = append(errs, app.shutdownTracing(ctx))
	}
	return errors.Join(errs...)
}
