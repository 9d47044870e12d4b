package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/chronicle/internal/config/loader"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "CHRONICLE_"

// Option configures Load and Watch.
type Option func(*options)

type options struct {
	fs       loader.FileSystem
	environ  map[string]string
	logger   *slog.Logger
	debounce time.Duration
}

func newOptions(opts []Option) options {
	o := options{
		fs:       loader.DefaultFS(),
		logger:   slog.New(slog.DiscardHandler),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFileSystem reads config files from fsys instead of the OS.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnvironment reads overrides from environ instead of the process
// environment.
func WithEnvironment(environ map[string]string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// WithLogger sets the logger Watch reports reload failures to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDebounce sets how long Watch waits for writes to settle.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// Load resolves the configuration: defaults, then the file at path (TOML
// or YAML by extension), then CHRONICLE_* environment variables. An empty
// path or a missing file skips the file layer. The result is validated.
func Load(path string, opts ...Option) (Config, error) {
	return load(path, newOptions(opts))
}

func load(path string, o options) (Config, error) {
	cfg := Default()

	if path != "" {
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return Config{}, err
		}
		if _, err := l.Load(&cfg); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	var env loader.Loader
	if o.environ != nil {
		env = loader.NewEnvLoaderWithEnvironment(EnvPrefix, o.environ)
	} else {
		env = loader.NewEnvLoader(EnvPrefix)
	}
	if _, err := env.Load(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
