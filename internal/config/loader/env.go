package loader

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvLoader loads configuration from environment variables.
//
// Field names come from the env and envPrefix struct tags, joined to the
// loader's prefix: with prefix "CHRONICLE_", a field tagged env:"LEVEL"
// inside a struct tagged envPrefix:"LOG_" reads CHRONICLE_LOG_LEVEL.
// Unset variables leave fields untouched.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "CHRONICLE_")
	environ map[string]string // Overrides the process environment when non-nil
}

// NewEnvLoader creates a loader reading the process environment.
// The prefix should include the trailing underscore (e.g., "CHRONICLE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix}
}

// NewEnvLoaderWithEnvironment creates a loader reading environ instead of
// the process environment.
func NewEnvLoaderWithEnvironment(prefix string, environ map[string]string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: environ}
}

// Load applies environment overrides to v, which must be a struct pointer.
// The environment always exists, so found is always true.
func (l *EnvLoader) Load(v any) (bool, error) {
	opts := env.Options{
		Prefix:      l.prefix,
		Environment: l.environ,
	}
	if err := env.ParseWithOptions(v, opts); err != nil {
		return true, fmt.Errorf("environment: %w", err)
	}
	return true, nil
}
