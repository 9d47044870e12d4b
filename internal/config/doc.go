// Package config provides configuration for the history engine.
//
// Configuration is resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← CHRONICLE_*, highest priority
//	├─────────────────────────────┤
//	│  2. Config File             │  ← chronicle.toml or chronicle.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: file decoding (TOML, YAML) and environment overrides
//   - watcher: file watching for live reload
//
// # Basic Usage
//
//	cfg, err := config.Load("chronicle.toml")
//	if err != nil {
//	    return err
//	}
//
// A missing file is not an error; defaults and environment still apply.
//
// # Live Reload
//
//	w, err := config.Watch("chronicle.toml", func(cfg config.Config) {
//	    eng.Reconfigure(cfg)
//	})
//	defer w.Close()
package config
