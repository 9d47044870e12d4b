package config

import (
	"errors"
	"log/slog"

	"github.com/dshills/chronicle/internal/config/watcher"
)

// Watch reloads the configuration whenever the file at path changes and
// passes each valid result to onReload. A file that fails to load or
// validate is logged and skipped; the previous configuration stays in
// effect. Close the returned watcher to stop.
func Watch(path string, onReload func(Config), opts ...Option) (*watcher.Watcher, error) {
	o := newOptions(opts)

	w, err := watcher.New(
		watcher.WithDebounce(o.debounce),
		watcher.WithLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}

	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		cfg, err := load(path, o)
		if err != nil {
			o.logger.Warn("config reload failed",
				slog.String("path", ev.Path),
				slog.Any("error", err),
			)
			return
		}
		o.logger.Info("config reloaded", slog.String("path", ev.Path))
		onReload(cfg)
	})

	if err := w.Watch(path); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	return w, nil
}
