package engine

import (
	"log/slog"

	"github.com/dshills/chronicle/internal/config"
	"github.com/dshills/chronicle/internal/event"
)

// OptionsFromConfig translates cfg into engine options. logger may be nil.
func OptionsFromConfig(cfg config.Config, logger *slog.Logger) []Option {
	opts := []Option{
		WithMaxEntries(cfg.History.MaxEntries),
		WithLogger(logger),
	}
	if cfg.Notify.ErrorPolicy == config.PolicyReport {
		opts = append(opts, WithErrorHandler(event.LogErrorHandler(loggerOrDiscard(logger))))
	}
	return opts
}

// Reconfigure applies the settings of cfg that can change on a live engine:
// the snapshot bound and the subscriber error policy. Lowering the bound
// trims the oldest snapshots immediately.
func (e *Engine[T]) Reconfigure(cfg config.Config) {
	e.SetMaxEntries(cfg.History.MaxEntries)

	switch cfg.Notify.ErrorPolicy {
	case config.PolicyReport:
		e.SetErrorHandler(event.LogErrorHandler(e.logger))
	default:
		e.SetErrorHandler(nil)
	}

	e.logger.Info("engine reconfigured",
		slog.Int("max_entries", cfg.History.MaxEntries),
		slog.String("error_policy", string(cfg.Notify.ErrorPolicy)),
	)
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
