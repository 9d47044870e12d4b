package engine

import (
	"log/slog"

	"github.com/dshills/chronicle/internal/event"
)

// Option configures an Engine during creation.
type Option func(*options)

// options collects engine settings before the generic Engine is built.
type options struct {
	maxEntries   int
	logger       *slog.Logger
	errorHandler event.ErrorHandler
}

// WithMaxEntries bounds the number of recorded snapshots.
// Zero means unbounded, which is the default.
func WithMaxEntries(max int) Option {
	return func(o *options) {
		if max >= 0 {
			o.maxEntries = max
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithErrorHandler routes subscriber failures to h instead of returning them
// from the operation that triggered the broadcast.
func WithErrorHandler(h event.ErrorHandler) Option {
	return func(o *options) {
		o.errorHandler = h
	}
}
