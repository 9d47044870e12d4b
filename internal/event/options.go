package event

import "log/slog"

// ErrorHandler receives the aggregated failures of a broadcast round.
type ErrorHandler func(err *BroadcastError)

// BusOption configures a Bus.
type BusOption func(*busConfig)

// busConfig contains configuration for the bus.
type busConfig struct {
	// errorHandler, when set, receives broadcast failures instead of the caller.
	errorHandler ErrorHandler

	// logger records subscriber failures.
	logger *slog.Logger
}

// defaultBusConfig returns the default configuration.
func defaultBusConfig() busConfig {
	return busConfig{
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithErrorHandler routes broadcast failures to h. Broadcast then returns nil.
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(c *busConfig) {
		c.errorHandler = h
	}
}

// WithLogger sets the logger used to record subscriber failures.
func WithLogger(logger *slog.Logger) BusOption {
	return func(c *busConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// LogErrorHandler returns an ErrorHandler that logs failures at warn level.
func LogErrorHandler(logger *slog.Logger) ErrorHandler {
	return func(err *BroadcastError) {
		logger.Warn("broadcast failed",
			slog.String("kind", err.Kind.String()),
			slog.Int("failures", len(err.Errors)),
			slog.Any("error", err),
		)
	}
}
