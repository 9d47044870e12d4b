package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/chronicle/internal/config"
	"github.com/dshills/chronicle/internal/engine/history"
)

// tracerName identifies spans created by this package.
const tracerName = "github.com/dshills/chronicle"

// Setup initialises OpenTelemetry tracing as configured by cfg.
//
// Tracing is opt-in: when cfg is disabled or has no endpoint, Setup returns
// a no-op shutdown function and no global provider is registered.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, cfg config.Tracing) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if !cfg.Enabled || cfg.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// TracedCommand wraps a command so each Apply runs inside a span.
type TracedCommand[T any] struct {
	cmd    history.Command[T]
	ctx    context.Context
	tracer trace.Tracer
}

// Trace wraps cmd. Spans are children of the span in ctx and are created by
// tracer, or by the global provider when tracer is nil.
//
// The result is a *TracedCommand, extended with an Invert method when cmd
// implements history.Inverter.
func Trace[T any](ctx context.Context, cmd history.Command[T], tracer trace.Tracer) history.Command[T] {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	traced := &TracedCommand[T]{cmd: cmd, ctx: ctx, tracer: tracer}
	if inv, ok := cmd.(history.Inverter[T]); ok {
		return &tracedInverter[T]{TracedCommand: traced, inv: inv}
	}
	return traced
}

// Apply runs the wrapped command inside a "history.Command.Apply" span.
func (c *TracedCommand[T]) Apply(target T) error {
	_, span := c.tracer.Start(c.ctx, "history.Command.Apply",
		trace.WithAttributes(
			attribute.String("command.description", c.cmd.Description()),
			attribute.Bool("command.invertible", history.Invertible(c.cmd)),
		),
	)
	defer span.End()

	if err := c.cmd.Apply(target); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// tracedInverter is a TracedCommand over an invertible command.
type tracedInverter[T any] struct {
	*TracedCommand[T]
	inv history.Inverter[T]
}

// Invert runs the wrapped command's Invert inside a span.
func (c *tracedInverter[T]) Invert(target T) error {
	_, span := c.tracer.Start(c.ctx, "history.Command.Invert",
		trace.WithAttributes(
			attribute.String("command.description", c.cmd.Description()),
		),
	)
	defer span.End()

	if err := c.inv.Invert(target); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Description returns the wrapped command's description.
func (c *TracedCommand[T]) Description() string {
	return c.cmd.Description()
}

// Unwrap returns the wrapped command.
func (c *TracedCommand[T]) Unwrap() history.Command[T] {
	return c.cmd
}
