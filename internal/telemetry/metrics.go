package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dshills/chronicle/internal/engine/history"
	"github.com/dshills/chronicle/internal/event"
)

// Metrics publishes engine changes as Prometheus metrics.
// It implements event.Subscriber.
type Metrics[T any] struct {
	changes  *prometheus.CounterVec
	position prometheus.Gauge
	length   prometheus.Gauge
	applies  *prometheus.HistogramVec
}

var _ event.Subscriber[string] = (*Metrics[string])(nil)

// NewMetrics creates the collectors and registers them with reg.
// It panics if the collectors are already registered, as promauto does.
func NewMetrics[T any](reg prometheus.Registerer, namespace string) *Metrics[T] {
	factory := promauto.With(reg)

	return &Metrics[T]{
		changes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_changes_total",
			Help:      "Committed state changes by kind",
		}, []string{"kind"}),
		position: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_cursor_position",
			Help:      "Position of the active state",
		}),
		length: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_snapshots",
			Help:      "Number of recorded snapshots",
		}),
		applies: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_apply_duration_seconds",
			Help:      "Duration of command Apply calls",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"result"}),
	}
}

// Notify records change.
func (m *Metrics[T]) Notify(change event.Change[T]) error {
	m.changes.WithLabelValues(change.Kind.String()).Inc()
	m.position.Set(float64(change.Position))
	m.length.Set(float64(change.Len))
	return nil
}

// Instrument wraps cmd so each Apply is timed. The result implements
// history.Inverter only when cmd does.
func (m *Metrics[T]) Instrument(cmd history.Command[T]) history.Command[T] {
	timed := &timedCommand[T]{Command: cmd, applies: m.applies}
	if inv, ok := cmd.(history.Inverter[T]); ok {
		return &timedInverter[T]{timedCommand: timed, inv: inv}
	}
	return timed
}

// timedCommand observes Apply durations.
type timedCommand[T any] struct {
	history.Command[T]
	applies *prometheus.HistogramVec
}

func (c *timedCommand[T]) Apply(target T) error {
	start := time.Now()
	err := c.Command.Apply(target)

	result := "ok"
	if err != nil {
		result = "error"
	}
	c.applies.WithLabelValues(result).Observe(time.Since(start).Seconds())
	return err
}

// timedInverter is a timedCommand over an invertible command.
type timedInverter[T any] struct {
	*timedCommand[T]
	inv history.Inverter[T]
}

func (c *timedInverter[T]) Invert(target T) error {
	return c.inv.Invert(target)
}
