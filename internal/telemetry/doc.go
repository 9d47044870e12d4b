// Package telemetry exposes history engine activity to Prometheus and
// OpenTelemetry.
//
// Metrics is an engine subscriber: register it and every record, undo,
// redo and restore is counted, and the cursor and timeline length are
// published as gauges. Metrics.Instrument and Trace wrap commands to time
// and trace their Apply.
//
//	m := telemetry.NewMetrics[*document.Document](prometheus.DefaultRegisterer, "chronicle")
//	eng.Subscribe(m)
//	eng.Execute(telemetry.Trace(ctx, m.Instrument(document.Append("x")), nil))
package telemetry
