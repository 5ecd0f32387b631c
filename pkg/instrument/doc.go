// Package instrument adapts the engine's hook seam to standard
// observability backends: a Prometheus collector for graph activity
// counters and an OpenTelemetry emitter producing one span per tracked
// effect run.
//
// Both adapters attach through reactive.Hooks and never reach into the
// engine, so they can be combined freely and left out entirely in
// hot paths.
//
//	eng := reactive.New()
//	instrument.Observe(eng, instrument.WithNamespace("myapp"))
//	eng.AddHooks(instrument.Tracing())
package instrument
