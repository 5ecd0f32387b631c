package instrument

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Default tracer name for reactive engines.
const defaultTracerName = "reactive"

// TracingConfig configures the OpenTelemetry hooks.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "reactive").
	TracerName string

	// Filter determines which effect runs to trace.
	// Return true to trace the run, false to skip.
	// If nil, all runs are traced.
	Filter func(*reactive.Effect) bool

	// AttributeExtractor extracts custom attributes from the effect.
	// Called for each traced run.
	AttributeExtractor func(*reactive.Effect) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// TracingOption configures the OpenTelemetry hooks.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithEffectFilter sets a filter function for effect runs.
func WithEffectFilter(filter func(*reactive.Effect) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(*reactive.Effect) []attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultTracingConfig returns the default tracing configuration.
func defaultTracingConfig() TracingConfig {
	return TracingConfig{
		TracerName: defaultTracerName,
	}
}

// Tracing returns hooks that emit one span per tracked effect run.
//
// The run hook fires after the run finished, so the span is built from
// the measured duration with explicit timestamps; it carries the effect
// ID and whether the effect is derived. Its parent is whatever span is
// current in the calling goroutine's background, which for synchronous
// re-runs means the spans appear as siblings of the mutation that caused
// them.
//
// The tracer comes from the global OpenTelemetry tracer provider.
// Configure it in main() before creating engines:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
//	eng := reactive.New(reactive.WithHooks(instrument.Tracing()))
func Tracing(opts ...TracingOption) reactive.Hooks {
	config := defaultTracingConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Resolve tracer from global provider
	config.tracer = otel.Tracer(config.TracerName)

	return reactive.Hooks{
		EffectRun: func(eff *reactive.Effect, took time.Duration) {
			if config.Filter != nil && !config.Filter(eff) {
				return
			}

			end := time.Now()
			attrs := []attribute.KeyValue{
				attribute.Int64("reactive.effect_id", int64(eff.ID())),
				attribute.Bool("reactive.computed", eff.Computed()),
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(eff)...)
			}

			_, span := config.tracer.Start(
				context.Background(),
				"reactive.effect.run",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
				trace.WithTimestamp(end.Add(-took)),
			)
			span.End(trace.WithTimestamp(end))
		},
	}
}
