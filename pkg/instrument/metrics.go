package instrument

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for effect run duration. Effect
	// runs are usually far below a millisecond, so the default starts at
	// one microsecond: 1µs, 10µs, ... 10s.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collector.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the run duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "reactive",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.ExponentialBuckets(1e-6, 10, 8),
		Registry:    prometheus.DefaultRegisterer,
	}
}

// Collector holds the Prometheus metrics fed by one engine's hooks.
// Metrics register at construction time; one Collector per registry.
//
// Metrics collected:
//   - reactive_tracks_total: Counter of dependency edges recorded
//   - reactive_triggers_total: Counter of delivered triggers by operation
//   - reactive_notified_effects_total: Counter of effects notified
//   - reactive_effect_runs_total: Counter of tracked effect runs
//   - reactive_effect_run_duration_seconds: Histogram of run duration
//   - reactive_live_effects: Gauge of live effects (Observe only)
type Collector struct {
	config MetricsConfig

	tracksTotal     prometheus.Counter
	triggersTotal   *prometheus.CounterVec
	notifiedEffects prometheus.Counter
	effectRunsTotal prometheus.Counter
	runDuration     prometheus.Histogram
	liveEffects     prometheus.GaugeFunc
}

// NewCollector registers the activity metrics and returns the collector.
// Attach it to one or more engines with AddHooks(c.Hooks()); counters
// then aggregate across all of them. The live-effects gauge needs a
// single engine to read from, so only Observe registers it.
func NewCollector(opts ...MetricsOption) *Collector {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Collector{
		config: config,

		tracksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tracks_total",
			Help:        "Total number of dependency edges recorded by running effects",
			ConstLabels: config.ConstLabels,
		}),

		triggersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggers_total",
			Help:        "Total number of change notifications delivered to known targets",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		notifiedEffects: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notified_effects_total",
			Help:        "Total number of effects notified by triggers",
			ConstLabels: config.ConstLabels,
		}),

		effectRunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of tracked effect runs",
			ConstLabels: config.ConstLabels,
		}),

		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_run_duration_seconds",
			Help:        "Effect run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Hooks returns the hook set feeding this collector. Register it with
// Engine.AddHooks, or via reactive.WithHooks at construction.
func (c *Collector) Hooks() reactive.Hooks {
	return reactive.Hooks{
		Track: func(reactive.TrackEvent) {
			c.tracksTotal.Inc()
		},
		Trigger: func(ev reactive.TriggerEvent, notified int) {
			c.triggersTotal.WithLabelValues(ev.Op.String()).Inc()
			c.notifiedEffects.Add(float64(notified))
		},
		EffectRun: func(_ *reactive.Effect, took time.Duration) {
			c.effectRunsTotal.Inc()
			c.runDuration.Observe(took.Seconds())
		},
	}
}

// Observe registers a collector for eng and attaches its hooks, plus a
// live-effects gauge read from the engine's stats. Call it before the
// engine starts running effects so the first runs are counted.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	eng := reactive.New()
//	instrument.Observe(eng, instrument.WithRegistry(reg))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
func Observe(eng *reactive.Engine, opts ...MetricsOption) *Collector {
	c := NewCollector(opts...)
	c.liveEffects = promauto.With(c.config.Registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        "live_effects",
		Help:        "Number of live (not stopped) effects",
		ConstLabels: c.config.ConstLabels,
	}, func() float64 {
		return float64(eng.Stats().Effects)
	})
	eng.AddHooks(c.Hooks())
	return c
}
