package reactive

import (
	"log/slog"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Engine owns one reactive universe: the identity registries, the
// subscriber graph, the stack of running effects and the tracking toggles.
// Engines are independent of each other and cheap to create.
//
// An Engine is not safe for concurrent use from multiple goroutines; see
// the package documentation.
type Engine struct {
	log *slog.Logger

	// Identity and mode registry. Keys are registry identities (the raw
	// pointer itself, or a map identity); values are the single view per
	// mode.
	mutable  map[any]View
	readOnly map[any]View

	// Permanent per-engine tags on raw values.
	roMarked  mapset.Set[any]
	rawMarked mapset.Set[any]

	// Subscriber graph, one entry per raw value that was wrapped or
	// tracked.
	targets map[any]*target

	// Stack of running effects; only the top entry records dependencies.
	stack []*Effect

	// Live effects by ID, for snapshots and stats. Stopped effects drop
	// out.
	effects map[uint64]*Effect

	paused   bool
	roLocked bool

	hooks []Hooks

	// Event counters. Single-flow, so plain integers suffice.
	nTracks   uint64
	nTriggers uint64
	nRuns     uint64
}

// Hooks observes engine activity. All fields are optional. Hook functions
// run synchronously inside the operation that fired them and must not
// block or mutate the engine.
type Hooks struct {
	// Track fires when an effect records a new dependency edge.
	Track func(TrackEvent)
	// Trigger fires once per Trigger call that reached a known target,
	// with the number of effects notified.
	Trigger func(TriggerEvent, int)
	// EffectRun fires after each tracked effect run with its duration.
	EffectRun func(*Effect, time.Duration)
}

// Option configures an Engine.
type Option interface {
	applyEngine(*Engine)
}

type optionFunc func(*Engine)

func (f optionFunc) applyEngine(e *Engine) { f(e) }

// WithLogger sets the logger for diagnostics. Defaults to slog.Default()
// with a component attribute. Refused operations log at Debug level.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(e *Engine) { e.log = l })
}

// WithHooks registers an observer set at construction time. May be given
// more than once; every registered set fires.
func WithHooks(h Hooks) Option {
	return optionFunc(func(e *Engine) { e.hooks = append(e.hooks, h) })
}

// New creates an empty Engine. The read-only lock starts held, so writes
// through read-only views are refused until run inside Privileged.
func New(opts ...Option) *Engine {
	e := &Engine{
		mutable:   make(map[any]View),
		readOnly:  make(map[any]View),
		roMarked:  mapset.NewThreadUnsafeSet[any](),
		rawMarked: mapset.NewThreadUnsafeSet[any](),
		targets:   make(map[any]*target),
		effects:   make(map[uint64]*Effect),
		roLocked:  true,
	}
	for _, o := range opts {
		o.applyEngine(e)
	}
	if e.log == nil {
		e.log = slog.Default().With("component", "reactive")
	}
	return e
}

// AddHooks registers an observer set after construction. Register hooks
// before the engine starts running effects; hook sets are never removed.
func (e *Engine) AddHooks(h Hooks) {
	e.hooks = append(e.hooks, h)
}

// PauseTracking suspends dependency recording engine-wide: reads through
// wrapped views stop creating subscriptions until ResumeTracking. The
// toggle does not stack; callers restore it themselves, or use Untracked.
func (e *Engine) PauseTracking() { e.paused = true }

// ResumeTracking re-enables dependency recording.
func (e *Engine) ResumeTracking() { e.paused = false }

// Untracked runs fn with tracking paused and restores the previous state
// afterwards, even if fn panics.
func (e *Engine) Untracked(fn func()) {
	prev := e.paused
	e.paused = true
	defer func() { e.paused = prev }()
	fn()
}

// Privileged runs fn with the read-only lock released: writes through
// read-only views take effect and notify subscribers. The previous lock
// state is restored afterwards, even if fn panics.
func (e *Engine) Privileged(fn func()) {
	prev := e.roLocked
	e.roLocked = false
	defer func() { e.roLocked = prev }()
	fn()
}

// refuseWrite reports whether a write through a read-only view must be
// dropped. The refusal is silent apart from a Debug diagnostic: the caller
// returns normally and nothing changes.
func (e *Engine) refuseWrite(op string, key any) bool {
	if !e.roLocked {
		return false
	}
	e.log.Debug("write through read-only view dropped", "op", op, "key", key)
	return true
}

// Stats are point-in-time engine counters.
type Stats struct {
	Targets  int    `json:"targets"`
	Deps     int    `json:"deps"`
	Effects  int    `json:"effects"`
	Tracks   uint64 `json:"tracks"`
	Triggers uint64 `json:"triggers"`
	Runs     uint64 `json:"runs"`
}

// Stats returns current graph sizes and cumulative event counts. Tracks
// counts recorded dependency edges, Triggers counts Trigger calls that
// reached a known target, Runs counts tracked effect runs.
func (e *Engine) Stats() Stats {
	deps := 0
	for _, t := range e.targets {
		deps += len(t.deps)
	}
	return Stats{
		Targets:  len(e.targets),
		Deps:     deps,
		Effects:  len(e.effects),
		Tracks:   e.nTracks,
		Triggers: e.nTriggers,
		Runs:     e.nRuns,
	}
}
