package reactive

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Effect is a re-runnable computation. While it runs, every read through a
// wrapped view records a dependency; when any recorded dependency changes,
// the effect re-runs (or its scheduler is invoked). The dependency set is
// rebuilt from scratch on every run, so reads behind a branch that turned
// false are dropped.
type Effect struct {
	id     uint64
	engine *Engine
	fn     func() any

	active   bool
	computed bool
	lazy     bool

	scheduler func(*Effect)
	onTrack   func(TrackEvent)
	onTrigger func(TriggerEvent)
	onStop    func()

	// Subscriber sets this effect currently belongs to, for reverse
	// cleanup before each run and on Stop.
	deps mapset.Set[*dep]

	runs uint64
}

// EffectOption configures CreateEffect.
type EffectOption interface {
	applyEffect(*Effect)
}

type effectOptionFunc func(*Effect)

func (f effectOptionFunc) applyEffect(eff *Effect) { f(eff) }

// Lazy skips the initial automatic run; the effect records no dependencies
// until its first Run.
func Lazy() EffectOption {
	return effectOptionFunc(func(eff *Effect) { eff.lazy = true })
}

// Computed marks the effect as a derived subscriber: on a shared change it
// is notified before plain effects.
func Computed() EffectOption {
	return effectOptionFunc(func(eff *Effect) { eff.computed = true })
}

// WithScheduler replaces synchronous re-runs with a hand-off: on
// notification the scheduler receives the effect and decides when, or
// whether, to call Run. Deferral, batching and deduplication live here.
func WithScheduler(s func(*Effect)) EffectOption {
	return effectOptionFunc(func(eff *Effect) { eff.scheduler = s })
}

// OnTrack installs a debug hook fired each time the effect records a new
// dependency edge.
func OnTrack(fn func(TrackEvent)) EffectOption {
	return effectOptionFunc(func(eff *Effect) { eff.onTrack = fn })
}

// OnTrigger installs a debug hook fired each time the effect is notified
// of a change.
func OnTrigger(fn func(TriggerEvent)) EffectOption {
	return effectOptionFunc(func(eff *Effect) { eff.onTrigger = fn })
}

// OnStop installs a hook fired once when the effect is stopped.
func OnStop(fn func()) EffectOption {
	return effectOptionFunc(func(eff *Effect) { eff.onStop = fn })
}

// CreateEffect builds an effect around fn and, unless Lazy was given, runs
// it once immediately to record its initial dependencies.
func (e *Engine) CreateEffect(fn func(), opts ...EffectOption) *Effect {
	return e.createRunner(func() any { fn(); return nil }, opts...)
}

// createRunner is the value-returning form backing CreateEffect and Memo.
func (e *Engine) createRunner(fn func() any, opts ...EffectOption) *Effect {
	eff := &Effect{
		id:     nextID(),
		engine: e,
		fn:     fn,
		active: true,
		deps:   mapset.NewThreadUnsafeSet[*dep](),
	}
	for _, o := range opts {
		o.applyEffect(eff)
	}
	e.effects[eff.id] = eff
	if !eff.lazy {
		eff.Run()
	}
	return eff
}

// ID returns the effect's unique identifier.
func (eff *Effect) ID() uint64 { return eff.id }

// Active reports whether the effect can still be triggered. Stopped
// effects are permanently inactive.
func (eff *Effect) Active() bool { return eff.active }

// Computed reports whether the effect is a derived subscriber.
func (eff *Effect) Computed() bool { return eff.computed }

// Run executes the effect's function and returns its value.
//
// A stopped effect still executes, but records no dependencies. A run
// whose effect is already on the engine's stack is skipped, which keeps an
// effect that triggers itself from recursing forever. Otherwise the effect
// first detaches from every subscriber set it belongs to, then runs on the
// stack; the stack entry is popped on every exit path, including panics.
func (eff *Effect) Run() any {
	if !eff.active {
		return eff.fn()
	}
	if eff.engine.onStack(eff) {
		return nil
	}
	eff.cleanup()
	eff.engine.pushEffect(eff)
	defer eff.engine.popEffect()
	eff.runs++
	eff.engine.nRuns++
	if hooks := eff.engine.hooks; len(hooks) > 0 {
		start := time.Now()
		defer func() {
			took := time.Since(start)
			for i := range hooks {
				if h := hooks[i].EffectRun; h != nil {
					h(eff, took)
				}
			}
		}()
	}
	return eff.fn()
}

// cleanup detaches the effect from every subscriber set it belongs to.
func (eff *Effect) cleanup() {
	eff.deps.Each(func(d *dep) bool {
		d.remove(eff)
		return false
	})
	eff.deps.Clear()
}

// Stop permanently detaches the effect from all subscriptions and fires
// the OnStop hook. After Stop no mutation re-runs the effect; calling Run
// directly still executes the function, without re-subscribing.
func (eff *Effect) Stop() {
	if !eff.active {
		return
	}
	eff.cleanup()
	eff.active = false
	delete(eff.engine.effects, eff.id)
	if eff.onStop != nil {
		eff.onStop()
	}
}
