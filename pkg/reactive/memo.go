package reactive

// Memo is a lazily derived value. The getter runs only when the cached
// value is stale; readers subscribe to the memo itself, not to the
// getter's sources. The underlying effect carries the Computed option, so
// when a source changes, the memo invalidates before any plain subscriber
// re-runs and no plain effect ever reads a stale derived value.
type Memo[T any] struct {
	engine *Engine
	runner *Effect
	value  T
	dirty  bool
}

// NewMemo builds a derived value over getter. The getter does not run
// until the first Get.
func NewMemo[T any](e *Engine, getter func() T) *Memo[T] {
	m := &Memo[T]{engine: e, dirty: true}
	m.runner = e.createRunner(
		func() any { return getter() },
		Lazy(),
		Computed(),
		WithScheduler(func(*Effect) { m.invalidate() }),
	)
	return m
}

// invalidate marks the cached value stale and notifies the memo's own
// subscribers. Further source changes while already stale stay quiet; the
// next Get recomputes once.
func (m *Memo[T]) invalidate() {
	if m.dirty {
		return
	}
	m.dirty = true
	m.engine.Trigger(m, OpSet, ValueKey, nil, nil)
}

// Get returns the derived value, recomputing it when stale, and records a
// dependency on the memo. Recomputation runs nested on the effect stack,
// so a memo read inside another effect tracks the getter's sources against
// the memo's runner, not against the outer effect.
func (m *Memo[T]) Get() T {
	if m.dirty {
		if v, ok := m.runner.Run().(T); ok {
			m.value = v
		} else {
			var zero T
			m.value = zero
		}
		m.dirty = false
	}
	m.engine.Track(m, OpGet, ValueKey)
	return m.value
}

// Stop stops the underlying runner: source changes no longer invalidate
// the memo, and Get keeps serving the last computed value (computing once,
// untracked, if it was never read).
func (m *Memo[T]) Stop() { m.runner.Stop() }
