package reactive

// RefLike marks single-value wrappers the interception layer recognizes:
// reading a stored RefLike through Object, List or Dict returns the inner
// value instead of the wrapper, and writing a plain value over one updates
// it in place. Implementations record their own dependencies through
// Track and Trigger, with themselves as target and ValueKey as key, so
// their subscribers live in the same graph as everything else.
type RefLike interface {
	// Get returns the inner value, recording a dependency on the wrapper.
	Get() any
	// Set replaces the inner value in place, notifying the wrapper's
	// subscribers when it changed.
	Set(v any)
}

// Ref is the engine's single-value wrapper: one mutable cell whose reads
// and writes participate in the subscriber graph under ValueKey.
type Ref struct {
	engine *Engine
	value  any
}

// NewRef returns a Ref holding v. Wrapped views are unwrapped before
// storing; composite values read back wrapped, like record fields.
func (e *Engine) NewRef(v any) *Ref {
	return &Ref{engine: e, value: Unwrap(v)}
}

// Get returns the current value, recording a dependency on the Ref.
// Composite values come back wrapped mutable.
func (r *Ref) Get() any {
	r.engine.Track(r, OpGet, ValueKey)
	return r.engine.wrapNested(r.value, false)
}

// Set replaces the value, notifying subscribers when it actually changed.
func (r *Ref) Set(v any) {
	v = Unwrap(v)
	if sameValue(r.value, v) {
		return
	}
	old := r.value
	r.value = v
	r.engine.Trigger(r, OpSet, ValueKey, old, v)
}
