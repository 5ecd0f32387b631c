package reactive

// target is one subscriber-graph entry: a raw value and its per-key
// subscriber sets. Entries are created lazily the first time a value is
// wrapped or tracked and live until Forget or the engine goes away.
type target struct {
	id   uint64
	kind targetKind
	raw  any
	deps map[any]*dep
}

// dep is the subscriber set for one (target, key) pair. Subscribers keep
// first-subscription order; Trigger notifies in that order.
type dep struct {
	id     uint64
	target *target
	key    any
	subs   []*Effect
}

// has reports whether eff is already subscribed.
func (d *dep) has(eff *Effect) bool {
	for _, s := range d.subs {
		if s == eff {
			return true
		}
	}
	return false
}

// add appends eff and records the reverse link for cleanup. Callers check
// has first.
func (d *dep) add(eff *Effect) {
	d.subs = append(d.subs, eff)
	eff.deps.Add(d)
}

// remove drops eff, preserving the order of the remaining subscribers.
func (d *dep) remove(eff *Effect) {
	for i, s := range d.subs {
		if s == eff {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// detachAll clears the set and the reverse links of every subscriber.
func (d *dep) detachAll() {
	for _, s := range d.subs {
		s.deps.Remove(d)
	}
	d.subs = nil
}

// ensureTarget returns the graph entry for the raw value behind id,
// creating it lazily.
func (e *Engine) ensureTarget(raw any, id any, kind targetKind) *target {
	t, ok := e.targets[id]
	if !ok {
		t = &target{id: nextID(), kind: kind, raw: raw, deps: make(map[any]*dep)}
		e.targets[id] = t
	}
	return t
}

// TrackEvent describes one recorded dependency edge.
type TrackEvent struct {
	Effect *Effect
	Target any
	Op     Op
	Key    any
}

// Track records the currently running effect as a subscriber of
// (target, key). It is a no-op when tracking is paused or no effect is
// running, and idempotent within a run: the same edge is recorded once.
//
// OpIterate resolves the key to the target's structural key (IterateKey,
// or LengthKey for lists), so enumeration and membership changes meet on
// the same subscriber set. Wrappers call Track on every read; collaborator
// wrappers outside this package use the same contract with themselves as
// target.
func (e *Engine) Track(tgt any, op Op, key any) {
	if e.paused || len(e.stack) == 0 {
		return
	}
	id, ok := identOf(tgt)
	if !ok {
		return
	}
	t := e.ensureTarget(tgt, id, trackKindOf(tgt))
	if op == OpIterate {
		key = t.kind.structuralKey()
	}
	eff := e.stack[len(e.stack)-1]
	d, ok := t.deps[key]
	if !ok {
		d = &dep{id: nextID(), target: t, key: key}
		t.deps[key] = d
	}
	if d.has(eff) {
		return
	}
	d.add(eff)
	e.nTracks++
	ev := TrackEvent{Effect: eff, Target: tgt, Op: op, Key: key}
	if eff.onTrack != nil {
		eff.onTrack(ev)
	}
	for i := range e.hooks {
		if h := e.hooks[i].Track; h != nil {
			h(ev)
		}
	}
}

func (e *Engine) pushEffect(eff *Effect) {
	e.stack = append(e.stack, eff)
}

func (e *Engine) popEffect() {
	e.stack = e.stack[:len(e.stack)-1]
}

// onStack reports whether eff is currently running. Used as the
// self-trigger guard: an effect whose run mutates its own dependencies
// must not recurse into itself.
func (e *Engine) onStack(eff *Effect) bool {
	for _, s := range e.stack {
		if s == eff {
			return true
		}
	}
	return false
}
