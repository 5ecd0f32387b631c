package reactive

// TriggerEvent describes one change notification.
type TriggerEvent struct {
	Target   any
	Op       Op
	Key      any
	OldValue any
	NewValue any
}

// runnerSet is an insertion-ordered effect set; the order of first
// insertion is the notification order.
type runnerSet struct {
	order []*Effect
	seen  map[*Effect]struct{}
}

func (s *runnerSet) add(eff *Effect) {
	if _, ok := s.seen[eff]; ok {
		return
	}
	if s.seen == nil {
		s.seen = make(map[*Effect]struct{}, 4)
	}
	s.seen[eff] = struct{}{}
	s.order = append(s.order, eff)
}

// Trigger notifies every effect subscribed to (target, key) of a change.
// It is a no-op for targets nothing ever tracked.
//
// OpClear notifies every subscriber of the target. OpAdd and OpDelete
// additionally notify the structural key's subscribers (LengthKey for
// lists, IterateKey otherwise), since membership changed. Effects created
// with Computed are notified strictly before plain effects, so a plain
// re-run always sees already-invalidated derived values; within each group
// the order is first-subscription order. Notification runs the effect
// synchronously unless it has a scheduler, in which case the scheduler
// decides. The engine never batches or deduplicates across Trigger calls;
// that belongs to schedulers.
//
// oldValue and newValue describe the change for debug hooks and engine
// observers; pass nil when they do not apply.
func (e *Engine) Trigger(tgt any, op Op, key any, oldValue, newValue any) {
	id, ok := identOf(tgt)
	if !ok {
		return
	}
	t, ok := e.targets[id]
	if !ok {
		return
	}

	var derived, plain runnerSet
	split := func(d *dep) {
		if d == nil {
			return
		}
		for _, sub := range d.subs {
			if sub.computed {
				derived.add(sub)
			} else {
				plain.add(sub)
			}
		}
	}

	if op == OpClear {
		for _, d := range t.deps {
			split(d)
		}
	} else {
		if key != nil {
			split(t.deps[key])
		}
		if op == OpAdd || op == OpDelete {
			split(t.deps[t.kind.structuralKey()])
		}
	}

	e.nTriggers++
	ev := TriggerEvent{Target: tgt, Op: op, Key: key, OldValue: oldValue, NewValue: newValue}
	if len(e.hooks) > 0 {
		n := len(derived.order) + len(plain.order)
		for i := range e.hooks {
			if h := e.hooks[i].Trigger; h != nil {
				h(ev, n)
			}
		}
	}

	for _, eff := range derived.order {
		e.notify(eff, ev)
	}
	for _, eff := range plain.order {
		e.notify(eff, ev)
	}
}

// notify delivers one notification: debug hook first, then either the
// scheduler hand-off or a synchronous run.
func (e *Engine) notify(eff *Effect, ev TriggerEvent) {
	if eff.onTrigger != nil {
		eff.onTrigger(ev)
	}
	if eff.scheduler != nil {
		eff.scheduler(eff)
		return
	}
	eff.Run()
}
