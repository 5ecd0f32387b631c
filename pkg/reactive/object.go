package reactive

import "sort"

// Object is the wrapped view of a record (map[string]any). Reads through
// it record dependencies for the running effect; writes notify
// subscribers. Nested composites come back wrapped in the same mode,
// lazily, as they are read.
type Object struct {
	engine *Engine
	raw    map[string]any
	ro     bool
}

// Raw returns the underlying map. Reading it records nothing and mutating
// it notifies nobody.
func (o *Object) Raw() any { return o.raw }

// ReadOnly reports whether writes through this view are refused.
func (o *Object) ReadOnly() bool { return o.ro }

// Get reads key, recording a get dependency. Missing keys track too, so a
// later Set of that key re-runs the reader. When the stored value is a
// RefLike, its inner value is returned through the wrapper's own tracked
// read and the slot itself is not tracked: dependents follow the wrapper,
// which keeps them attached when the wrapper moves between slots.
func (o *Object) Get(key string) (any, bool) {
	res, ok := o.raw[key]
	if rl, isRef := res.(RefLike); isRef {
		return rl.Get(), true
	}
	o.engine.Track(o.raw, OpGet, key)
	return o.engine.wrapNested(res, o.ro), ok
}

// Set writes key, notifying an add for a new key or a set when the value
// actually changed; writing the current value notifies nobody. Wrapped
// views are unwrapped before storing, so only raw values live in the
// record. When the existing value is a RefLike and the incoming one is
// not, the wrapper is updated in place instead and issues its own
// notification, preserving identity for the wrapper's dependents.
//
// On a read-only view the write is refused while the engine's lock is
// held: the call returns normally and nothing changes.
func (o *Object) Set(key string, v any) {
	if o.ro && o.engine.refuseWrite("set", key) {
		return
	}
	v = Unwrap(v)
	old, existed := o.raw[key]
	if rl, isRef := old.(RefLike); isRef {
		if _, incoming := v.(RefLike); !incoming {
			rl.Set(v)
			return
		}
	}
	if !existed {
		o.raw[key] = v
		o.engine.Trigger(o.raw, OpAdd, key, nil, v)
		return
	}
	if sameValue(old, v) {
		return
	}
	o.raw[key] = v
	o.engine.Trigger(o.raw, OpSet, key, old, v)
}

// Delete removes key, notifying subscribers only when the key existed.
func (o *Object) Delete(key string) {
	if o.ro && o.engine.refuseWrite("delete", key) {
		return
	}
	old, existed := o.raw[key]
	if !existed {
		return
	}
	delete(o.raw, key)
	o.engine.Trigger(o.raw, OpDelete, key, old, nil)
}

// Has reports whether key exists, recording a presence dependency.
func (o *Object) Has(key string) bool {
	o.engine.Track(o.raw, OpHas, key)
	_, ok := o.raw[key]
	return ok
}

// Keys returns the record's keys in sorted order, recording an enumeration
// dependency. Sorting makes enumeration deterministic where Go's own map
// order is randomized.
func (o *Object) Keys() []string {
	o.engine.Track(o.raw, OpIterate, nil)
	keys := make([]string, 0, len(o.raw))
	for k := range o.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys, recording an enumeration dependency.
func (o *Object) Len() int {
	o.engine.Track(o.raw, OpIterate, nil)
	return len(o.raw)
}

// Range calls fn for each key in sorted order until fn returns false. It
// records an enumeration dependency plus a get dependency per visited key.
// fn must not add or delete keys.
func (o *Object) Range(fn func(key string, v any) bool) {
	for _, k := range o.Keys() {
		v, _ := o.Get(k)
		if !fn(k, v) {
			return
		}
	}
}
