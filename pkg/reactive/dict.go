package reactive

// Dict is the wrapped view of a keyed collection (map[any]any): the same
// contract Object provides for records, for collections whose keys are
// arbitrary comparable values, plus Clear for whole-collection resets.
// Storing a non-comparable key panics, as it would on the raw map.
type Dict struct {
	engine *Engine
	raw    map[any]any
	ro     bool
}

// Raw returns the underlying map, untracked.
func (d *Dict) Raw() any { return d.raw }

// ReadOnly reports whether writes through this view are refused.
func (d *Dict) ReadOnly() bool { return d.ro }

// Get reads key, recording a get dependency. Missing keys track; RefLike
// values unwrap through their own tracked read.
func (d *Dict) Get(key any) (any, bool) {
	res, ok := d.raw[key]
	if rl, isRef := res.(RefLike); isRef {
		return rl.Get(), true
	}
	d.engine.Track(d.raw, OpGet, key)
	return d.engine.wrapNested(res, d.ro), ok
}

// Set writes key: an add for a new key, a set when the value actually
// changed, nothing otherwise. Incoming views are unwrapped; existing
// RefLike values update in place as in Object.Set.
func (d *Dict) Set(key, v any) {
	if d.ro && d.engine.refuseWrite("set", key) {
		return
	}
	v = Unwrap(v)
	old, existed := d.raw[key]
	if rl, isRef := old.(RefLike); isRef {
		if _, incoming := v.(RefLike); !incoming {
			rl.Set(v)
			return
		}
	}
	if !existed {
		d.raw[key] = v
		d.engine.Trigger(d.raw, OpAdd, key, nil, v)
		return
	}
	if sameValue(old, v) {
		return
	}
	d.raw[key] = v
	d.engine.Trigger(d.raw, OpSet, key, old, v)
}

// Delete removes key, notifying subscribers only when it existed.
func (d *Dict) Delete(key any) {
	if d.ro && d.engine.refuseWrite("delete", key) {
		return
	}
	old, existed := d.raw[key]
	if !existed {
		return
	}
	delete(d.raw, key)
	d.engine.Trigger(d.raw, OpDelete, key, old, nil)
}

// Has reports whether key exists, recording a presence dependency.
func (d *Dict) Has(key any) bool {
	d.engine.Track(d.raw, OpHas, key)
	_, ok := d.raw[key]
	return ok
}

// Len returns the number of entries, recording an enumeration dependency.
func (d *Dict) Len() int {
	d.engine.Track(d.raw, OpIterate, nil)
	return len(d.raw)
}

// Keys returns the keys in unspecified order, recording an enumeration
// dependency. Keys are arbitrary values, so no canonical order exists;
// callers needing determinism sort the result themselves.
func (d *Dict) Keys() []any {
	d.engine.Track(d.raw, OpIterate, nil)
	keys := make([]any, 0, len(d.raw))
	for k := range d.raw {
		keys = append(keys, k)
	}
	return keys
}

// Range calls fn for each entry until fn returns false, recording an
// enumeration dependency plus a get dependency per visited key. fn must
// not add or delete entries.
func (d *Dict) Range(fn func(key, v any) bool) {
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		if !fn(k, v) {
			return
		}
	}
}

// Clear removes every entry and notifies every subscriber of the
// collection, whatever key it tracked. Clearing an empty collection
// notifies nobody.
func (d *Dict) Clear() {
	if d.ro && d.engine.refuseWrite("clear", nil) {
		return
	}
	if len(d.raw) == 0 {
		return
	}
	for k := range d.raw {
		delete(d.raw, k)
	}
	d.engine.Trigger(d.raw, OpClear, nil, nil, nil)
}
