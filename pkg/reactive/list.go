package reactive

// List is the wrapped view of an ordered list. The raw value is a slice
// pointer (*[]any) so growth performed through the view is visible to
// every holder of the raw value; a bare []any is not wrappable because a
// copied slice header hides growth.
//
// Element keys are int indexes; the list's structural key is LengthKey,
// which length reads and enumeration subscribe to and element adds and
// removals notify.
type List struct {
	engine *Engine
	raw    *[]any
	ro     bool
}

// Raw returns the underlying slice pointer. Access through it records
// nothing and notifies nobody.
func (l *List) Raw() any { return l.raw }

// ReadOnly reports whether writes through this view are refused.
func (l *List) ReadOnly() bool { return l.ro }

// Get reads index i, recording a get dependency on it. Out-of-range reads
// still track, so an append that later fills i re-runs the reader. RefLike
// elements unwrap the way Object fields do.
func (l *List) Get(i int) (any, bool) {
	if i < 0 {
		return nil, false
	}
	s := *l.raw
	var res any
	ok := i < len(s)
	if ok {
		res = s[i]
	}
	if rl, isRef := res.(RefLike); isRef {
		return rl.Get(), true
	}
	l.engine.Track(l.raw, OpGet, i)
	return l.engine.wrapNested(res, l.ro), ok
}

// Set writes index i. In-range writes notify a set when the value actually
// changed. Writing one past the end appends; writing further out extends
// the list with nils first, then notifies an add for i, which also reaches
// length subscribers. Negative indexes are ignored.
func (l *List) Set(i int, v any) {
	if i < 0 {
		l.engine.log.Debug("list set with negative index ignored", "index", i)
		return
	}
	if l.ro && l.engine.refuseWrite("set", i) {
		return
	}
	v = Unwrap(v)
	s := *l.raw
	if i < len(s) {
		old := s[i]
		if rl, isRef := old.(RefLike); isRef {
			if _, incoming := v.(RefLike); !incoming {
				rl.Set(v)
				return
			}
		}
		if sameValue(old, v) {
			return
		}
		s[i] = v
		l.engine.Trigger(l.raw, OpSet, i, old, v)
		return
	}
	for len(s) < i {
		s = append(s, nil)
	}
	*l.raw = append(s, v)
	l.engine.Trigger(l.raw, OpAdd, i, nil, v)
}

// Append adds values at the end, notifying an add per new index. Length
// subscribers re-run because adds reach the structural key.
func (l *List) Append(vs ...any) {
	if l.ro && l.engine.refuseWrite("append", LengthKey) {
		return
	}
	for _, v := range vs {
		v = Unwrap(v)
		i := len(*l.raw)
		*l.raw = append(*l.raw, v)
		l.engine.Trigger(l.raw, OpAdd, i, nil, v)
	}
}

// RemoveAt deletes index i and shifts the tail down. Shifted positions
// whose value changed notify as sets; the vacated last index notifies as a
// delete, which also reaches length subscribers. Out-of-range indexes are
// ignored.
func (l *List) RemoveAt(i int) {
	if l.ro && l.engine.refuseWrite("remove", i) {
		return
	}
	s := *l.raw
	if i < 0 || i >= len(s) {
		return
	}
	last := len(s) - 1
	oldLast := s[last]

	type shift struct {
		idx      int
		old, new any
	}
	var shifts []shift
	for j := i; j < last; j++ {
		if !sameValue(s[j], s[j+1]) {
			shifts = append(shifts, shift{j, s[j], s[j+1]})
		}
		s[j] = s[j+1]
	}
	s[last] = nil
	*l.raw = s[:last]

	for _, sh := range shifts {
		l.engine.Trigger(l.raw, OpSet, sh.idx, sh.old, sh.new)
	}
	l.engine.Trigger(l.raw, OpDelete, last, oldLast, nil)
}

// Len returns the list length, recording a dependency on LengthKey.
func (l *List) Len() int {
	l.engine.Track(l.raw, OpGet, LengthKey)
	return len(*l.raw)
}

// Values returns the wrapped elements, recording an enumeration dependency
// plus a get dependency per index.
func (l *List) Values() []any {
	l.engine.Track(l.raw, OpIterate, nil)
	s := *l.raw
	out := make([]any, len(s))
	for i := range s {
		out[i], _ = l.Get(i)
	}
	return out
}

// Range calls fn for each index until fn returns false, with the same
// dependencies as Values. fn must not grow or shrink the list.
func (l *List) Range(fn func(i int, v any) bool) {
	l.engine.Track(l.raw, OpIterate, nil)
	for i := 0; i < len(*l.raw); i++ {
		v, _ := l.Get(i)
		if !fn(i, v) {
			return
		}
	}
}
