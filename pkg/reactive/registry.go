package reactive

import (
	"fmt"
	"reflect"
)

// Mode selects which wrapped variant of a raw value Wrap produces.
type Mode uint8

const (
	// ModeMutable views forward writes and notify subscribers.
	ModeMutable Mode = iota
	// ModeReadOnly views share the read paths and refuse writes while the
	// engine's read-only lock is held.
	ModeReadOnly
)

func (m Mode) String() string {
	if m == ModeReadOnly {
		return "readonly"
	}
	return "mutable"
}

// View is implemented by every wrapped view the engine produces. Both
// methods are pure introspection: they never touch the subscriber graph,
// so code can branch on wrapping without creating dependencies.
type View interface {
	// Raw returns the underlying raw value.
	Raw() any
	// ReadOnly reports whether this is the read-only variant.
	ReadOnly() bool
}

// mapIdent gives map-shaped raw values a comparable registry identity
// derived from the map header. Pointer-shaped raws (*[]any, *Ref, any
// collaborator wrapper) are their own identity.
type mapIdent uintptr

// identOf returns the registry identity for a raw value, or ok=false when
// the value has none (nil, nil maps, non-pointer scalars).
func identOf(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		if x == nil {
			return nil, false
		}
		return mapIdent(reflect.ValueOf(x).Pointer()), true
	case map[any]any:
		if x == nil {
			return nil, false
		}
		return mapIdent(reflect.ValueOf(x).Pointer()), true
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && !rv.IsNil() {
			return v, true
		}
		return nil, false
	}
}

// kindOf classifies a raw value into the composite kinds the engine wraps.
func kindOf(v any) (targetKind, bool) {
	switch x := v.(type) {
	case map[string]any:
		return kindRecord, x != nil
	case *[]any:
		return kindList, x != nil
	case map[any]any:
		return kindKeyed, x != nil
	}
	return 0, false
}

// trackKindOf classifies any track/trigger target, mapping collaborator
// pointers (Ref, Memo, external wrappers) to the value kind.
func trackKindOf(v any) targetKind {
	if k, ok := kindOf(v); ok {
		return k
	}
	return kindValue
}

// Wrap returns the wrapped view of v for the given mode.
//
// Wrapping is idempotent and identity-stable: for one raw value and mode
// there is at most one view, and Wrap always returns it. Wrapping an
// already wrapped value follows the mode rules: same mode returns the view
// itself; read-only over a mutable view unwraps to the raw first; mutable
// over a read-only view returns the read-only view unchanged (read-only is
// sticky). Values that are not wrappable composites, and values tagged
// with MarkRaw, come back unchanged.
func (e *Engine) Wrap(v any, mode Mode) any {
	if v == nil {
		return nil
	}
	if view, ok := v.(View); ok {
		if mode == ModeReadOnly && !view.ReadOnly() {
			v = view.Raw()
		} else {
			return view
		}
	}
	kind, ok := kindOf(v)
	if !ok {
		e.log.Debug("wrap: not a wrappable composite", "type", fmt.Sprintf("%T", v))
		return v
	}
	id, ok := identOf(v)
	if !ok {
		return v
	}
	if e.rawMarked.Contains(id) {
		return v
	}
	if mode == ModeMutable && e.roMarked.Contains(id) {
		mode = ModeReadOnly
	}
	reg := e.mutable
	if mode == ModeReadOnly {
		reg = e.readOnly
	}
	if w, ok := reg[id]; ok {
		return w
	}
	w := e.newView(v, kind, mode)
	reg[id] = w
	e.ensureTarget(v, id, kind)
	return w
}

func (e *Engine) newView(raw any, kind targetKind, mode Mode) View {
	ro := mode == ModeReadOnly
	switch kind {
	case kindList:
		return &List{engine: e, raw: raw.(*[]any), ro: ro}
	case kindKeyed:
		return &Dict{engine: e, raw: raw.(map[any]any), ro: ro}
	default:
		return &Object{engine: e, raw: raw.(map[string]any), ro: ro}
	}
}

// wrapNested wraps composite values read out of a view, in the reading
// view's mode. Non-composites pass through. Wrapping stays lazy: nothing
// is wrapped until it is actually read.
func (e *Engine) wrapNested(v any, ro bool) any {
	if _, ok := kindOf(v); !ok {
		return v
	}
	if ro {
		return e.Wrap(v, ModeReadOnly)
	}
	return e.Wrap(v, ModeMutable)
}

// Mutable returns the mutable wrapped view of v. Shorthand for
// Wrap(v, ModeMutable).
func (e *Engine) Mutable(v any) any { return e.Wrap(v, ModeMutable) }

// ReadOnly returns the read-only wrapped view of v. Shorthand for
// Wrap(v, ModeReadOnly).
func (e *Engine) ReadOnly(v any) any { return e.Wrap(v, ModeReadOnly) }

// Unwrap returns the raw value behind a wrapped view in either mode, and
// any other value unchanged. Idempotent.
func Unwrap(v any) any {
	if view, ok := v.(View); ok {
		return view.Raw()
	}
	return v
}

// IsWrapped reports whether v is a wrapped view in either mode.
func IsWrapped(v any) bool {
	_, ok := v.(View)
	return ok
}

// IsReadOnly reports whether v is a read-only wrapped view.
func IsReadOnly(v any) bool {
	view, ok := v.(View)
	return ok && view.ReadOnly()
}

// MarkReadOnly tags v's raw value so every future wrap request on this
// engine produces the read-only view, whatever mode was asked for. The tag
// lasts for the value's lifetime; existing mutable views are unaffected.
func (e *Engine) MarkReadOnly(v any) {
	if id, ok := identOf(Unwrap(v)); ok {
		e.roMarked.Add(id)
	}
}

// MarkRaw tags v's raw value so it is never wrapped by this engine: wrap
// requests return it unchanged. The tag lasts for the value's lifetime.
func (e *Engine) MarkRaw(v any) {
	if id, ok := identOf(Unwrap(v)); ok {
		e.rawMarked.Add(id)
	}
}

// Forget drops the registry entries, the tags and the subscriber-graph
// entry for v's raw value, detaching any subscribed effects. The graph
// holds raw values strongly, so a long-lived engine releases data it no
// longer observes through Forget.
func (e *Engine) Forget(v any) {
	id, ok := identOf(Unwrap(v))
	if !ok {
		return
	}
	delete(e.mutable, id)
	delete(e.readOnly, id)
	e.roMarked.Remove(id)
	e.rawMarked.Remove(id)
	if t, ok := e.targets[id]; ok {
		for _, d := range t.deps {
			d.detachAll()
		}
		delete(e.targets, id)
	}
}
