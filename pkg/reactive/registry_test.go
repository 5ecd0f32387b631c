package reactive

import "testing"

func TestWrapIdentityStability(t *testing.T) {
	eng := New()
	raw := map[string]any{"a": 1}

	w1 := eng.Mutable(raw)
	w2 := eng.Mutable(raw)
	if w1 != w2 {
		t.Error("wrapping the same raw value twice should return the same view")
	}

	r1 := eng.ReadOnly(raw)
	r2 := eng.ReadOnly(raw)
	if r1 != r2 {
		t.Error("read-only wrapping should be identity-stable too")
	}
	if w1 == r1 {
		t.Error("mutable and read-only views must be distinct")
	}
}

func TestUnwrapIdempotence(t *testing.T) {
	eng := New()
	raw := map[string]any{"a": 1}

	w := eng.Mutable(raw)
	if !sameValue(Unwrap(w), raw) {
		t.Error("unwrap of a mutable view should return the raw map")
	}
	if !sameValue(Unwrap(Unwrap(w)), raw) {
		t.Error("unwrap should be idempotent")
	}
	if Unwrap(42) != 42 {
		t.Error("unwrap of a non-wrapped value should return it unchanged")
	}
}

func TestReadOnlyStickiness(t *testing.T) {
	eng := New()
	raw := map[string]any{"a": 1}

	// Read-only over a mutable view unwraps to the raw first.
	m := eng.Mutable(raw)
	ro := eng.ReadOnly(m)
	if !IsReadOnly(ro) {
		t.Fatal("expected a read-only view")
	}
	if !sameValue(Unwrap(ro), raw) {
		t.Error("read-only view should wrap the raw value, not the mutable view")
	}

	// Mutable over a read-only view returns the read-only view unchanged.
	m2 := eng.Mutable(ro)
	if m2 != ro {
		t.Error("requesting mutable of a read-only view should return the read-only view")
	}

	// Same mode twice is the identity.
	if eng.ReadOnly(ro) != ro {
		t.Error("read-only of a read-only view should be itself")
	}
	if eng.Mutable(m) != m {
		t.Error("mutable of a mutable view should be itself")
	}
}

func TestWrapNonComposite(t *testing.T) {
	eng := New()

	if eng.Mutable(42) != 42 {
		t.Error("scalars should pass through unchanged")
	}
	if eng.Mutable("s") != "s" {
		t.Error("strings should pass through unchanged")
	}
	if eng.Mutable(nil) != nil {
		t.Error("nil should pass through unchanged")
	}

	// A bare slice hides growth behind a copied header, so it is not
	// wrappable; the pointer form is.
	s := []any{1, 2}
	if _, ok := eng.Mutable(s).(View); ok {
		t.Error("a bare []any should not be wrapped")
	}
	if _, ok := eng.Mutable(&s).(*List); !ok {
		t.Error("a *[]any should wrap as a List")
	}
}

func TestWrapKinds(t *testing.T) {
	eng := New()

	if _, ok := eng.Mutable(map[string]any{}).(*Object); !ok {
		t.Error("map[string]any should wrap as Object")
	}
	s := []any{}
	if _, ok := eng.Mutable(&s).(*List); !ok {
		t.Error("*[]any should wrap as List")
	}
	if _, ok := eng.Mutable(map[any]any{}).(*Dict); !ok {
		t.Error("map[any]any should wrap as Dict")
	}
}

func TestMarkReadOnlyRedirects(t *testing.T) {
	eng := New()
	raw := map[string]any{"a": 1}

	eng.MarkReadOnly(raw)
	w := eng.Mutable(raw)
	if !IsReadOnly(w) {
		t.Error("wrapping a MarkReadOnly value mutable should produce the read-only view")
	}
	if eng.ReadOnly(raw) != w {
		t.Error("the redirected view should be the read-only registry entry")
	}
}

func TestMarkRawRefusesWrapping(t *testing.T) {
	eng := New()
	raw := map[string]any{"a": 1}

	eng.MarkRaw(raw)
	if IsWrapped(eng.Mutable(raw)) {
		t.Error("a MarkRaw value should never be wrapped")
	}
	if IsWrapped(eng.ReadOnly(raw)) {
		t.Error("a MarkRaw value should not be wrapped read-only either")
	}
}

func TestIsWrappedHelpers(t *testing.T) {
	eng := New()
	raw := map[string]any{}

	if IsWrapped(raw) {
		t.Error("a raw map is not wrapped")
	}
	if !IsWrapped(eng.Mutable(raw)) {
		t.Error("a view is wrapped")
	}
	if IsReadOnly(eng.Mutable(raw)) {
		t.Error("a mutable view is not read-only")
	}
	if !IsReadOnly(eng.ReadOnly(raw)) {
		t.Error("a read-only view is read-only")
	}
}

func TestEnginesAreIndependent(t *testing.T) {
	e1 := New()
	e2 := New()
	raw := map[string]any{"a": 1}

	w1 := e1.Mutable(raw)
	w2 := e2.Mutable(raw)
	if w1 == w2 {
		t.Error("different engines should produce different views for the same raw value")
	}

	runs := 0
	o1 := w1.(*Object)
	e1.CreateEffect(func() {
		o1.Get("a")
		runs++
	})

	// A write through the other engine's view must not notify e1's effect.
	w2.(*Object).Set("a", 2)
	if runs != 1 {
		t.Errorf("expected no cross-engine notification, got %d runs", runs)
	}
	o1.Set("a", 3)
	if runs != 2 {
		t.Errorf("expected 2 runs after own-engine write, got %d", runs)
	}
}

func TestForgetDetaches(t *testing.T) {
	eng := New()
	raw := map[string]any{"a": 1}
	o := eng.Mutable(raw).(*Object)

	runs := 0
	eng.CreateEffect(func() {
		o.Get("a")
		runs++
	})

	eng.Forget(raw)

	// The graph entry is gone: writes no longer notify.
	o.Set("a", 2)
	if runs != 1 {
		t.Errorf("expected no runs after Forget, got %d", runs)
	}

	// The registry entry is gone too: re-wrapping builds a fresh view.
	if eng.Mutable(raw) == View(o) {
		t.Error("expected a fresh view after Forget")
	}

	if st := eng.Stats(); st.Targets != 1 {
		// Only the entry recreated by the re-wrap above remains.
		t.Errorf("expected 1 target after Forget and re-wrap, got %d", st.Targets)
	}
}
