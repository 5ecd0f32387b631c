package reactive

import "testing"

func TestListBasicOperations(t *testing.T) {
	eng := New()
	raw := []any{"a", "b"}
	l := eng.Mutable(&raw).(*List)

	if v, ok := l.Get(0); !ok || v != "a" {
		t.Errorf("expected a, got %v (ok=%v)", v, ok)
	}
	if _, ok := l.Get(5); ok {
		t.Error("out-of-range read should report ok=false")
	}
	if _, ok := l.Get(-1); ok {
		t.Error("negative read should report ok=false")
	}
	if l.Len() != 2 {
		t.Errorf("expected length 2, got %d", l.Len())
	}

	l.Set(0, "A")
	if raw[0] != "A" {
		t.Errorf("the write should land in the raw slice, got %v", raw[0])
	}

	l.Append("c")
	if len(raw) != 3 || raw[2] != "c" {
		t.Errorf("append should grow the raw slice, got %v", raw)
	}
}

func TestListGrowthVisibleThroughRawPointer(t *testing.T) {
	eng := New()
	raw := []any{1}
	l := eng.Mutable(&raw).(*List)

	l.Append(2, 3)
	if len(raw) != 3 {
		t.Errorf("growth must be visible to the raw holder, got %d elements", len(raw))
	}
}

func TestListLengthSubscription(t *testing.T) {
	eng := New()
	raw := []any{1, 2}
	l := eng.Mutable(&raw).(*List)

	lens := 0
	lastLen := 0
	eng.CreateEffect(func() {
		lastLen = l.Len()
		lens++
	})

	l.Append(3)
	if lens != 2 || lastLen != 3 {
		t.Errorf("append should re-run length readers, got runs=%d len=%d", lens, lastLen)
	}

	// Element writes are not structural.
	l.Set(0, 99)
	if lens != 2 {
		t.Errorf("a plain element set must not re-run length readers, got %d runs", lens)
	}

	l.RemoveAt(0)
	if lens != 3 || lastLen != 2 {
		t.Errorf("removal should re-run length readers, got runs=%d len=%d", lens, lastLen)
	}
}

func TestListIterationSubscription(t *testing.T) {
	eng := New()
	raw := []any{1, 2}
	l := eng.Mutable(&raw).(*List)

	var sum int
	runs := 0
	eng.CreateEffect(func() {
		sum = 0
		for _, v := range l.Values() {
			sum += v.(int)
		}
		runs++
	})
	if sum != 3 {
		t.Fatalf("expected sum 3, got %d", sum)
	}

	l.Append(3)
	if runs != 2 || sum != 6 {
		t.Errorf("append should re-run iterators, got runs=%d sum=%d", runs, sum)
	}

	l.Set(0, 10)
	if runs != 3 || sum != 15 {
		t.Errorf("element writes re-run iterators that read the element, got runs=%d sum=%d", runs, sum)
	}
}

func TestListOutOfRangeReadTracksFutureIndex(t *testing.T) {
	eng := New()
	raw := []any{}
	l := eng.Mutable(&raw).(*List)

	var got any
	var ok bool
	runs := 0
	eng.CreateEffect(func() {
		got, ok = l.Get(2)
		runs++
	})
	if ok {
		t.Fatal("index 2 should be absent initially")
	}

	// Filling the tracked index re-runs the reader.
	l.Set(2, "x")
	if runs != 2 {
		t.Fatalf("expected the reader to re-run when index 2 appears, got %d runs", runs)
	}
	if !ok || got != "x" {
		t.Errorf("expected to read x, got %v (ok=%v)", got, ok)
	}
	if len(raw) != 3 || raw[0] != nil || raw[1] != nil {
		t.Errorf("expected nil-extension up to the index, got %v", raw)
	}
}

func TestListRemoveAtShiftsAndNotifies(t *testing.T) {
	eng := New()
	raw := []any{"a", "b", "c"}
	l := eng.Mutable(&raw).(*List)

	var at1 any
	runs := 0
	eng.CreateEffect(func() {
		at1, _ = l.Get(1)
		runs++
	})

	l.RemoveAt(0)
	if len(raw) != 2 || raw[0] != "b" || raw[1] != "c" {
		t.Fatalf("expected [b c] after removal, got %v", raw)
	}
	if runs != 2 || at1 != "c" {
		t.Errorf("the shifted index reader should re-run, got runs=%d at1=%v", runs, at1)
	}
}

func TestListRemoveLastElement(t *testing.T) {
	eng := New()
	raw := []any{"only"}
	l := eng.Mutable(&raw).(*List)

	lens := 0
	eng.CreateEffect(func() {
		l.Len()
		lens++
	})

	l.RemoveAt(0)
	if len(raw) != 0 {
		t.Errorf("expected empty list, got %v", raw)
	}
	if lens != 2 {
		t.Errorf("expected length reader to re-run, got %d runs", lens)
	}

	l.RemoveAt(0)
	if lens != 2 {
		t.Errorf("removing from an empty list should notify nobody, got %d runs", lens)
	}
}

func TestListUnchangedWriteIsQuiet(t *testing.T) {
	eng := New()
	raw := []any{1}
	l := eng.Mutable(&raw).(*List)

	runs := 0
	eng.CreateEffect(func() {
		l.Get(0)
		runs++
	})

	l.Set(0, 1)
	if runs != 1 {
		t.Errorf("writing the current value should notify nobody, got %d runs", runs)
	}
}

func TestListNestedWrapping(t *testing.T) {
	eng := New()
	raw := []any{map[string]any{"x": 1}}
	l := eng.Mutable(&raw).(*List)

	v, _ := l.Get(0)
	child, ok := v.(*Object)
	if !ok {
		t.Fatalf("expected a wrapped element, got %T", v)
	}

	runs := 0
	eng.CreateEffect(func() {
		e, _ := l.Get(0)
		e.(*Object).Get("x")
		runs++
	})
	child.Set("x", 2)
	if runs != 2 {
		t.Errorf("nested element writes should notify element readers, got %d runs", runs)
	}
}

func TestListReadOnly(t *testing.T) {
	eng := New()
	raw := []any{1, 2}
	ro := eng.ReadOnly(&raw).(*List)

	ro.Set(0, 99)
	ro.Append(3)
	ro.RemoveAt(0)
	if len(raw) != 2 || raw[0] != 1 {
		t.Errorf("read-only list writes must not mutate, got %v", raw)
	}

	eng.Privileged(func() {
		ro.Append(3)
	})
	if len(raw) != 3 {
		t.Errorf("privileged append should mutate, got %v", raw)
	}
}
