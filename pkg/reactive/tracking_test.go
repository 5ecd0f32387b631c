package reactive

import "testing"

func TestNoTrackingOutsideEffect(t *testing.T) {
	eng := New()
	o := eng.Mutable(map[string]any{"a": 1}).(*Object)

	// Reads outside any effect record nothing.
	o.Get("a")
	o.Has("a")
	o.Keys()

	if st := eng.Stats(); st.Tracks != 0 {
		t.Errorf("expected 0 recorded edges, got %d", st.Tracks)
	}
	if len(eng.targets[mustIdent(t, o.raw)].deps) != 0 {
		t.Error("expected no subscriber sets for untracked reads")
	}
}

func mustIdent(t *testing.T, v any) any {
	t.Helper()
	id, ok := identOf(v)
	if !ok {
		t.Fatalf("expected %T to have an identity", v)
	}
	return id
}

func TestTrackingIsIdempotentPerRun(t *testing.T) {
	eng := New()
	o := eng.Mutable(map[string]any{"a": 1}).(*Object)

	eng.CreateEffect(func() {
		o.Get("a")
		o.Get("a")
		o.Get("a")
	})

	if st := eng.Stats(); st.Tracks != 1 {
		t.Errorf("expected 1 recorded edge for repeated reads, got %d", st.Tracks)
	}

	runs := 0
	o2 := eng.Mutable(map[string]any{"b": 1}).(*Object)
	eng.CreateEffect(func() {
		o2.Get("b")
		o2.Get("b")
		runs++
	})
	o2.Set("b", 2)
	if runs != 2 {
		t.Errorf("expected exactly one re-run, got %d total runs", runs)
	}
}

func TestPauseTracking(t *testing.T) {
	eng := New()
	o := eng.Mutable(map[string]any{"a": 1}).(*Object)

	runs := 0
	eng.PauseTracking()
	eng.CreateEffect(func() {
		o.Get("a")
		runs++
	})
	eng.ResumeTracking()

	o.Set("a", 2)
	if runs != 1 {
		t.Errorf("reads under pause should not subscribe; got %d runs", runs)
	}
}

func TestUntrackedRestoresState(t *testing.T) {
	eng := New()
	o := eng.Mutable(map[string]any{"a": 1, "b": 2}).(*Object)

	runs := 0
	eng.CreateEffect(func() {
		eng.Untracked(func() {
			o.Get("a")
		})
		o.Get("b")
		runs++
	})

	o.Set("a", 10)
	if runs != 1 {
		t.Errorf("untracked read should not subscribe; got %d runs", runs)
	}
	o.Set("b", 20)
	if runs != 2 {
		t.Errorf("tracked read after Untracked should subscribe; got %d runs", runs)
	}
}

func TestUntrackedRestoresOnPanic(t *testing.T) {
	eng := New()

	func() {
		defer func() { recover() }()
		eng.Untracked(func() { panic("boom") })
	}()

	if eng.paused {
		t.Error("Untracked should restore the pause flag after a panic")
	}
}

func TestIterateResolvesToStructuralKey(t *testing.T) {
	eng := New()
	o := eng.Mutable(map[string]any{"a": 1}).(*Object)
	s := []any{1}
	l := eng.Mutable(&s).(*List)

	eng.CreateEffect(func() { o.Keys() })
	eng.CreateEffect(func() { l.Values() })

	od := eng.targets[mustIdent(t, o.raw)].deps
	if _, ok := od[IterateKey]; !ok {
		t.Error("record enumeration should subscribe under IterateKey")
	}
	ld := eng.targets[mustIdent(t, l.raw)].deps
	if _, ok := ld[LengthKey]; !ok {
		t.Error("list enumeration should subscribe under LengthKey")
	}
	if _, ok := ld[IterateKey]; ok {
		t.Error("list enumeration should not create an IterateKey set")
	}
}

func TestSpecialKeysDoNotCollideWithStrings(t *testing.T) {
	eng := New()
	o := eng.Mutable(map[string]any{"iterate": 1}).(*Object)

	keysRuns, fieldRuns := 0, 0
	eng.CreateEffect(func() {
		o.Keys()
		keysRuns++
	})
	eng.CreateEffect(func() {
		o.Get("iterate")
		fieldRuns++
	})

	// Writing the field named "iterate" must not look structural.
	o.Set("iterate", 2)
	if fieldRuns != 2 {
		t.Errorf("expected the field reader to re-run, got %d runs", fieldRuns)
	}
	if keysRuns != 1 {
		t.Errorf("a plain set must not re-run enumerators, got %d runs", keysRuns)
	}
}

func TestTrackHookFiresOnNewEdges(t *testing.T) {
	eng := New()
	var events []TrackEvent
	eng.AddHooks(Hooks{Track: func(ev TrackEvent) { events = append(events, ev) }})

	o := eng.Mutable(map[string]any{"a": 1}).(*Object)
	eng.CreateEffect(func() {
		o.Get("a")
		o.Get("a") // deduplicated
		o.Has("b")
	})

	if len(events) != 2 {
		t.Fatalf("expected 2 track events, got %d", len(events))
	}
	if events[0].Op != OpGet || events[0].Key != "a" {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[1].Op != OpHas || events[1].Key != "b" {
		t.Errorf("unexpected second event: %+v", events[1])
	}
}
