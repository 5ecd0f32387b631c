package reactive

import "testing"

func TestEffectRunsOnCreate(t *testing.T) {
	eng := New()

	ran := false
	eng.CreateEffect(func() { ran = true })
	if !ran {
		t.Error("effect should run immediately on creation")
	}
}

func TestLazyEffectWaitsForRun(t *testing.T) {
	eng := New()
	o := eng.Mutable(map[string]any{"a": 1}).(*Object)

	runs := 0
	eff := eng.CreateEffect(func() {
		o.Get("a")
		runs++
	}, Lazy())

	if runs != 0 {
		t.Fatalf("lazy effect should not run on creation, got %d runs", runs)
	}

	// No dependencies recorded yet either.
	o.Set("a", 2)
	if runs != 0 {
		t.Fatalf("lazy effect should not be subscribed before its first run, got %d", runs)
	}

	eff.Run()
	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}
	o.Set("a", 3)
	if runs != 2 {
		t.Errorf("expected subscription after the first run, got %d runs", runs)
	}
}

func TestDependencyPruning(t *testing.T) {
	eng := New()
	o := eng.Mutable(map[string]any{"which": "a", "a": 1, "b": 2}).(*Object)

	runs := 0
	eng.CreateEffect(func() {
		runs++
		if w, _ := o.Get("which"); w == "a" {
			o.Get("a")
		} else {
			o.Get("b")
		}
	})

	// Flip the branch; the effect now depends on which and b only.
	o.Set("which", "b")
	if runs != 2 {
		t.Fatalf("expected re-run on branch flip, got %d runs", runs)
	}

	o.Set("a", 100)
	if runs != 2 {
		t.Errorf("stale dependency on a should have been dropped, got %d runs", runs)
	}
	o.Set("b", 200)
	if runs != 3 {
		t.Errorf("live dependency on b should re-run, got %d runs", runs)
	}
}

func TestStopFinality(t *testing.T) {
	eng := New()
	o := eng.Mutable(map[string]any{"a": 1}).(*Object)

	runs := 0
	eff := eng.CreateEffect(func() {
		o.Get("a")
		runs++
	})

	eff.Stop()
	if eff.Active() {
		t.Error("stopped effect should be inactive")
	}

	o.Set("a", 2)
	if runs != 1 {
		t.Errorf("stopped effect must not re-run, got %d runs", runs)
	}

	// Direct Run still executes the function, without re-subscribing.
	eff.Run()
	if runs != 2 {
		t.Errorf("direct Run of a stopped effect should execute, got %d runs", runs)
	}
	o.Set("a", 3)
	if runs != 2 {
		t.Errorf("a stopped effect's direct run must not re-subscribe, got %d runs", runs)
	}
}

func TestStopIsIdempotentAndFiresOnStop(t *testing.T) {
	eng := New()

	stops := 0
	eff := eng.CreateEffect(func() {}, OnStop(func() { stops++ }))

	eff.Stop()
	eff.Stop()
	if stops != 1 {
		t.Errorf("OnStop should fire once, got %d", stops)
	}
}

func TestSelfTriggerSuppressed(t *testing.T) {
	eng := New()
	o := eng.Mutable(map[string]any{"n": 0}).(*Object)

	runs := 0
	eng.CreateEffect(func() {
		runs++
		v, _ := o.Get("n")
		o.Set("n", v.(int)+1)
	})

	if runs != 1 {
		t.Fatalf("self-triggering effect should run once, got %d runs", runs)
	}
	if v, _ := o.Get("n"); v != 1 {
		t.Errorf("expected the write to land, got %v", v)
	}

	// An outside write still re-runs it exactly once.
	o.Set("n", 10)
	if runs != 2 {
		t.Errorf("expected one re-run after an outside write, got %d runs", runs)
	}
	if v, _ := o.Get("n"); v != 11 {
		t.Errorf("expected 11 after the re-run's increment, got %v", v)
	}
}

func TestPanicPopsStack(t *testing.T) {
	eng := New()
	o := eng.Mutable(map[string]any{"a": 1}).(*Object)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the panic to propagate")
			}
		}()
		eng.CreateEffect(func() {
			o.Get("a")
			panic("boom")
		})
	}()

	if len(eng.stack) != 0 {
		t.Fatalf("expected an empty stack after a panicking run, got %d entries", len(eng.stack))
	}

	// The engine still works afterwards.
	runs := 0
	eng.CreateEffect(func() {
		o.Get("a")
		runs++
	})
	o.Set("a", 2)
	if runs != 2 {
		t.Errorf("expected tracking to work after a panic, got %d runs", runs)
	}
}

func TestNestedEffects(t *testing.T) {
	eng := New()
	o := eng.Mutable(map[string]any{"outer": 1, "inner": 1}).(*Object)

	outerRuns, innerRuns := 0, 0
	var inner *Effect
	eng.CreateEffect(func() {
		outerRuns++
		o.Get("outer")
		if inner == nil {
			inner = eng.CreateEffect(func() {
				innerRuns++
				o.Get("inner")
			})
		}
	})

	if outerRuns != 1 || innerRuns != 1 {
		t.Fatalf("expected both to run once, got outer=%d inner=%d", outerRuns, innerRuns)
	}

	// Inner reads belong to the inner effect, not the outer one.
	o.Set("inner", 2)
	if outerRuns != 1 || innerRuns != 2 {
		t.Errorf("expected only inner to re-run, got outer=%d inner=%d", outerRuns, innerRuns)
	}
	o.Set("outer", 2)
	if outerRuns != 2 || innerRuns != 2 {
		t.Errorf("expected only outer to re-run, got outer=%d inner=%d", outerRuns, innerRuns)
	}
}

func TestDebugHooksOnEffect(t *testing.T) {
	eng := New()
	o := eng.Mutable(map[string]any{"a": 1}).(*Object)

	var tracked []TrackEvent
	var triggered []TriggerEvent
	eng.CreateEffect(func() {
		o.Get("a")
	},
		OnTrack(func(ev TrackEvent) { tracked = append(tracked, ev) }),
		OnTrigger(func(ev TriggerEvent) { triggered = append(triggered, ev) }),
	)

	if len(tracked) != 1 {
		t.Fatalf("expected 1 track event, got %d", len(tracked))
	}
	if tracked[0].Op != OpGet || tracked[0].Key != "a" {
		t.Errorf("unexpected track event: %+v", tracked[0])
	}

	o.Set("a", 2)
	if len(triggered) != 1 {
		t.Fatalf("expected 1 trigger event, got %d", len(triggered))
	}
	if triggered[0].OldValue != 1 || triggered[0].NewValue != 2 {
		t.Errorf("expected change info 1 -> 2, got %+v", triggered[0])
	}

	// Re-run re-records the dependency.
	if len(tracked) != 2 {
		t.Errorf("expected the re-run to record the edge again, got %d track events", len(tracked))
	}
}

func TestEffectRunReturnsValue(t *testing.T) {
	eng := New()

	eff := eng.createRunner(func() any { return 42 }, Lazy())
	if v := eff.Run(); v != 42 {
		t.Errorf("expected Run to return the function value, got %v", v)
	}

	eff.Stop()
	if v := eff.Run(); v != 42 {
		t.Errorf("expected a stopped Run to still return the value, got %v", v)
	}
}

func TestRunWhileOnStackReturnsNil(t *testing.T) {
	eng := New()

	var eff *Effect
	calls := 0
	eff = eng.createRunner(func() any {
		calls++
		if calls == 1 {
			if v := eff.Run(); v != nil {
				t.Errorf("re-entrant Run should return nil, got %v", v)
			}
		}
		return "done"
	}, Lazy())

	eff.Run()
	if calls != 1 {
		t.Errorf("expected exactly one execution, got %d", calls)
	}
}
