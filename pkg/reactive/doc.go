// Package reactive is a fine-grained dependency-tracking engine: plain data
// is wrapped so that reads performed inside an effect are recorded as
// dependencies, and writes re-run exactly the effects that read the changed
// location.
//
// # Engines
//
// All state lives on an Engine: the identity registry that maps raw values
// to their wrapped views, the subscriber graph, the stack of running
// effects, and the tracking toggles. Engines are independent; a process may
// run several without interference.
//
//	eng := reactive.New()
//	o := eng.Mutable(map[string]any{"count": 0}).(*reactive.Object)
//	eng.CreateEffect(func() {
//		v, _ := o.Get("count")
//		fmt.Println("count is", v)
//	})
//	o.Set("count", 1) // effect re-runs
//
// # Wrapped Views
//
// Three composite kinds are wrappable: records (map[string]any) as Object,
// ordered lists (*[]any) as List, and keyed collections (map[any]any) as
// Dict. Lists are addressed through a slice pointer so growth through the
// view stays visible to every holder of the raw value; a bare []any cannot
// be wrapped because a copied slice header hides growth, and Wrap returns
// it unchanged. Normalize converts decoded JSON into wrappable shape.
//
// Every raw value has at most one view per mode (mutable, read-only), and
// Wrap always returns that one view. Read-only is sticky: asking for a
// mutable view of a read-only view returns the read-only view. Writes
// through read-only views are silently dropped unless run inside
// Engine.Privileged.
//
// # Effects
//
// An Effect re-runs whenever one of its recorded dependencies changes. The
// dependency set is rebuilt from scratch on every run, so reads guarded by
// a branch that has turned false are dropped. Effects created with the
// Computed option are notified before plain effects on a shared change, so
// a plain effect never observes a stale derived value; Memo builds a lazy
// cached value on top of that ordering. A scheduler option replaces
// synchronous re-runs with a hand-off, which is where batching or deferral
// belongs; the engine itself never batches.
//
// # Concurrency
//
// The engine assumes a single logical flow of control with cooperative
// re-entrancy: an effect's reads and writes may trigger nested runs, which
// the run stack supports, but no engine may be used from multiple
// goroutines at once. Confine each Engine and everything wrapped by it to
// one goroutine.
package reactive
