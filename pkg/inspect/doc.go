// Package inspect serves a development view into a running engine: the
// current subscriber graph as canonical JSON, cumulative stats, a ring of
// recent track/trigger/run events and a WebSocket stream of the same
// events for live tailing.
//
// The inspector is a development tool. Snapshot capture walks live engine
// state, so by default it assumes the engine is idle while a request is
// served; applications that keep the engine busy call Refresh from their
// own update flow and the HTTP side serves the cached copy.
//
//	eng := reactive.New()
//	ins := inspect.NewServer(eng)
//	go http.ListenAndServe("localhost:6061", ins.Handler())
package inspect
