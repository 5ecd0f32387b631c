package reactive

import "sync/atomic"

// globalIDCounter is the source of unique IDs for targets, subscriber sets
// and effects. IDs stay unique across engines, which keeps snapshots from
// different engines distinguishable when collected side by side.
var globalIDCounter uint64

// nextID returns the next unique ID. IDs are monotonically increasing and
// never reused.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
