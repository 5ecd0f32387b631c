package reactive

import (
	"fmt"
	"sort"
)

// GraphSnapshot is a point-in-time description of the subscriber graph.
// For a given graph state the snapshot is deterministic: targets and
// effects sort by ID, keys by rendered form, subscribers keep their
// notification order.
type GraphSnapshot struct {
	Targets []TargetSnapshot `json:"targets"`
	Effects []EffectSnapshot `json:"effects"`
	Stats   Stats            `json:"stats"`
}

// TargetSnapshot describes one subscriber-graph entry.
type TargetSnapshot struct {
	ID   uint64        `json:"id"`
	Kind string        `json:"kind"`
	Keys []KeySnapshot `json:"keys"`
}

// KeySnapshot describes one (target, key) subscriber set. Subscribers are
// effect IDs in first-subscription order.
type KeySnapshot struct {
	Key         string   `json:"key"`
	Subscribers []uint64 `json:"subscribers"`
}

// EffectSnapshot describes one live effect.
type EffectSnapshot struct {
	ID       uint64 `json:"id"`
	Computed bool   `json:"computed"`
	Active   bool   `json:"active"`
	Deps     int    `json:"deps"`
	Runs     uint64 `json:"runs"`
}

// RenderKey gives keys a stable textual form for snapshots and logs:
// special keys carry a "#" prefix so they never collide with rendered
// string keys.
func RenderKey(k any) string {
	switch x := k.(type) {
	case SpecialKey:
		return "#" + string(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// Snapshot captures the current subscriber graph for inspection. It walks
// live engine state: take it between effect runs, not from inside hooks.
func (e *Engine) Snapshot() GraphSnapshot {
	snap := GraphSnapshot{
		Targets: make([]TargetSnapshot, 0, len(e.targets)),
		Effects: make([]EffectSnapshot, 0, len(e.effects)),
		Stats:   e.Stats(),
	}

	for _, t := range e.targets {
		ts := TargetSnapshot{ID: t.id, Kind: t.kind.String(), Keys: make([]KeySnapshot, 0, len(t.deps))}
		for k, d := range t.deps {
			ks := KeySnapshot{Key: RenderKey(k), Subscribers: make([]uint64, 0, len(d.subs))}
			for _, sub := range d.subs {
				ks.Subscribers = append(ks.Subscribers, sub.id)
			}
			ts.Keys = append(ts.Keys, ks)
		}
		sort.Slice(ts.Keys, func(i, j int) bool { return ts.Keys[i].Key < ts.Keys[j].Key })
		snap.Targets = append(snap.Targets, ts)
	}
	sort.Slice(snap.Targets, func(i, j int) bool { return snap.Targets[i].ID < snap.Targets[j].ID })

	for _, eff := range e.effects {
		snap.Effects = append(snap.Effects, EffectSnapshot{
			ID:       eff.id,
			Computed: eff.computed,
			Active:   eff.active,
			Deps:     eff.deps.Cardinality(),
			Runs:     eff.runs,
		})
	}
	sort.Slice(snap.Effects, func(i, j int) bool { return snap.Effects[i].ID < snap.Effects[j].ID })

	return snap
}
