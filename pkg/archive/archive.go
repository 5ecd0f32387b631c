package archive

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// ErrNotFound is returned when a trace doesn't exist in the store.
var ErrNotFound = errors.New("archive: trace not found")

// Store is the interface for trace storage backends.
// Implement this interface to use S3, GCS, or other storage.
type Store interface {
	// Save persists a trace under its ID.
	Save(t *Trace) error

	// Load retrieves a trace by ID.
	Load(id string) (*Trace, error)

	// List returns the IDs of all stored traces, sorted.
	List() ([]string, error)

	// Delete removes a trace by ID.
	Delete(id string) error
}

// Trace is one archived window of engine activity: the buffered events
// plus the subscriber graph as it stood at flush time.
type Trace struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Label     string                 `json:"label,omitempty"`
	Dropped   uint64                 `json:"dropped,omitempty"`
	Graph     reactive.GraphSnapshot `json:"graph"`
	Events    []TraceEvent           `json:"events"`
}

// TraceEvent is one buffered engine event. Type is "track", "trigger"
// or "run"; the remaining fields apply per type.
type TraceEvent struct {
	Seq        uint64    `json:"seq"`
	Time       time.Time `json:"time"`
	Type       string    `json:"type"`
	Op         string    `json:"op,omitempty"`
	Key        string    `json:"key,omitempty"`
	Effect     uint64    `json:"effect,omitempty"`
	Computed   bool      `json:"computed,omitempty"`
	Notified   int       `json:"notified,omitempty"`
	DurationUS int64     `json:"duration_us,omitempty"`
}

const defaultCapacity = 4096

// Recorder buffers engine events for archiving. The buffer is bounded;
// when full, the oldest events are dropped and counted, so a flush
// always carries the most recent window.
type Recorder struct {
	mu      sync.Mutex
	eng     *reactive.Engine
	events  []TraceEvent
	cap     int
	seq     uint64
	dropped uint64
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithCapacity sets how many events the recorder buffers.
func WithCapacity(n int) RecorderOption {
	return func(r *Recorder) {
		if n > 0 {
			r.cap = n
		}
	}
}

// NewRecorder attaches a recorder to eng and returns it. Recording
// starts immediately.
func NewRecorder(eng *reactive.Engine, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		eng: eng,
		cap: defaultCapacity,
	}
	for _, o := range opts {
		o(r)
	}
	eng.AddHooks(r.hooks())
	return r
}

func (r *Recorder) hooks() reactive.Hooks {
	return reactive.Hooks{
		Track: func(ev reactive.TrackEvent) {
			r.record(TraceEvent{
				Type:     "track",
				Op:       ev.Op.String(),
				Key:      renderKey(ev.Key),
				Effect:   ev.Effect.ID(),
				Computed: ev.Effect.Computed(),
			})
		},
		Trigger: func(ev reactive.TriggerEvent, notified int) {
			r.record(TraceEvent{
				Type:     "trigger",
				Op:       ev.Op.String(),
				Key:      renderKey(ev.Key),
				Notified: notified,
			})
		},
		EffectRun: func(eff *reactive.Effect, took time.Duration) {
			r.record(TraceEvent{
				Type:       "run",
				Effect:     eff.ID(),
				Computed:   eff.Computed(),
				DurationUS: took.Microseconds(),
			})
		},
	}
}

func renderKey(key any) string {
	if key == nil {
		return ""
	}
	return reactive.RenderKey(key)
}

func (r *Recorder) record(ev TraceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ev.Seq = r.seq
	ev.Time = time.Now().UTC()
	if len(r.events) == r.cap {
		copy(r.events, r.events[1:])
		r.events = r.events[:r.cap-1]
		r.dropped++
	}
	r.events = append(r.events, ev)
}

// Len returns the number of buffered events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Dropped returns how many events fell out of the buffer since the last
// flush or reset.
func (r *Recorder) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Reset discards the buffered events and the dropped count.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.dropped = 0
}

// Flush drains the buffer into a Trace together with a fresh graph
// snapshot and, when store is non-nil, persists it. Call it from the
// engine's own flow, between effect runs, like Snapshot.
func (r *Recorder) Flush(store Store, label string) (*Trace, error) {
	graph := r.eng.Snapshot()

	r.mu.Lock()
	events := r.events
	dropped := r.dropped
	r.events = nil
	r.dropped = 0
	r.mu.Unlock()

	t := &Trace{
		ID:        uuid.Must(uuid.NewV7()).String(),
		CreatedAt: time.Now().UTC(),
		Label:     label,
		Dropped:   dropped,
		Graph:     graph,
		Events:    events,
	}
	if store != nil {
		if err := store.Save(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}
