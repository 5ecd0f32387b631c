package inspect

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Event is one observed engine event, as buffered and streamed to
// clients. Type is "track", "trigger" or "run"; the remaining fields
// apply per type.
type Event struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	Type       string    `json:"type"`
	Op         string    `json:"op,omitempty"`
	Key        string    `json:"key,omitempty"`
	Effect     uint64    `json:"effect,omitempty"`
	Computed   bool      `json:"computed,omitempty"`
	Notified   int       `json:"notified,omitempty"`
	DurationUS int64     `json:"duration_us,omitempty"`
}

const defaultEventBuffer = 256

// Server exposes one engine over HTTP. Create it before the engine
// starts running effects so the event ring sees everything.
type Server struct {
	log *slog.Logger
	eng *reactive.Engine
	hub *hub

	mu     sync.Mutex
	events []Event
	cap    int
	latest *reactive.GraphSnapshot
}

// ServerOption configures the inspector.
type ServerOption func(*Server)

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.log = l }
}

// WithEventBuffer sets how many recent events the ring keeps.
func WithEventBuffer(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.cap = n
		}
	}
}

// NewServer attaches an inspector to eng and returns it. The inspector
// registers hooks on the engine; events start flowing immediately.
func NewServer(eng *reactive.Engine, opts ...ServerOption) *Server {
	s := &Server{
		eng: eng,
		cap: defaultEventBuffer,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = slog.Default().With("component", "inspect")
	}
	s.hub = newHub(s.log)
	eng.AddHooks(s.hooks())
	return s
}

// hooks adapts engine events into the ring and the stream. The hook
// bodies run inside the engine's flow, so ring writes happen on the
// engine's goroutine and only the mutex-guarded buffer crosses to HTTP.
func (s *Server) hooks() reactive.Hooks {
	return reactive.Hooks{
		Track: func(ev reactive.TrackEvent) {
			s.record(Event{
				Type:     "track",
				Op:       ev.Op.String(),
				Key:      renderEventKey(ev.Key),
				Effect:   ev.Effect.ID(),
				Computed: ev.Effect.Computed(),
			})
		},
		Trigger: func(ev reactive.TriggerEvent, notified int) {
			s.record(Event{
				Type:     "trigger",
				Op:       ev.Op.String(),
				Key:      renderEventKey(ev.Key),
				Notified: notified,
			})
		},
		EffectRun: func(eff *reactive.Effect, took time.Duration) {
			s.record(Event{
				Type:       "run",
				Effect:     eff.ID(),
				Computed:   eff.Computed(),
				DurationUS: took.Microseconds(),
			})
		},
	}
}

func renderEventKey(key any) string {
	if key == nil {
		return ""
	}
	return reactive.RenderKey(key)
}

func (s *Server) record(ev Event) {
	ev.ID = uuid.Must(uuid.NewV7()).String()
	ev.Time = time.Now()

	s.mu.Lock()
	if len(s.events) == s.cap {
		copy(s.events, s.events[1:])
		s.events = s.events[:s.cap-1]
	}
	s.events = append(s.events, ev)
	s.mu.Unlock()

	s.hub.broadcast(ev)
}

// Refresh captures a fresh graph snapshot for the HTTP side to serve.
// Call it from the engine's own flow, between effect runs. Once called,
// requests serve the cached copy instead of capturing directly.
func (s *Server) Refresh() {
	snap := s.eng.Snapshot()
	s.mu.Lock()
	s.latest = &snap
	s.mu.Unlock()
}

func (s *Server) snapshot() reactive.GraphSnapshot {
	s.mu.Lock()
	cached := s.latest
	s.mu.Unlock()
	if cached != nil {
		return *cached
	}
	return s.eng.Snapshot()
}

// ClientCount returns the number of connected stream clients.
func (s *Server) ClientCount() int {
	return s.hub.clientCount()
}

// Close drops all stream clients.
func (s *Server) Close() {
	s.hub.close()
}

// Handler returns the inspector's HTTP handler, ready to mount.
//
// Routes:
//
//	GET /           dashboard page with a live event tail
//	GET /api/graph  subscriber graph as canonical JSON, ETag cached
//	GET /api/stats  engine counters
//	GET /api/events recent events, newest last (?limit=N)
//	GET /ws         WebSocket stream of events
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/api/graph", s.handleGraph)
	r.Get("/api/stats", s.handleStats)
	r.Get("/api/events", s.handleEvents)
	r.Get("/ws", s.hub.handleWebSocket)
	return r
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	body, err := json.MarshalIndent(s.snapshot(), "", "  ")
	if err != nil {
		s.log.Error("graph snapshot encode failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// The snapshot is canonical for a given graph state, so a content
	// hash works as a revalidation ETag.
	etag := fmt.Sprintf("%q", strconv.FormatUint(xxhash.Sum64(body), 16))
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.snapshot().Stats
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		s.log.Error("stats encode failed", "error", err)
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	s.mu.Lock()
	events := s.events
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	out := make([]Event, len(events))
	copy(out, events)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"events": out}); err != nil {
		s.log.Error("events encode failed", "error", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(indexPage))
}

// etagMatches handles If-None-Match lists: "abc", W/"def".
func etagMatches(ifNoneMatchHeader, etag string) bool {
	if ifNoneMatchHeader == "" || etag == "" {
		return false
	}
	for _, part := range strings.Split(ifNoneMatchHeader, ",") {
		candidate := strings.TrimSpace(part)
		if candidate == etag {
			return true
		}
		if strings.HasPrefix(candidate, "W/") && strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// indexPage is the dashboard served at the root. It is injected inline,
// like the dev reload client, so the inspector has no assets to ship.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Reactive Inspector</title>
<style>
body { font-family: monospace; background: #111; color: #ddd; margin: 2em; }
h1 { color: #8df; font-size: 1.2em; }
a { color: #8df; }
#stats { color: #9e9; margin-bottom: 1em; }
#events { white-space: pre; }
.trigger { color: #f99; }
.track { color: #99f; }
.run { color: #9e9; }
</style>
</head>
<body>
<h1>Reactive Inspector</h1>
<p><a href="/api/graph">graph</a> &middot; <a href="/api/stats">stats</a> &middot; <a href="/api/events">events</a></p>
<div id="stats">connecting&hellip;</div>
<div id="events"></div>
<script>
(function() {
    'use strict';

    var events = document.getElementById('events');
    var stats = document.getElementById('stats');
    var max = 200;

    function refreshStats() {
        fetch('/api/stats').then(function(r) { return r.json(); }).then(function(s) {
            stats.textContent = 'targets=' + s.targets + ' deps=' + s.deps +
                ' effects=' + s.effects + ' tracks=' + s.tracks +
                ' triggers=' + s.triggers + ' runs=' + s.runs;
        });
    }

    function line(ev) {
        var div = document.createElement('div');
        div.className = ev.type;
        var text = ev.time + ' ' + ev.type;
        if (ev.op) text += ' op=' + ev.op;
        if (ev.key) text += ' key=' + ev.key;
        if (ev.effect) text += ' effect=' + ev.effect;
        if (ev.notified) text += ' notified=' + ev.notified;
        if (ev.duration_us) text += ' took=' + ev.duration_us + 'us';
        div.textContent = text;
        events.insertBefore(div, events.firstChild);
        while (events.childNodes.length > max) {
            events.removeChild(events.lastChild);
        }
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/ws');
        ws.onmessage = function(e) {
            try { line(JSON.parse(e.data)); } catch (err) { return; }
            refreshStats();
        };
        ws.onclose = function() { setTimeout(connect, 1000); };
        ws.onerror = function() { ws.close(); };
    }

    refreshStats();
    connect();
})();
</script>
</body>
</html>
`
