package inspect

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/reactive/pkg/reactive"
)

func waitForClients(t *testing.T, srv *Server, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if srv.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d connected clients, got %d", want, srv.ClientCount())
}

func TestWebSocketStreamsEvents(t *testing.T) {
	eng := reactive.New()
	srv := NewServer(eng)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer srv.Close()

	o := eng.Mutable(map[string]any{"n": 1}).(*reactive.Object)
	eng.CreateEffect(func() { o.Get("n") })

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "dial should succeed")
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()
	waitForClients(t, srv, 1)

	// A set produces a trigger, a re-track and a run, in that order.
	o.Set("n", 2)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var types []string
	for i := 0; i < 3; i++ {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "expected a streamed event")
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		types = append(types, ev.Type)
	}
	assert.Equal(t, []string{"trigger", "track", "run"}, types)
}

func TestWebSocketPrunesDisconnectedClients(t *testing.T) {
	eng := reactive.New()
	srv := NewServer(eng)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	waitForClients(t, srv, 1)

	conn.Close()
	waitForClients(t, srv, 0)
}

func TestBroadcastWithoutClients(t *testing.T) {
	eng := reactive.New()
	srv := NewServer(eng)
	defer srv.Close()

	// No clients connected; engine activity must still flow normally.
	o := eng.Mutable(map[string]any{"n": 1}).(*reactive.Object)
	runs := 0
	eng.CreateEffect(func() {
		o.Get("n")
		runs++
	})
	o.Set("n", 2)
	assert.Equal(t, 2, runs)
}
