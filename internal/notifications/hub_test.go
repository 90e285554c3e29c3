package notifications

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newHubServer(hub *Hub) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.HandleConnection(w, r)
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestPublishReachesConnectedClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	srv := newHubServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	assert.NoError(t, err)
	defer conn.Close()

	// Registration goes through the hub's channel; give it a moment.
	time.Sleep(50 * time.Millisecond)
	hub.Publish(Event{Type: EventReportCreated})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	err = conn.ReadJSON(&event)
	assert.NoError(t, err)
	assert.Equal(t, EventReportCreated, event.Type)
	assert.False(t, event.Timestamp.IsZero())
}

func TestStopDisconnectsClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	srv := newHubServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	assert.NoError(t, err)
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)
	hub.Stop()

	// The server side closes the connection; the read fails instead of
	// hanging on a dead hub.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestHandleConnectionAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	hub.Stop()
	time.Sleep(50 * time.Millisecond)

	srv := newHubServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	assert.NoError(t, err)
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, _ = conn.ReadMessage()
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("connection to a stopped hub was never closed")
	}
}
