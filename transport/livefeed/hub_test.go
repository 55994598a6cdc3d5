package livefeed_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botguard/botguard/core/event"
	"github.com/botguard/botguard/detect"
	"github.com/botguard/botguard/transport/livefeed"
)

func newTestServer(t *testing.T, bus *event.Bus) (*httptest.Server, *websocket.Conn) {
	t.Helper()
	hub := livefeed.New(bus, nil, nil)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return server, conn
}

func TestHub_BroadcastsDetectionEventToConnectedClient(t *testing.T) {
	bus := event.NewBus()
	_, conn := newTestServer(t, bus)

	// give the server goroutine time to subscribe before publishing.
	time.Sleep(50 * time.Millisecond)

	result := detect.Result{IsSuspicious: true, SuspicionScore: 80, CorrelationID: "hub-test-1"}
	bus.Publish(event.TopicDetectionEvent, result)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, string(event.TopicDetectionEvent), msg["topic"])
}

func TestHub_BroadcastsErrorEventToConnectedClient(t *testing.T) {
	bus := event.NewBus()
	_, conn := newTestServer(t, bus)

	time.Sleep(50 * time.Millisecond)

	bus.Publish(event.TopicErrorEvent, map[string]string{"stage": "geo", "message": "circuit open"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, string(event.TopicErrorEvent), msg["topic"])
}

func TestHub_DisconnectUnsubscribesFromBus(t *testing.T) {
	bus := event.NewBus()
	_, conn := newTestServer(t, bus)
	time.Sleep(50 * time.Millisecond)

	require.Equal(t, 1, bus.SubscriberCount(event.TopicDetectionEvent))

	require.NoError(t, conn.Close())
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 0, bus.SubscriberCount(event.TopicDetectionEvent))
}
