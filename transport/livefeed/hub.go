package livefeed

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/botguard/botguard/core/event"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	outgoingBuffer = 64
)

// Hub upgrades incoming connections to WebSocket and fans out
// detectionEvent/errorEvent messages from the bus to every connected
// client, one goroutine per connection. A client that falls behind has
// its messages dropped rather than stalling the others, mirroring the
// event bus's own non-blocking publish policy.
type Hub struct {
	bus      *event.Bus
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// message is the JSON envelope written to each client.
type message struct {
	Topic     string    `json:"topic"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
}

// New builds a Hub over bus. checkOrigin, if nil, allows any origin —
// callers serving this across origins in production should supply
// their own check.
func New(bus *event.Bus, checkOrigin func(*http.Request) bool, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		bus: bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: log,
	}
}

// ServeHTTP upgrades the request to a WebSocket and streams detection
// and error events to it until the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("livefeed: upgrade failed", "error", err)
		return
	}
	go h.serve(conn)
}

func (h *Hub) serve(conn *websocket.Conn) {
	defer conn.Close()

	detections, unsubDetections := h.bus.Subscribe(event.TopicDetectionEvent, outgoingBuffer)
	errs, unsubErrors := h.bus.Subscribe(event.TopicErrorEvent, outgoingBuffer)
	defer unsubDetections()
	defer unsubErrors()

	// Drain and discard anything the client sends (pings/close frames);
	// this connection is publish-only. Exiting this goroutine signals
	// the client disconnected so the write loop below can stop too.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case evt, ok := <-detections:
			if !ok {
				return
			}
			if !h.write(conn, event.TopicDetectionEvent, evt) {
				return
			}
		case evt, ok := <-errs:
			if !ok {
				return
			}
			if !h.write(conn, event.TopicErrorEvent, evt) {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) write(conn *websocket.Conn, topic event.Topic, evt event.Event) bool {
	data, err := json.Marshal(message{Topic: string(topic), Payload: evt.Payload, CreatedAt: evt.CreatedAt})
	if err != nil {
		h.log.Warn("livefeed: failed to marshal event", "topic", topic, "error", err)
		return true
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return false
	}
	return true
}
