// Package network exposes the session over WebSocket. It is presentation
// only: clients dispatch choices and receive state snapshots and journal
// events, but never touch engine state directly.
package network

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fractured-if/engine/internal/engine"
	"github.com/fractured-if/engine/internal/events"
	"github.com/fractured-if/engine/internal/platform/logger"
	"github.com/fractured-if/engine/internal/platform/metrics"
)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	session    *engine.Session
	logger     *logger.Logger
}

// NewHub initializes a new WebSocket Hub bound to one session.
func NewHub(sess *engine.Session, log *logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		session:    sess,
		logger:     log,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New WebSocket client connected")
			// A fresh client needs the full picture before deltas arrive.
			client.sendSnapshot(h.session)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSConnection(-1)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent serializes a journal event and sends it to all clients.
func (h *Hub) BroadcastEvent(event events.Event) {
	envelope := map[string]any{
		"kind":  "event",
		"event": event,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		h.logger.Error("Failed to serialize event for WebSocket broadcast: " + err.Error())
		metrics.Get().RecordWSError()
		return
	}
	h.broadcast <- payload
}

// StartEventPoller spawns a goroutine that polls the journal and pushes new
// events to the Hub. The Hub runs independently from the engine's dispatch
// path while picking up the same events.
func (h *Hub) StartEventPoller(ctx context.Context, journal *events.Journal) {
	go func() {
		pollInterval := time.NewTicker(200 * time.Millisecond)
		defer pollInterval.Stop()

		lastProcessed := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				all := journal.Replay()
				if len(all) > lastProcessed {
					for _, event := range all[lastProcessed:] {
						h.BroadcastEvent(event)
					}
					lastProcessed = len(all)
				}
			}
		}
	}()
}

// StartStateForwarder spawns a goroutine that forwards committed state
// snapshots from the session to all clients.
func (h *Hub) StartStateForwarder(ctx context.Context) {
	updates := h.session.Subscribe()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case state := <-updates:
				payload, err := json.Marshal(snapshotEnvelope(h.session, state))
				if err != nil {
					h.logger.Error("Failed to serialize state snapshot: " + err.Error())
					metrics.Get().RecordWSError()
					continue
				}
				h.broadcast <- payload
			}
		}
	}()
}

// snapshotEnvelope packages a state snapshot with the presentation-ready
// pieces the frontend needs: the scene, the eligible choices, the intensity.
func snapshotEnvelope(sess *engine.Session, state engine.State) map[string]any {
	scene := sess.CurrentScene()
	return map[string]any{
		"kind":      "snapshot",
		"state":     state,
		"scene":     scene,
		"speaker":   scene.Speaker.DisplayName(),
		"choices":   sess.AvailableChoices(),
		"intensity": sess.Intensity(),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin enforcement is left to the deployment proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a WebSocket connection and attaches it
// to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed: " + err.Error())
		metrics.Get().RecordWSError()
		return
	}

	client := NewClient(h, conn)
	client.Register()
	go client.WritePump()
	go client.ReadPump()
}
