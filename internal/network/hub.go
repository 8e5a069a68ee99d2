// Package network provides the WebSocket spectator feed. Connected clients
// receive every event-log entry as it is written, so a frontend can narrate
// the game live without polling the snapshot endpoint.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/avelasco/mafia-agents/internal/events"
	"github.com/avelasco/mafia-agents/internal/platform/logger"
	"github.com/avelasco/mafia-agents/internal/platform/metrics"
)

// pollInterval is how often the hub checks the watched log for new entries.
const pollInterval = 200 * time.Millisecond

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	watch      chan *events.Log
	mu         sync.Mutex
	logger     *logger.Logger
}

// NewHub initializes a new WebSocket Hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		watch:      make(chan *events.Log, 1),
		clients:    make(map[*Client]bool),
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
					metrics.Get().RecordWSMessage()
				default:
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSConnection(-1)
					metrics.Get().RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEntry serializes a log entry and sends it to all connected clients.
func (h *Hub) BroadcastEntry(entry events.Entry) {
	payload, err := json.Marshal(entry)
	if err != nil {
		h.logger.Error("Failed to serialize log entry for WebSocket broadcast: %v", err)
		metrics.Get().RecordWSError()
		return
	}
	h.broadcast <- payload
}

// Watch switches the poller to a new game's event log. Subsequent entries of
// that log are broadcast; earlier games stop streaming.
func (h *Hub) Watch(log *events.Log) {
	// Drop any stale pending swap; only the latest game matters.
	select {
	case <-h.watch:
	default:
	}
	h.watch <- log
}

// StartEventPoller spawns a goroutine that polls the watched event log and
// pushes new entries to the Hub. The engine never blocks on spectators; the
// poller picks up whatever was appended since its last pass.
func (h *Hub) StartEventPoller(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		var watched *events.Log
		cursor := 0

		for {
			select {
			case <-ctx.Done():
				return
			case log := <-h.watch:
				watched = log
				cursor = 0
			case <-ticker.C:
				if watched == nil {
					continue
				}
				entries := watched.Entries()
				for ; cursor < len(entries); cursor++ {
					h.BroadcastEntry(entries[cursor])
				}
			}
		}
	}()
}
