// Package realtime fans row-change events out to every connected widget over
// websockets. The feed is one-way and table-wide: clients receive every
// event and correlate by the row id it carries. A subscription lives for the
// page lifetime; a client that cannot keep up is dropped.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	EventReviewCreated = "review.created"
	EventReviewUpdated = "review.updated"
	EventReplyCreated  = "reply.created"
)

type Event struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data"`
}

// Broadcaster is what handlers publish through; the hub implements it.
type Broadcaster interface {
	Publish(eventType string, data any)
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *zap.SugaredLogger
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Publish emits exactly one event per committed write. Delivery to any
// individual client is best-effort.
func (h *Hub) Publish(eventType string, data any) {
	h.broadcast <- Event{
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	h.logger.Infow("realtime client connected", "client_id", client.ID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Infow("realtime client disconnected", "client_id", client.ID)
	}
}

func (h *Hub) broadcastEvent(event Event) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorw("error marshaling realtime event", "error", err)
		return
	}

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Slow consumer, drop it rather than block the feed.
			close(client.send)
			delete(h.clients, client)
		}
	}
}
