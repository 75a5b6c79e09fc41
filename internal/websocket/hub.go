package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"intelidoc-rag-be/internal/dto"
	"intelidoc-rag-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// relayEnvelope wraps events on the Redis channel. Origin lets an instance
// recognize and drop the copy Redis echoes back to it.
type relayEnvelope struct {
	Origin string          `json:"origin"`
	Event  json.RawMessage `json:"event"`
}

// Hub fans document status events out to every connected client. There is no
// per-client subscription model: each client receives all events and filters
// on document_id itself.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance relay (optional)
	rdb *redis.Client

	// Identifies this instance on the relay channel
	instanceId string

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis relay if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"client_id": client.ID, "total": count})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"client_id": client.ID, "total": len(h.clients)})
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a document status event to ALL connected clients. A slow
// client whose buffer is full gets dropped rather than stalling the pipeline.
func (h *Hub) Broadcast(event dto.DocumentStatusEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal status event", map[string]interface{}{"error": err.Error()})
		return
	}

	h.broadcastLocal(data)

	// Relay to other instances
	if h.rdb != nil {
		relay, err := json.Marshal(relayEnvelope{Origin: h.instanceId, Event: data})
		if err != nil {
			h.logger.Error("Hub", "Failed to marshal relay envelope", map[string]interface{}{"error": err.Error()})
			return
		}
		h.rdb.Publish(context.Background(), "document_events", relay)
	}
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	var dead []*Client
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			dead = append(dead, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range dead {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"client_id": client.ID})
		h.unregister <- client
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to "document_events" and replays messages to
	// its local clients. The publisher already delivered locally, so the copy
	// Redis echoes back to it is dropped by origin.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "document_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		h.handleRelay([]byte(msg.Payload))
	}
}

// handleRelay replays an event relayed by another instance. Self-originated
// envelopes are dropped so local clients see each event at most once.
func (h *Hub) handleRelay(payload []byte) {
	var env relayEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		h.logger.Error("Hub", "Failed to parse relayed event", map[string]interface{}{"error": err.Error()})
		return
	}
	if env.Origin == h.instanceId || len(env.Event) == 0 {
		return
	}
	h.broadcastLocal(env.Event)
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
