package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"canvas-studio-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "canvas_cluster_events"

// Hub tracks the editors connected to each workspace and fans state-change
// events out to them. With Redis configured, events are also relayed across
// instances so every editor of a workspace sees the change regardless of
// which instance it is connected to.
type Hub struct {
	// Registered clients map: WorkspaceID -> List of Clients (multi-tab)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance relay
	rdb *redis.Client

	// Identifies this instance on the relay channel so it can skip its own
	// messages.
	instanceID string

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
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
			h.clients[client.WorkspaceID] = append(h.clients[client.WorkspaceID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"workspace_id": client.WorkspaceID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.WorkspaceID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.WorkspaceID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.WorkspaceID]) == 0 {
					delete(h.clients, client.WorkspaceID)
					h.logger.Info("Hub", "Workspace has no clients left", map[string]interface{}{"workspace_id": client.WorkspaceID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast pushes a state-change payload to every editor of the workspace on
// this instance, then relays it over Redis for the other instances.
func (h *Hub) Broadcast(workspaceID string, payload []byte) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "state_change",
		"data": json.RawMessage(payload),
	})

	h.sendLocal(workspaceID, data)

	if h.rdb != nil {
		relay := map[string]interface{}{
			"origin":       h.instanceID,
			"workspace_id": workspaceID,
			"message":      json.RawMessage(data),
		}
		jsonRelay, _ := json.Marshal(relay)
		h.rdb.Publish(context.Background(), clusterChannel, jsonRelay)
	}
}

func (h *Hub) sendLocal(workspaceID string, data []byte) {
	// Send while holding the read lock: the unregister path closes Send under
	// the write lock, so a client still in the map has an open channel. The
	// sends never block, they fall through to the drop branch instead.
	h.mu.RLock()
	var dropped []*Client
	for _, client := range h.clients[workspaceID] {
		select {
		case client.Send <- data:
		default:
			dropped = append(dropped, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range dropped {
		// The unregister path closes Send.
		h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"workspace_id": workspaceID})
		h.unregister <- client
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to one relay channel; a message carries the
	// workspace it targets and each instance delivers only to clients it holds
	// locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var relay struct {
			Origin      string          `json:"origin"`
			WorkspaceID string          `json:"workspace_id"`
			Message     json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &relay); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}
		if relay.Origin == h.instanceID {
			// Already delivered locally before publishing.
			continue
		}

		h.sendLocal(relay.WorkspaceID, relay.Message)
	}
}
