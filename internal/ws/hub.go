// Package ws is the websocket transport: a hub with room-based multicast,
// per-connection read/write pumps, and the event dispatcher that turns wire
// messages into service calls.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/partypop/partypop/internal/model"
)

// Hub tracks live connections and their room membership, and implements
// the notifier interfaces of the room registry and the matchmaking queue.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.ClientID]*Client
	rooms   map[model.RoomCode]map[model.ClientID]*Client
	logger  *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ClientID]*Client),
		rooms:   make(map[model.RoomCode]map[model.ClientID]*Client),
		logger:  logger.With(slog.String("component", "ws")),
	}
}

// Register adds a connected client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected",
		slog.String("client_id", string(c.ID)),
		slog.Int("total_clients", total))
}

// Unregister removes a client and its room membership.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		c.closeSend()
	}
	for code, members := range h.rooms {
		if _, ok := members[c.ID]; ok {
			delete(members, c.ID)
			if len(members) == 0 {
				delete(h.rooms, code)
			}
		}
	}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client disconnected",
		slog.String("client_id", string(c.ID)),
		slog.Int("total_clients", total))
}

// JoinRoom subscribes a client to a room's multicast group.
func (h *Hub) JoinRoom(clientID model.ClientID, code model.RoomCode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[clientID]
	if !ok {
		return
	}
	if h.rooms[code] == nil {
		h.rooms[code] = make(map[model.ClientID]*Client)
	}
	h.rooms[code][clientID] = c
}

// LeaveRoom unsubscribes a client from a room's multicast group.
func (h *Hub) LeaveRoom(clientID model.ClientID, code model.RoomCode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[code]; ok {
		delete(members, clientID)
		if len(members) == 0 {
			delete(h.rooms, code)
		}
	}
}

// Send delivers one event to a single client. Slow clients get dropped
// messages rather than blocking the sender.
func (h *Hub) Send(clientID model.ClientID, eventType string, payload any) {
	h.mu.RLock()
	c, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.push(c, eventType, payload)
}

// SendError delivers an error event to a single client only.
func (h *Hub) SendError(clientID model.ClientID, code, message string) {
	h.Send(clientID, model.EventError, model.ServerError{Code: code, Message: message})
}

// RoomUpdated broadcasts a full room snapshot to every member connection.
// Implements room.Notifier.
func (h *Hub) RoomUpdated(room *model.Room) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room.Code]))
	for _, c := range h.rooms[room.Code] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		h.push(c, model.EventGameStateUpdate, model.GameStateUpdate{Room: room})
	}
}

// RoomClosed sends the terminal error to every member and dissolves the
// multicast group. Implements room.Notifier.
func (h *Hub) RoomClosed(code model.RoomCode, reason model.ServerError) {
	h.mu.Lock()
	members := h.rooms[code]
	delete(h.rooms, code)
	list := make([]*Client, 0, len(members))
	for _, c := range members {
		list = append(list, c)
	}
	h.mu.Unlock()

	for _, c := range list {
		h.push(c, model.EventError, reason)
		c.clearRoom(code)
	}
}

// QueueStatus pushes the waiting count to every queued connection in a
// bucket. Implements matchmaking.Notifier.
func (h *Hub) QueueStatus(clients []model.ClientID, status model.QueueStatusPayload) {
	for _, id := range clients {
		h.Send(id, model.EventQueueStatus, status)
	}
}

// Matched joins the client to the new room and delivers the snapshot as a
// room-joined unicast. Implements matchmaking.Notifier.
func (h *Hub) Matched(clientID model.ClientID, playerID model.PlayerID, snapshot *model.Room) {
	h.mu.RLock()
	c, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	c.setRoom(snapshot.Code, playerID)
	h.JoinRoom(clientID, snapshot.Code)
	h.push(c, model.EventRoomJoined, snapshot)
}

// push marshals and queues one event for a client.
func (h *Hub) push(c *Client, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("marshal outbound event failed",
			slog.String("type", eventType),
			slog.String("error", err.Error()))
		return
	}
	msg, err := json.Marshal(model.Envelope{Type: eventType, Payload: data})
	if err != nil {
		return
	}

	if !c.enqueue(msg) {
		h.logger.Warn("outbound message dropped, client buffer full or closed",
			slog.String("client_id", string(c.ID)),
			slog.String("type", eventType))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
