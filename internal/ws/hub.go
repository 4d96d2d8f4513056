package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Envelope is the wire frame pushed to clients.
type Envelope struct {
	Event     string `json:"event"`
	Payload   string `json:"payload"`
	Timestamp string `json:"timestamp"`
}

// Hub owns the room-membership map: one room per user identity, holding
// every live connection that user has. Only the hub's own register and
// unregister paths mutate the map; senders reach it through Emit.
type Hub struct {
	mutex  sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *log.Logger

	now func() time.Time
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
		now:    time.Now,
	}
}

// Register joins a client to its room, creating the room on first join.
func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}

	h.mutex.Lock()
	room, ok := h.rooms[client.room]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[client.room] = room
	}
	room[client] = struct{}{}
	total := len(room)
	h.mutex.Unlock()

	h.logger.Printf("WS connected | room=%s room_clients=%d", client.room, total)
}

// Unregister leaves the client's room and removes the room when empty.
func (h *Hub) Unregister(client *Client) {
	if h == nil || client == nil {
		return
	}

	h.mutex.Lock()
	joined := false
	room, ok := h.rooms[client.room]
	if ok {
		if _, joined = room[client]; joined {
			delete(room, client)
			close(client.send)
		}
		if len(room) == 0 {
			delete(h.rooms, client.room)
		}
	}
	h.mutex.Unlock()

	if joined {
		h.logger.Printf("WS disconnected | room=%s", client.room)
	}
}

// Emit pushes an event to every connection in the room. Delivery is
// best-effort: an empty room drops the push, and a client whose send
// buffer is full is disconnected rather than blocked on.
//
// Sends happen under the read lock while Unregister closes send channels
// under the write lock, so a send can never hit a closed channel.
func (h *Hub) Emit(room, event, payload string) error {
	if h == nil {
		return nil
	}

	env := Envelope{
		Event:     event,
		Payload:   payload,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}

	var full []*Client
	h.mutex.RLock()
	for client := range h.rooms[room] {
		select {
		case client.send <- b:
		default:
			full = append(full, client)
		}
	}
	h.mutex.RUnlock()

	for _, client := range full {
		h.logger.Printf("WS send dropped | room=%s reason=buffer_full", room)
		h.Unregister(client)
	}
	return nil
}

// RoomSize reports the number of live connections in a room.
func (h *Hub) RoomSize(room string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[room])
}
