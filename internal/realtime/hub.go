// Package realtime pushes feed changes to connected clients over websockets.
package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

const (
	EventPostCreated         = "post.created"
	EventPostUpdated         = "post.updated"
	EventPostDeleted         = "post.deleted"
	EventPostLikes           = "post.likes"
	EventCommentCreated      = "comment.created"
	EventCommentDeleted      = "comment.deleted"
	EventNotificationCreated = "notification.created"
	EventUnreadCount         = "notifications.unread"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub tracks open connections per user. It is safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

// Unregister removes c and closes its queue. Calling it twice is harmless.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
}

// Connections reports the number of open connections for a user.
func (h *Hub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish delivers ev to every connection of the given users.
func (h *Hub) Publish(ev Event, userIDs ...uuid.UUID) {
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Realtime: failed to encode %s event: %v", ev.Type, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range userIDs {
		for c := range h.clients[id] {
			h.deliverLocked(c, msg)
		}
	}
}

// Broadcast delivers ev to every open connection.
func (h *Hub) Broadcast(ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Realtime: failed to encode %s event: %v", ev.Type, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for c := range set {
			h.deliverLocked(c, msg)
		}
	}
}

// deliverLocked never blocks: a client whose queue is full is dropped and
// has to reconnect and refetch.
func (h *Hub) deliverLocked(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		log.Printf("Realtime: dropping slow connection for user %s", c.userID)
		h.removeLocked(c)
	}
}

// Close drops every connection, used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for c := range set {
			h.removeLocked(c)
		}
	}
}
