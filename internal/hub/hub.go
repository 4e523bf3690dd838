// Package hub implements the real-time fan-out layer: a per-auction
// registry of live subscriber connections receiving typed events. The hub
// is purely transient; it keeps no history and never replays.
package hub

import (
	"sync"
)

// Event is the typed envelope delivered to subscribers.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Event types emitted by the engine.
const (
	EventSnapshot         = "snapshot"
	EventBidUpdated       = "bid.updated"
	EventBidOutbid        = "bid.outbid"
	EventBidFailed        = "bid.failed"
	EventBidQueued        = "bid.queued"
	EventRoundClosed      = "round.closed"
	EventAuctionStarted   = "auction.started"
	EventAuctionCancelled = "auction.cancelled"
	EventViewerCount      = "viewer.count"
	EventChatMessage      = "chat.message"
)

// Conn is one live subscriber connection. Send must never block: it
// reports false when the subscriber cannot keep up, and the hub evicts it.
type Conn interface {
	UserID() string
	Send(Event) bool
	Close()
}

// Hub maps auction ids to their live subscribers.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Conn]struct{}
}

// NewHub creates an empty subscriber registry.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[Conn]struct{})}
}

// AddClient registers a connection as a subscriber of an auction.
func (h *Hub) AddClient(auctionID string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[auctionID]
	if !ok {
		room = make(map[Conn]struct{})
		h.rooms[auctionID] = room
	}
	room[c] = struct{}{}
}

// RemoveClient drops a connection from an auction's subscriber set.
func (h *Hub) RemoveClient(auctionID string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[auctionID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, auctionID)
	}
}

// ViewerCount returns the number of live subscribers of an auction.
func (h *Hub) ViewerCount(auctionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[auctionID])
}

// Broadcast fans an event out to every subscriber of an auction. Sends
// are fire-and-forget: a subscriber that cannot keep up is evicted so the
// mutation path never blocks on a slow connection.
func (h *Hub) Broadcast(auctionID string, ev Event) {
	h.sendWhere(auctionID, ev, func(Conn) bool { return true })
}

// SendToUser delivers an event only to the given user's connections on an
// auction. Used for failure notifications that must not go room-wide.
func (h *Hub) SendToUser(auctionID, userID string, ev Event) {
	h.sendWhere(auctionID, ev, func(c Conn) bool { return c.UserID() == userID })
}

func (h *Hub) sendWhere(auctionID string, ev Event, match func(Conn) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[auctionID]
	if !ok {
		return
	}
	for c := range room {
		if !match(c) {
			continue
		}
		if !c.Send(ev) {
			delete(room, c)
			c.Close()
		}
	}
	if len(room) == 0 {
		delete(h.rooms, auctionID)
	}
}
