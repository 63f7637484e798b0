package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/golf-scorecard/internal/queue"
)

// Hub tracks the connected clients of every room.  It implements
// queue.Sink for events arriving from the broker and can also stand in for
// the publisher when the server runs without one.
type Hub struct {
	mu    sync.RWMutex
	rooms map[int64]map[*Client]struct{}
	log   logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{rooms: make(map[int64]map[*Client]struct{}), log: log}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[c.roomID]
	if !ok {
		set = make(map[*Client]struct{})
		h.rooms[c.roomID] = set
	}
	set[c] = struct{}{}
	h.log.WithFields(logrus.Fields{"room_id": c.roomID, "user": c.username, "client": c.id}).Debug("ws client registered")
}

// Unregister removes c and closes its send queue.  Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.rooms[c.roomID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			c.closeSend()
		}
		if len(set) == 0 {
			delete(h.rooms, c.roomID)
		}
	}
}

// ClientCount returns how many clients are connected to roomID.
func (h *Hub) ClientCount(roomID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Deliver sends an update-state hint to every client of the event's room
// except those of the user who caused it.  Clients whose queue is full are
// skipped; a missed hint only delays their next refresh.
func (h *Hub) Deliver(ev queue.RoomEvent) {
	payload, err := json.Marshal(Message{
		Type:   TypeUpdateState,
		Room:   ev.Room,
		Reason: ev.Reason,
		By:     ev.By,
	})
	if err != nil {
		h.log.WithError(err).Error("encode update-state")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[ev.RoomID] {
		if ev.ByUserID != 0 && c.userID == ev.ByUserID {
			continue
		}
		select {
		case c.send <- payload:
		default:
			h.log.WithFields(logrus.Fields{"room_id": ev.RoomID, "client": c.id}).Warn("ws client queue full; hint dropped")
		}
	}
}

// Publish delivers ev locally.  It lets a single instance run without a
// broker.
func (h *Hub) Publish(_ context.Context, ev queue.RoomEvent) error {
	h.Deliver(ev)
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomID, set := range h.rooms {
		for c := range set {
			c.closeSend()
		}
		delete(h.rooms, roomID)
	}
}
