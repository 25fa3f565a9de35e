// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package realtime

import (
	"encoding/json"
	"sync"

	"github.com/vidora/vidora/internal/pkg/log"
)

// Event names pushed to websocket subscribers.
const (
	EventReceiveComment     = "receive_comment"
	EventUpdateCommentStats = "update_comment_stats"
)

// Frame is the wire envelope for every pushed message.
type Frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Subscriber is one connected client. Frames are queued on a buffered
// channel; a full queue marks the client slow and the hub drops it rather
// than block the broadcast path.
type Subscriber struct {
	send chan []byte
	room string
}

// Hub groups websocket subscribers into per-video rooms and fans broadcast
// frames out to them. All methods are safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscriber]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Subscriber]struct{})}
}

const sendQueueSize = 32

// Join registers a new subscriber in a video's room and returns its outbound
// frame queue. The caller owns draining the channel until Leave.
func (h *Hub) Join(room string) (*Subscriber, <-chan []byte) {
	sub := &Subscriber{
		send: make(chan []byte, sendQueueSize),
		room: room,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Subscriber]struct{})
	}
	h.rooms[room][sub] = struct{}{}

	return sub, sub.send
}

// Leave removes a subscriber and closes its queue. Safe to call twice.
func (h *Hub) Leave(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(sub)
}

// remove must be called with the lock held
func (h *Hub) remove(sub *Subscriber) {
	members, ok := h.rooms[sub.room]
	if !ok {
		return
	}
	if _, ok := members[sub]; !ok {
		return
	}
	delete(members, sub)
	close(sub.send)
	if len(members) == 0 {
		delete(h.rooms, sub.room)
	}
}

// Broadcast pushes an event to every subscriber of a room. Marshals once,
// never blocks: subscribers whose queue is full are dropped.
func (h *Hub) Broadcast(room, event string, data interface{}) {
	payload, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		log.Error("realtime: failed to marshal %s frame: %v", event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.rooms[room] {
		select {
		case sub.send <- payload:
		default:
			log.Warn("realtime: dropping slow subscriber in room %s", room)
			h.remove(sub)
		}
	}
}

// RoomSize reports the current subscriber count of a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
