package notify

import (
	"sync"
)

const (
	EventNewNotification = "new_notification"
	EventUnreadCount     = "unread_count"
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub fans notification events out to per-user subscribers. Sends never
// block: a subscriber whose buffer is full misses the event and catches up
// on its next list fetch.
type Hub struct {
	mu   sync.RWMutex
	subs map[uint]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint]map[chan Event]struct{})}
}

func (h *Hub) Subscribe(userID uint) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan Event]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) Publish(userID uint, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[userID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *Hub) Subscribers(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
