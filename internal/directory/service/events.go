package service

import (
	"sync"
	"time"

	"github.com/synkcrm/sessiond/internal/directory/domain"
)

// EventHub fans session transitions out to subscribers. Slow subscribers get
// events dropped rather than blocking sign-in, so every consumer must treat
// an event as "state changed, go re-derive" rather than a reliable log.
type EventHub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan domain.AuthEvent
}

func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[int]chan domain.AuthEvent)}
}

// Subscribe registers a new subscriber channel. The returned cancel func is
// safe to call multiple times and from any goroutine.
func (h *EventHub) Subscribe() (<-chan domain.AuthEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan domain.AuthEvent, 16)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish broadcasts an event to all current subscribers.
func (h *EventHub) Publish(typ domain.AuthEventType, userID, sessionID string) {
	ev := domain.AuthEvent{
		Type:      typ,
		UserID:    userID,
		SessionID: sessionID,
		At:        time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default: // full buffer, drop
		}
	}
}

// SubscriberCount reports how many subscribers are attached.
func (h *EventHub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
