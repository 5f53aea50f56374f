// Package events fans out sync and store notifications to any number of
// subscribers (the local websocket stream, CLI watchers, tests).
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/najeeb67/my-money-mat/internal/logger"
)

// Type identifies an event.
type Type string

const (
	UnsyncedCountChanged Type = "unsynced_count_changed"
	SyncPassCompleted    Type = "sync_pass_completed"
	ConflictsUpdated     Type = "conflicts_updated"
	OnlineStatusChanged  Type = "online_status_changed"
	OutboxReplayed       Type = "outbox_replayed"
)

// Event is a single notification.
type Event struct {
	Type      Type            `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Publisher emits events. Implementations must not block the caller.
type Publisher interface {
	Publish(eventType Type, data any)
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(Type, any) {}

const (
	broadcastBuffer  = 100
	subscriberBuffer = 32
)

// Hub broadcasts events to subscribers. Publish never blocks: when the
// broadcast buffer or a subscriber buffer is full the event is dropped for
// that receiver.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	broadcast   chan Event
}

// NewHub creates a hub. Call Run to start delivering.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
		broadcast:   make(chan Event, broadcastBuffer),
	}
}

// Publish implements Publisher.
func (h *Hub) Publish(eventType Type, data any) {
	ev := Event{Type: eventType, Timestamp: time.Now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			logger.Get().Warnw("failed to encode event", "type", eventType, "error", err)
			return
		}
		ev.Data = raw
	}

	select {
	case h.broadcast <- ev:
	default:
		logger.Get().Warnw("event buffer full, dropping event", "type", eventType)
	}
}

// Run delivers events until ctx is done, then closes every subscriber.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case ev := <-h.broadcast:
			h.fanOut(ev)
		}
	}
}

func (h *Hub) fanOut(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			// slow subscriber
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel func removes it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subscribers[ch]; ok {
				delete(h.subscribers, ch)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// SubscriberCount returns the number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		delete(h.subscribers, ch)
		close(ch)
	}
}
