package sse

import (
	"sync"
)

// Message is one server-sent event.
type Message struct {
	Event string
	Data  interface{}
}

// Hub fans messages out to the open streams of each recipient.
type Hub struct {
	mu          sync.RWMutex
	bufferSize  int
	subscribers map[string]map[chan Message]struct{}
}

func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	return &Hub{
		bufferSize:  bufferSize,
		subscribers: make(map[string]map[chan Message]struct{}),
	}
}

// Subscribe opens a stream for key. The returned func unsubscribes and
// closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(key string) (<-chan Message, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Message, h.bufferSize)
	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[chan Message]struct{})
	}
	h.subscribers[key][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[key], ch)
			close(ch)
			if len(h.subscribers[key]) == 0 {
				delete(h.subscribers, key)
			}
		})
	}
	return ch, cleanup
}

// Publish delivers msg to every stream of every key without blocking. Full
// streams are skipped. Returns the number of streams that received it.
func (h *Hub) Publish(keys []string, msg Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, key := range keys {
		for ch := range h.subscribers[key] {
			select {
			case ch <- msg:
				delivered++
			default:
			}
		}
	}
	return delivered
}

// SubscriberCount returns the number of open streams for key.
func (h *Hub) SubscriberCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[key])
}
