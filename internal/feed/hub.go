package feed

import "sync"

// Hub fans signals out to every open dashboard. Each listener holds at most one
// undelivered signal; further signals are dropped until it catches up, since a
// single reload covers any number of changes.
type Hub struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]chan Signal
}

func NewHub() *Hub {
	return &Hub{listeners: map[int]chan Signal{}}
}

// Publish never blocks; it is safe to use as a Subscriber handler.
func (h *Hub) Publish(sig Signal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.listeners {
		select {
		case ch <- sig:
		default:
		}
	}
}

// Subscribe returns a channel of signals and a function that closes it.
func (h *Hub) Subscribe() (<-chan Signal, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Signal, 1)
	h.listeners[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
