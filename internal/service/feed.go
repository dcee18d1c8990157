package service

import "sync"

// FeedHub tells subscribers that the post list changed. Signals carry no
// payload and coalesce: a subscriber that has not yet drained its channel
// sees a single pending signal.
type FeedHub struct {
	mu      sync.Mutex
	clients map[chan struct{}]struct{}
	closed  bool
}

// NewFeedHub creates an empty hub.
func NewFeedHub() *FeedHub {
	return &FeedHub{clients: make(map[chan struct{}]struct{})}
}

// Subscribe registers a listener. The returned channel is closed by the
// unsubscribe func or when the hub closes, whichever comes first.
func (h *FeedHub) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.clients[ch] = struct{}{}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.clients[ch]; ok {
			delete(h.clients, ch)
			close(ch)
		}
	}
}

// Publish signals every subscriber without blocking.
func (h *FeedHub) Publish() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close releases all subscribers. Later subscriptions get a closed channel.
func (h *FeedHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.clients {
		delete(h.clients, ch)
		close(ch)
	}
}

