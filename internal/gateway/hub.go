package gateway

import "sync"

// authHub fans session changes out to subscribers. Each subscriber holds at
// most one pending event; a newer event replaces an unread one, since only
// the latest session state matters.
type authHub struct {
	mu   sync.Mutex
	subs map[int]chan AuthChange
	next int
	last *AuthChange
}

func newAuthHub() *authHub {
	return &authHub{subs: make(map[int]chan AuthChange)}
}

func (h *authHub) subscribe() (<-chan AuthChange, func(), bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan AuthChange, 1)
	h.subs[id] = ch

	if h.last != nil {
		ch <- *h.last
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
	return ch, cancel, h.last != nil
}

func (h *authHub) publish(ev AuthChange) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = &ev
	for _, ch := range h.subs {
		select {
		case <-ch:
		default:
		}
		ch <- ev
	}
}
