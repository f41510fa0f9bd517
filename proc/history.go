package proc

import "sync"

const historyLimit = 50

// playHistory is a bounded set of canonical URLs with FIFO eviction, used to
// keep autoplay from repeating recently played tracks.
type playHistory struct {
	mu      sync.Mutex
	order   []string
	entries map[string]struct{}
}

func newPlayHistory() *playHistory {
	return &playHistory{entries: make(map[string]struct{})}
}

func (h *playHistory) Add(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.entries[url]; ok {
		return
	}
	if len(h.order) >= historyLimit {
		oldest := h.order[0]
		h.order = h.order[1:]
		delete(h.entries, oldest)
	}
	h.order = append(h.order, url)
	h.entries[url] = struct{}{}
}

func (h *playHistory) Contains(url string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.entries[url]
	return ok
}

func (h *playHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.order)
}

func (h *playHistory) Clear() {
	h.mu.Lock()
	h.order = nil
	h.entries = make(map[string]struct{})
	h.mu.Unlock()
}
