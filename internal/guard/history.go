package guard

import "sync"

// History tracks the route trail so a denied navigation can fall back to
// where the user came from.
type History struct {
	mu       sync.Mutex
	current  string
	previous string
}

func NewHistory() *History {
	return &History{}
}

// Record notes a completed navigation.
func (h *History) Record(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if path == h.current {
		return
	}
	h.previous = h.current
	h.current = path
}

// Previous returns the route visited before the current one, or empty.
func (h *History) Previous() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.previous
}

func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}
