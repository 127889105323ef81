package quality

import "sync"

// History is a bounded, oldest-first record of assessments.
type History struct {
	mu      sync.RWMutex
	size    int
	entries []ScanMetrics
}

// NewHistory returns a History keeping at most size entries.
func NewHistory(size int) *History {
	return &History{
		size:    size,
		entries: make([]ScanMetrics, 0, size),
	}
}

// Add appends m, evicting the oldest entry once the history is full.
func (h *History) Add(m ScanMetrics) {
	if h.size <= 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) < h.size {
		h.entries = append(h.entries, m)
		return
	}

	copy(h.entries, h.entries[1:])
	h.entries[len(h.entries)-1] = m
}

// Snapshot returns a copy of the entries, oldest first.
func (h *History) Snapshot() []ScanMetrics {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]ScanMetrics, len(h.entries))
	copy(out, h.entries)

	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Last returns the most recent entry.
func (h *History) Last() (ScanMetrics, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.entries) == 0 {
		return ScanMetrics{}, false
	}

	return h.entries[len(h.entries)-1], true
}
