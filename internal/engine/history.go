package engine

import (
	"sync"
	"time"
)

// Entry is one recorded calculation.
type Entry struct {
	Domain    string
	Operation string
	Result    *Result
	At        time.Time
}

// History is a caller-owned, append-only log of successful calculations.
// When a limit is set only the most recent entries are kept.
type History struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
	now     func() time.Time
}

// NewHistory returns a History keeping at most limit entries; limit <= 0
// keeps everything.
func NewHistory(limit int) *History {
	return &History{limit: limit, now: time.Now}
}

// Append records a calculation.
func (h *History) Append(domain, operation string, res *Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, Entry{
		Domain:    domain,
		Operation: operation,
		Result:    res,
		At:        h.now(),
	})
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = append(h.entries[:0:0], h.entries[len(h.entries)-h.limit:]...)
	}
}

// Entries returns a copy of the recorded calculations, oldest first.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded calculations.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
