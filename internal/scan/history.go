package scan

import "sync"

// HistoryCap is the maximum number of retained scan results.
const HistoryCap = 50

// History is a bounded newest-first list of scan results. On overflow the
// oldest result is dropped.
//
// Thread-safety: safe for concurrent use via internal mutex (the display
// clock reads while the pipeline writes).
type History struct {
	mu      sync.Mutex
	results []Result
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Push prepends a result, truncating to HistoryCap.
func (h *History) Push(r Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.results = append([]Result{r}, h.results...)
	if len(h.results) > HistoryCap {
		h.results = h.results[:HistoryCap]
	}
}

// All returns a copy of the retained results, newest first.
func (h *History) All() []Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Result(nil), h.results...)
}

// Len returns the number of retained results.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.results)
}
