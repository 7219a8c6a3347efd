package engine

import (
	"sync"

	"futures-ai-trader/internal/types"
)

// History is the process-wide trade record: append-only, mutex-guarded so an
// executor can be shared across goroutines. Entries are never mutated after
// being appended.
type History struct {
	mu      sync.Mutex
	entries []types.TradeResult
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(r types.TradeResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, r)
}

// Snapshot returns a defensive copy of the recorded trades.
func (h *History) Snapshot() []types.TradeResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]types.TradeResult, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
