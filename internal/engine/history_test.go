package engine

import (
	"sync"
	"testing"

	"futures-ai-trader/internal/types"
)

func TestHistoryAppendAndSnapshot(t *testing.T) {
	h := NewHistory()
	h.Append(types.TradeResult{Symbol: "SHFE.au2506", Success: true})
	h.Append(types.TradeResult{Symbol: "SHFE.rb2510", Success: false})

	if h.Len() != 2 {
		t.Fatalf("len = %d, want 2", h.Len())
	}

	snap := h.Snapshot()
	snap[0].Symbol = "mutated"
	if h.Snapshot()[0].Symbol != "SHFE.au2506" {
		t.Error("snapshot is not a defensive copy")
	}
}

func TestHistoryConcurrentAppend(t *testing.T) {
	h := NewHistory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Append(types.TradeResult{Symbol: "SHFE.au2506"})
		}()
	}
	wg.Wait()

	if h.Len() != 50 {
		t.Errorf("len = %d, want 50", h.Len())
	}
}
